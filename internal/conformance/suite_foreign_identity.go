package conformance

import (
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/conformance/framework"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"github.com/stretchr/testify/assert"
)

var foreignIdentitySuite = suite{
	name: "foreign-identity",
	groups: []group{
		{name: "unregistered-jwt-sub", run: checkUnregisteredJwtSub},
		{name: "other-owner", run: checkOtherOwner},
	},
}

func checkUnregisteredJwtSub(c *framework.Context, s *session) {
	foreign := RandomJwtSubIdentity()

	_, outcome := s.createConnector(c, foreign, httpSourceConnector())
	expectStatus(c, http.StatusNotFound, outcome, "create with an unregistered jwt-sub")

	_, outcome = s.listConnectors(c, foreign, protocol.ListConnectorsRequest{Filter: sourceTypeFilter})
	expectStatus(c, http.StatusNotFound, outcome, "list with an unregistered jwt-sub")

	expectForeignNotFound(c, s, foreign)
}

func checkOtherOwner(c *framework.Context, s *session) {
	if s.cfg.ForeignOwnerID == "" {
		c.SkipWithReason("no second registered owner configured")
	}

	foreign := OwnerIDIdentity(s.cfg.ForeignOwnerID)

	list, outcome := s.listConnectors(c, foreign, protocol.ListConnectorsRequest{})
	if expectStatus(c, http.StatusOK, outcome, "list as another owner") {
		assert.Zero(c, list.TotalSize, "another owner starts without connectors")
	}

	expectForeignNotFound(c, s, foreign)
}

// expectForeignNotFound creates a connector as the session owner and checks that every operation
// by foreign reports it as not found.  The owner's delete must still succeed afterwards.
func expectForeignNotFound(c *framework.Context, s *session, foreign Identity) {
	input := httpSourceConnector()
	name := domain.ConnectorName(domain.ConnectorID(input.ID))
	defer s.cleanup(c, name)
	created := s.mustCreate(c, input)

	_, outcome := s.getConnector(c, foreign, protocol.GetConnectorRequest{Name: name})
	expectStatus(c, http.StatusNotFound, outcome, "foreign get")

	description := "taken over"
	_, outcome = s.updateConnector(c, foreign, protocol.UpdateConnectorRequest{
		Name:       name,
		Connector:  protocol.ConnectorPatch{Description: &description},
		UpdateMask: "description",
	})
	expectStatus(c, http.StatusNotFound, outcome, "foreign update")

	_, outcome = s.connectConnector(c, foreign, name)
	expectStatus(c, http.StatusNotFound, outcome, "foreign connect")

	_, outcome = s.disconnectConnector(c, foreign, name)
	expectStatus(c, http.StatusNotFound, outcome, "foreign disconnect")

	_, outcome = s.renameConnector(c, foreign, protocol.RenameConnectorRequest{Name: name, NewConnectorID: input.ID + "-taken"})
	expectStatus(c, http.StatusNotFound, outcome, "foreign rename")

	_, outcome = s.testConnector(c, foreign, name)
	expectStatus(c, http.StatusNotFound, outcome, "foreign testConnection")

	_, outcome = s.lookUpConnector(c, foreign, protocol.LookUpConnectorRequest{Permalink: domain.ConnectorCollection + "/" + created.UID})
	expectStatus(c, http.StatusNotFound, outcome, "foreign lookUp")

	expectStatus(c, http.StatusNotFound, s.deleteConnector(c, foreign, name), "foreign delete")

	got, outcome := s.getConnector(c, s.owner, protocol.GetConnectorRequest{Name: name})
	if expectStatus(c, http.StatusOK, outcome, "owner get after foreign calls") {
		assert.Equal(c, created.Description, got.Connector.Description, "description is untouched")
		assert.Equal(c, created.ID, got.Connector.ID, "id is untouched")
		assert.Equal(c, string(domain.StateDisconnected), got.Connector.State, "state is untouched")
	}

	expectStatus(c, http.StatusNoContent, s.deleteConnector(c, s.owner, name), "owner delete")
}
