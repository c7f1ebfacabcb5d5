package conformance

import (
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/conformance/framework"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminSuite = suite{
	name: "admin",
	groups: []group{
		{name: "list", run: checkListConnectorsAdmin},
		{name: "lookUp", run: checkLookUpConnectorAdmin},
	},
}

func checkListConnectorsAdmin(c *framework.Context, s *session) {
	empty, outcome := s.listConnectorsAdmin(c, protocol.ListConnectorsAdminRequest{Filter: sourceTypeFilter})
	requireStatus(c, http.StatusOK, outcome, "admin list")
	assert.Empty(c, empty.Connectors, "no connectors before any creation")
	assert.Empty(c, empty.NextPageToken, "next_page_token before any creation")
	assert.Zero(c, empty.TotalSize, "total_size before any creation")

	inputs := []protocol.ConnectorInput{httpSourceConnector(), grpcSourceConnector()}
	for _, input := range inputs {
		defer s.cleanup(c, domain.ConnectorName(domain.ConnectorID(input.ID)))
		s.mustCreate(c, input)
	}

	all, outcome := s.listConnectorsAdmin(c, protocol.ListConnectorsAdminRequest{Filter: sourceTypeFilter})
	requireStatus(c, http.StatusOK, outcome, "admin list")
	assert.Equal(c, int64(len(inputs)), all.TotalSize, "total_size")

	defaultSize, outcome := s.listConnectorsAdmin(c, protocol.ListConnectorsAdminRequest{Filter: sourceTypeFilter, PageSize: 0})
	if expectStatus(c, http.StatusOK, outcome, "admin page_size=0") {
		assert.Len(c, defaultSize.Connectors, len(all.Connectors), "page_size=0 returns the default page")
	}

	first, outcome := s.listConnectorsAdmin(c, protocol.ListConnectorsAdminRequest{Filter: sourceTypeFilter, PageSize: 1})
	requireStatus(c, http.StatusOK, outcome, "admin page_size=1")
	require.Len(c, first.Connectors, 1, "page_size=1")

	second, outcome := s.listConnectorsAdmin(c, protocol.ListConnectorsAdminRequest{Filter: sourceTypeFilter, PageSize: 1, PageToken: first.NextPageToken})
	if expectStatus(c, http.StatusOK, outcome, "admin page_size=1 with page_token") && assert.Len(c, second.Connectors, 1, "second page") {
		assert.NotEqual(c, first.Connectors[0].UID, second.Connectors[0].UID, "pages do not overlap")
	}

	basic, outcome := s.listConnectorsAdmin(c, protocol.ListConnectorsAdminRequest{Filter: sourceTypeFilter, PageSize: 1, View: viewBasic})
	if expectStatus(c, http.StatusOK, outcome, "admin view=VIEW_BASIC") && assert.Len(c, basic.Connectors, 1) {
		expectExplicitNulls(c, outcome, "connectors", "configuration", "connector_definition_detail")
		assert.True(c, isValidOwner(basic.Connectors[0].Owner), "owner %q is a user permalink", basic.Connectors[0].Owner)
	}

	full, outcome := s.listConnectorsAdmin(c, protocol.ListConnectorsAdminRequest{Filter: sourceTypeFilter, PageSize: 1, View: viewFull})
	if expectStatus(c, http.StatusOK, outcome, "admin view=VIEW_FULL") && assert.Len(c, full.Connectors, 1) {
		assert.Equal(c, map[string]interface{}{}, full.Connectors[0].Configuration, "VIEW_FULL configuration")
		assert.NotNil(c, full.Connectors[0].ConnectorDefinitionDetail, "VIEW_FULL connector_definition_detail")
		assert.True(c, isValidOwner(full.Connectors[0].Owner), "owner %q is a user permalink", full.Connectors[0].Owner)
	}

	unspecified, outcome := s.listConnectorsAdmin(c, protocol.ListConnectorsAdminRequest{Filter: sourceTypeFilter, PageSize: 1})
	if expectStatus(c, http.StatusOK, outcome, "admin view unspecified") && assert.Len(c, unspecified.Connectors, 1) {
		expectExplicitNulls(c, outcome, "connectors", "configuration", "connector_definition_detail")
	}

	exact, outcome := s.listConnectorsAdmin(c, protocol.ListConnectorsAdminRequest{Filter: sourceTypeFilter, PageSize: int32(all.TotalSize)})
	if expectStatus(c, http.StatusOK, outcome, "admin page_size=total_size") {
		assert.Empty(c, exact.NextPageToken, "page_size=total_size leaves no next page")
	}
}

func checkLookUpConnectorAdmin(c *framework.Context, s *session) {
	input := httpSourceConnector()
	defer s.cleanup(c, domain.ConnectorName(domain.ConnectorID(input.ID)))
	created := s.mustCreate(c, input)

	permalink := domain.ConnectorCollection + "/" + created.UID

	lookedUp, outcome := s.lookUpConnectorAdmin(c, protocol.LookUpConnectorAdminRequest{Permalink: permalink})
	if expectStatus(c, http.StatusOK, outcome, "admin lookUp "+permalink) {
		assert.Equal(c, created.UID, lookedUp.Connector.UID, "uid")
		assert.Equal(c, input.ConnectorDefinitionName, lookedUp.Connector.ConnectorDefinitionName, "connector_definition_name")
		assert.True(c, isValidOwner(lookedUp.Connector.Owner), "owner %q is a user permalink", lookedUp.Connector.Owner)
	}

	_, outcome = s.lookUpConnectorAdmin(c, protocol.LookUpConnectorAdminRequest{Permalink: domain.ConnectorCollection + "/6a0f2b7e-1f45-4d0c-9c7e-8e3c1b2a9d10"})
	expectStatus(c, http.StatusNotFound, outcome, "admin lookUp an unknown uid")
}
