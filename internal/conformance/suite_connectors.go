package conformance

import (
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/conformance/framework"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var connectorSuite = suite{
	name: "connectors",
	groups: []group{
		{name: "create", run: checkCreateConnector},
		{name: "list", run: checkListConnectors},
		{name: "get", run: checkGetConnector},
		{name: "lookUp", run: checkLookUpConnector},
		{name: "update", run: checkUpdateConnector},
		{name: "state", run: checkConnectorState},
		{name: "rename", run: checkRenameConnector},
		{name: "testConnection", run: checkTestConnector},
		{name: "delete", run: checkDeleteConnector},
	},
}

// mustCreate creates input under the session owner and registers its cleanup with the caller
func (s *session) mustCreate(c *framework.Context, input protocol.ConnectorInput) protocol.Connector {
	resp, outcome := s.createConnector(c, s.owner, input)
	requireStatus(c, http.StatusCreated, outcome, "create "+input.ID)
	return resp.Connector
}

func checkCreateConnector(c *framework.Context, s *session) {
	for _, input := range []protocol.ConnectorInput{httpSourceConnector(), grpcSourceConnector()} {
		name := domain.ConnectorName(domain.ConnectorID(input.ID))
		defer s.cleanup(c, name)

		resp, outcome := s.createConnector(c, s.owner, input)
		if !expectStatus(c, http.StatusCreated, outcome, "create "+input.ID) {
			continue
		}

		connector := resp.Connector
		assert.Equal(c, name, connector.Name, "name")
		assert.Equal(c, input.ID, connector.ID, "id")
		assert.True(c, isValidUID(connector.UID), "uid %q is a uuid", connector.UID)
		assert.True(c, isValidOwner(connector.Owner), "owner %q is a user permalink", connector.Owner)
		assert.Equal(c, input.ConnectorDefinitionName, connector.ConnectorDefinitionName, "connector_definition_name")
		assert.Equal(c, string(domain.ConnectorTypeSource), connector.ConnectorType, "connector_type")
		assert.Equal(c, input.Description, connector.Description, "description")
		assert.Equal(c, string(domain.StateDisconnected), connector.State, "state")
		assert.False(c, connector.Tombstone, "tombstone")
		assert.False(c, connector.CreateTime.IsZero(), "create_time")
		assert.False(c, connector.UpdateTime.IsZero(), "update_time")
		assert.Equal(c, map[string]interface{}{}, connector.Configuration, "configuration")
		if assert.NotNil(c, connector.ConnectorDefinitionDetail, "connector_definition_detail") {
			assert.Equal(c, input.ConnectorDefinitionName, connector.ConnectorDefinitionDetail.Name)
		}
	}

	_, outcome := s.createConnector(c, s.owner, httpSourceConnector())
	expectStatus(c, http.StatusConflict, outcome, "create a duplicate id")

	invalid := httpSourceConnector()
	invalid.ID = "Source HTTP!"
	_, outcome = s.createConnector(c, s.owner, invalid)
	expectStatus(c, http.StatusBadRequest, outcome, "create an invalid id")

	missing := httpSourceConnector()
	missing.ID = ""
	_, outcome = s.createConnector(c, s.owner, missing)
	expectStatus(c, http.StatusBadRequest, outcome, "create without an id")

	unknown := httpSourceConnector()
	unknown.ID = "source-unknown"
	unknown.ConnectorDefinitionName = domain.ConnectorDefinitionName("source-does-not-exist")
	defer s.cleanup(c, domain.ConnectorName("source-unknown"))
	_, outcome = s.createConnector(c, s.owner, unknown)
	expectStatus(c, http.StatusNotFound, outcome, "create from an unknown definition")
}

func checkListConnectors(c *framework.Context, s *session) {
	inputs := []protocol.ConnectorInput{httpSourceConnector(), grpcSourceConnector()}
	for _, input := range inputs {
		defer s.cleanup(c, domain.ConnectorName(domain.ConnectorID(input.ID)))
		s.mustCreate(c, input)
	}

	all, outcome := s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{Filter: sourceTypeFilter})
	requireStatus(c, http.StatusOK, outcome, "list connectors")
	require.Equal(c, int64(len(inputs)), all.TotalSize, "total_size")
	require.Len(c, all.Connectors, len(inputs))

	defaultSize, outcome := s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{Filter: sourceTypeFilter, PageSize: 0})
	if expectStatus(c, http.StatusOK, outcome, "page_size=0") {
		assert.Len(c, defaultSize.Connectors, len(all.Connectors), "page_size=0 returns the default page")
	}

	first, outcome := s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{Filter: sourceTypeFilter, PageSize: 1})
	requireStatus(c, http.StatusOK, outcome, "page_size=1")
	require.Len(c, first.Connectors, 1, "page_size=1")
	assert.Equal(c, all.TotalSize, first.TotalSize, "total_size is independent of paging")
	require.NotEmpty(c, first.NextPageToken, "page_size=1 next_page_token")

	second, outcome := s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{Filter: sourceTypeFilter, PageSize: 1, PageToken: first.NextPageToken})
	requireStatus(c, http.StatusOK, outcome, "page_size=1 with page_token")
	require.Len(c, second.Connectors, 1, "second page")
	assert.Equal(c, connectorUIDs(all.Connectors), []string{first.Connectors[0].UID, second.Connectors[0].UID}, "pages cover the listing without overlap")
	assert.Empty(c, second.NextPageToken, "the last page has no next_page_token")

	basic, outcome := s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{Filter: sourceTypeFilter, PageSize: 1, View: viewBasic})
	if expectStatus(c, http.StatusOK, outcome, "view=VIEW_BASIC") && assert.Len(c, basic.Connectors, 1) {
		expectExplicitNulls(c, outcome, "connectors", "configuration", "connector_definition_detail")
		assert.True(c, isValidOwner(basic.Connectors[0].Owner), "owner")
	}

	full, outcome := s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{Filter: sourceTypeFilter, PageSize: 1, View: viewFull})
	if expectStatus(c, http.StatusOK, outcome, "view=VIEW_FULL") && assert.Len(c, full.Connectors, 1) {
		assert.Equal(c, map[string]interface{}{}, full.Connectors[0].Configuration, "VIEW_FULL configuration")
		assert.NotNil(c, full.Connectors[0].ConnectorDefinitionDetail, "VIEW_FULL connector_definition_detail")
	}

	unspecified, outcome := s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{Filter: sourceTypeFilter, PageSize: 1})
	if expectStatus(c, http.StatusOK, outcome, "view unspecified") && assert.Len(c, unspecified.Connectors, 1) {
		expectExplicitNulls(c, outcome, "connectors", "configuration", "connector_definition_detail")
	}

	exact, outcome := s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{Filter: sourceTypeFilter, PageSize: int32(all.TotalSize)})
	if expectStatus(c, http.StatusOK, outcome, "page_size=total_size") {
		assert.Empty(c, exact.NextPageToken, "page_size=total_size leaves no next page")
	}

	connected, outcome := s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{Filter: "state=" + string(domain.StateConnected)})
	if expectStatus(c, http.StatusOK, outcome, "filter on state") {
		assert.Zero(c, connected.TotalSize, "no connector is connected")
		assert.Empty(c, connected.Connectors)
	}

	_, outcome = s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{Filter: "description=HTTP"})
	expectStatus(c, http.StatusBadRequest, outcome, "filter on an unsupported field")
}

func checkGetConnector(c *framework.Context, s *session) {
	input := httpSourceConnector()
	name := domain.ConnectorName(domain.ConnectorID(input.ID))
	defer s.cleanup(c, name)
	s.mustCreate(c, input)

	for _, view := range []string{"", viewBasic, viewFull} {
		list, outcome := s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{View: view})
		requireStatus(c, http.StatusOK, outcome, "list view="+view)

		var listed *protocol.Connector
		for i := range list.Connectors {
			if list.Connectors[i].Name == name {
				listed = &list.Connectors[i]
			}
		}
		require.NotNil(c, listed, "%s is listed", name)

		got, outcome := s.getConnector(c, s.owner, protocol.GetConnectorRequest{Name: name, View: view})
		if expectStatus(c, http.StatusOK, outcome, "get view="+view) {
			expectIdentical(c, *listed, got.Connector, "get "+name+" view="+view)
		}
	}

	_, outcome := s.getConnector(c, s.owner, protocol.GetConnectorRequest{Name: domain.ConnectorName("source-missing")})
	expectStatus(c, http.StatusNotFound, outcome, "get an unknown connector")
}

func checkLookUpConnector(c *framework.Context, s *session) {
	input := httpSourceConnector()
	name := domain.ConnectorName(domain.ConnectorID(input.ID))
	defer s.cleanup(c, name)
	created := s.mustCreate(c, input)

	permalink := domain.ConnectorCollection + "/" + created.UID

	for _, view := range []string{"", viewFull} {
		got, outcome := s.getConnector(c, s.owner, protocol.GetConnectorRequest{Name: name, View: view})
		requireStatus(c, http.StatusOK, outcome, "get "+name)

		lookedUp, outcome := s.lookUpConnector(c, s.owner, protocol.LookUpConnectorRequest{Permalink: permalink, View: view})
		if expectStatus(c, http.StatusOK, outcome, "lookUp "+permalink) {
			expectIdentical(c, got.Connector, lookedUp.Connector, "lookUp "+permalink+" view="+view)
		}
	}

	_, outcome := s.lookUpConnector(c, s.owner, protocol.LookUpConnectorRequest{Permalink: domain.ConnectorCollection + "/6a0f2b7e-1f45-4d0c-9c7e-8e3c1b2a9d10"})
	expectStatus(c, http.StatusNotFound, outcome, "lookUp an unknown uid")

	_, outcome = s.lookUpConnector(c, s.owner, protocol.LookUpConnectorRequest{Permalink: domain.ConnectorCollection + "/not-a-uid"})
	expectStatus(c, http.StatusBadRequest, outcome, "lookUp a malformed uid")
}

func checkUpdateConnector(c *framework.Context, s *session) {
	input := grpcSourceConnector()
	name := domain.ConnectorName(domain.ConnectorID(input.ID))
	defer s.cleanup(c, name)
	created := s.mustCreate(c, input)

	description := "gRPC source, updated"
	updated, outcome := s.updateConnector(c, s.owner, protocol.UpdateConnectorRequest{
		Name:       name,
		Connector:  protocol.ConnectorPatch{Description: &description},
		UpdateMask: "description",
	})
	if expectStatus(c, http.StatusOK, outcome, "update description") {
		assert.Equal(c, description, updated.Connector.Description, "description")
		assert.Equal(c, created.ID, updated.Connector.ID, "id is immutable")
		assert.Equal(c, created.UID, updated.Connector.UID, "uid is immutable")
		assert.Equal(c, created.Configuration, updated.Connector.Configuration, "configuration is untouched")
	}

	configuration := map[string]interface{}{"note": "reconfigured"}
	updated, outcome = s.updateConnector(c, s.owner, protocol.UpdateConnectorRequest{
		Name:      name,
		Connector: protocol.ConnectorPatch{Configuration: configuration},
	})
	if expectStatus(c, http.StatusOK, outcome, "update configuration without a mask") {
		assert.Equal(c, configuration, updated.Connector.Configuration, "configuration")
		assert.Equal(c, description, updated.Connector.Description, "description is untouched")
	}

	got, outcome := s.getConnector(c, s.owner, protocol.GetConnectorRequest{Name: name, View: viewFull})
	if expectStatus(c, http.StatusOK, outcome, "get after update") {
		assert.Equal(c, description, got.Connector.Description, "stored description")
		assert.Equal(c, configuration, got.Connector.Configuration, "stored configuration")
	}

	_, outcome = s.updateConnector(c, s.owner, protocol.UpdateConnectorRequest{
		Name:       name,
		Connector:  protocol.ConnectorPatch{Description: &description},
		UpdateMask: "id",
	})
	expectStatus(c, http.StatusBadRequest, outcome, "update an immutable field")

	_, outcome = s.updateConnector(c, s.owner, protocol.UpdateConnectorRequest{
		Name:      domain.ConnectorName("source-missing"),
		Connector: protocol.ConnectorPatch{Description: &description},
	})
	expectStatus(c, http.StatusNotFound, outcome, "update an unknown connector")
}

func checkConnectorState(c *framework.Context, s *session) {
	input := httpSourceConnector()
	name := domain.ConnectorName(domain.ConnectorID(input.ID))
	defer s.cleanup(c, name)
	created := s.mustCreate(c, input)
	assert.Equal(c, string(domain.StateDisconnected), created.State, "state after create")

	connected, outcome := s.connectConnector(c, s.owner, name)
	if expectStatus(c, http.StatusOK, outcome, "connect") {
		assert.Equal(c, string(domain.StateConnected), connected.Connector.State, "state after connect")
	}

	got, outcome := s.getConnector(c, s.owner, protocol.GetConnectorRequest{Name: name})
	if expectStatus(c, http.StatusOK, outcome, "get after connect") {
		assert.Equal(c, string(domain.StateConnected), got.Connector.State, "stored state after connect")
	}

	disconnected, outcome := s.disconnectConnector(c, s.owner, name)
	if expectStatus(c, http.StatusOK, outcome, "disconnect") {
		assert.Equal(c, string(domain.StateDisconnected), disconnected.Connector.State, "state after disconnect")
	}

	_, outcome = s.connectConnector(c, s.owner, name)
	expectStatus(c, http.StatusOK, outcome, "connect again")

	expectStatus(c, http.StatusNoContent, s.deleteConnector(c, s.owner, name), "delete a connected connector")

	_, outcome = s.connectConnector(c, s.owner, name)
	expectStatus(c, http.StatusNotFound, outcome, "connect a deleted connector")

	_, outcome = s.disconnectConnector(c, s.owner, name)
	expectStatus(c, http.StatusNotFound, outcome, "disconnect a deleted connector")
}

func checkRenameConnector(c *framework.Context, s *session) {
	httpInput, grpcInput := httpSourceConnector(), grpcSourceConnector()
	name := domain.ConnectorName(domain.ConnectorID(httpInput.ID))
	otherName := domain.ConnectorName(domain.ConnectorID(grpcInput.ID))
	newID := httpInput.ID + "-renamed"
	newName := domain.ConnectorName(domain.ConnectorID(newID))

	defer s.cleanup(c, newName)
	defer s.cleanup(c, otherName)
	defer s.cleanup(c, name)

	created := s.mustCreate(c, httpInput)
	s.mustCreate(c, grpcInput)

	_, outcome := s.renameConnector(c, s.owner, protocol.RenameConnectorRequest{Name: name, NewConnectorID: grpcInput.ID})
	expectStatus(c, http.StatusConflict, outcome, "rename onto a taken id")

	_, outcome = s.renameConnector(c, s.owner, protocol.RenameConnectorRequest{Name: name, NewConnectorID: "Not A Valid Id"})
	expectStatus(c, http.StatusBadRequest, outcome, "rename onto an invalid id")

	renamed, outcome := s.renameConnector(c, s.owner, protocol.RenameConnectorRequest{Name: name, NewConnectorID: newID})
	requireStatus(c, http.StatusOK, outcome, "rename")
	assert.Equal(c, newID, renamed.Connector.ID, "id after rename")
	assert.Equal(c, newName, renamed.Connector.Name, "name after rename")
	assert.Equal(c, created.UID, renamed.Connector.UID, "uid is kept")

	_, outcome = s.getConnector(c, s.owner, protocol.GetConnectorRequest{Name: name})
	expectStatus(c, http.StatusNotFound, outcome, "get the old name")

	got, outcome := s.getConnector(c, s.owner, protocol.GetConnectorRequest{Name: newName})
	if expectStatus(c, http.StatusOK, outcome, "get the new name") {
		assert.Equal(c, created.UID, got.Connector.UID, "uid is kept")
	}

	_, outcome = s.renameConnector(c, s.owner, protocol.RenameConnectorRequest{Name: name, NewConnectorID: "source-http-again"})
	expectStatus(c, http.StatusNotFound, outcome, "rename the old name")
}

func checkTestConnector(c *framework.Context, s *session) {
	input := httpSourceConnector()
	name := domain.ConnectorName(domain.ConnectorID(input.ID))
	defer s.cleanup(c, name)
	s.mustCreate(c, input)

	tested, outcome := s.testConnector(c, s.owner, name)
	if expectStatus(c, http.StatusOK, outcome, "testConnection") {
		assert.Contains(c, []string{string(domain.StateConnected), string(domain.StateError)}, tested.State, "tested state")
	}

	got, outcome := s.getConnector(c, s.owner, protocol.GetConnectorRequest{Name: name})
	if expectStatus(c, http.StatusOK, outcome, "get after testConnection") {
		assert.Equal(c, string(domain.StateDisconnected), got.Connector.State, "testConnection does not change the state")
	}

	_, outcome = s.testConnector(c, s.owner, domain.ConnectorName("source-missing"))
	expectStatus(c, http.StatusNotFound, outcome, "testConnection on an unknown connector")
}

func checkDeleteConnector(c *framework.Context, s *session) {
	input := grpcSourceConnector()
	name := domain.ConnectorName(domain.ConnectorID(input.ID))
	defer s.cleanup(c, name)
	s.mustCreate(c, input)

	expectStatus(c, http.StatusNoContent, s.deleteConnector(c, s.owner, name), "delete")

	_, outcome := s.getConnector(c, s.owner, protocol.GetConnectorRequest{Name: name})
	expectStatus(c, http.StatusNotFound, outcome, "get after delete")

	expectStatus(c, http.StatusNotFound, s.deleteConnector(c, s.owner, name), "delete twice")

	list, outcome := s.listConnectors(c, s.owner, protocol.ListConnectorsRequest{})
	if expectStatus(c, http.StatusOK, outcome, "list after delete") {
		for _, connector := range list.Connectors {
			assert.NotEqual(c, name, connector.Name, "deleted connector is not listed")
		}
	}
}
