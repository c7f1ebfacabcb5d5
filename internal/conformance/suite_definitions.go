package conformance

import (
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/conformance/framework"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var definitionSuite = suite{
	name: "definitions",
	groups: []group{
		{name: "list", run: checkListConnectorDefinitions},
		{name: "get", run: checkGetConnectorDefinition},
		{name: "invalid-list-parameters", run: checkInvalidListParameters},
	},
}

func checkListConnectorDefinitions(c *framework.Context, s *session) {
	all, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{})
	requireStatus(c, http.StatusOK, outcome, "list connector definitions")
	require.Greater(c, all.TotalSize, int64(0), "total_size")
	assert.LessOrEqual(c, len(all.ConnectorDefinitions), 10, "default page size")

	defaultSize, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{PageSize: 0})
	if expectStatus(c, http.StatusOK, outcome, "page_size=0") {
		assert.Len(c, defaultSize.ConnectorDefinitions, len(all.ConnectorDefinitions), "page_size=0 returns the default page")
	}

	unbounded, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{PageSize: int32(all.TotalSize)})
	requireStatus(c, http.StatusOK, outcome, "page_size=total_size")
	assert.Empty(c, unbounded.NextPageToken, "page_size=total_size leaves no next page")
	assert.Len(c, unbounded.ConnectorDefinitions, int(all.TotalSize))

	first, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{PageSize: 1})
	requireStatus(c, http.StatusOK, outcome, "page_size=1")
	require.Len(c, first.ConnectorDefinitions, 1, "page_size=1")
	assert.Equal(c, all.TotalSize, first.TotalSize, "total_size is independent of paging")

	if all.TotalSize > 1 {
		require.NotEmpty(c, first.NextPageToken, "page_size=1 next_page_token")

		second, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{PageSize: 1, PageToken: first.NextPageToken})
		requireStatus(c, http.StatusOK, outcome, "page_size=1 with page_token")
		require.Len(c, second.ConnectorDefinitions, 1, "second page")

		firstUID, secondUID := first.ConnectorDefinitions[0].UID, second.ConnectorDefinitions[0].UID
		assert.NotEqual(c, firstUID, secondUID, "pages do not overlap")
		assert.Equal(c, definitionUIDs(unbounded.ConnectorDefinitions)[:2], []string{firstUID, secondUID}, "pages follow the listing order")
	}

	basic, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{PageSize: 1, View: viewBasic})
	if expectStatus(c, http.StatusOK, outcome, "view=VIEW_BASIC") && assert.Len(c, basic.ConnectorDefinitions, 1) {
		expectExplicitNulls(c, outcome, "connector_definitions", "spec")
	}

	full, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{PageSize: 1, View: viewFull})
	if expectStatus(c, http.StatusOK, outcome, "view=VIEW_FULL") && assert.Len(c, full.ConnectorDefinitions, 1) {
		assert.NotNil(c, full.ConnectorDefinitions[0].Spec, "VIEW_FULL spec")
	}

	unspecified, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{PageSize: 1})
	if expectStatus(c, http.StatusOK, outcome, "view unspecified") && assert.Len(c, unspecified.ConnectorDefinitions, 1) {
		expectExplicitNulls(c, outcome, "connector_definitions", "spec")
	}

	sources, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{Filter: sourceTypeFilter})
	requireStatus(c, http.StatusOK, outcome, "filter="+sourceTypeFilter)
	require.Greater(c, sources.TotalSize, int64(0), "source definitions")
	assert.LessOrEqual(c, sources.TotalSize, all.TotalSize)
	for _, def := range sources.ConnectorDefinitions {
		assert.Equal(c, string(domain.ConnectorTypeSource), def.ConnectorType, "filtered definition %s", def.Name)
	}

	allSources, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{Filter: sourceTypeFilter, PageSize: int32(sources.TotalSize)})
	if expectStatus(c, http.StatusOK, outcome, "filter with page_size=total_size") {
		assert.Empty(c, allSources.NextPageToken, "filtered page_size=total_size leaves no next page")
		assert.Len(c, allSources.ConnectorDefinitions, int(sources.TotalSize))
	}
}

func checkGetConnectorDefinition(c *framework.Context, s *session) {
	all, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{Filter: sourceTypeFilter})
	requireStatus(c, http.StatusOK, outcome, "list connector definitions")
	require.NotEmpty(c, all.ConnectorDefinitions)

	def := all.ConnectorDefinitions[0]

	got, outcome := s.getConnectorDefinition(c, protocol.GetConnectorDefinitionRequest{Name: domain.ConnectorDefinitionName(def.ID)})
	if expectStatus(c, http.StatusOK, outcome, "get "+def.Name) {
		expectIdentical(c, def, got.ConnectorDefinition, "get "+def.Name)
		assert.NotEmpty(c, got.ConnectorDefinition.Name, "resource name")
		assert.Equal(c, def.Name, got.ConnectorDefinition.Name, "resource name")
	}

	_, outcome = s.getConnectorDefinition(c, protocol.GetConnectorDefinitionRequest{Name: def.Name, View: viewBasic})
	if expectStatus(c, http.StatusOK, outcome, "get view=VIEW_BASIC") {
		expectExplicitNulls(c, outcome, "connector_definition", "spec")
	}

	full, outcome := s.getConnectorDefinition(c, protocol.GetConnectorDefinitionRequest{Name: def.Name, View: viewFull})
	if expectStatus(c, http.StatusOK, outcome, "get view=VIEW_FULL") {
		assert.NotNil(c, full.ConnectorDefinition.Spec, "VIEW_FULL spec")
	}

	allFull, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{Filter: sourceTypeFilter, View: viewFull})
	if expectStatus(c, http.StatusOK, outcome, "list view=VIEW_FULL") && assert.NotEmpty(c, allFull.ConnectorDefinitions) {
		expectIdentical(c, allFull.ConnectorDefinitions[0], full.ConnectorDefinition, "get view=VIEW_FULL")
	}

	_, outcome = s.getConnectorDefinition(c, protocol.GetConnectorDefinitionRequest{Name: domain.ConnectorDefinitionName("source-does-not-exist")})
	expectStatus(c, http.StatusNotFound, outcome, "get unknown definition")
}

func checkInvalidListParameters(c *framework.Context, s *session) {
	_, outcome := s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{PageSize: -1})
	expectStatus(c, http.StatusBadRequest, outcome, "page_size=-1")

	_, outcome = s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{View: "VIEW_EVERYTHING"})
	expectStatus(c, http.StatusBadRequest, outcome, "unknown view")

	_, outcome = s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{PageToken: "not a page token"})
	expectStatus(c, http.StatusBadRequest, outcome, "malformed page_token")

	_, outcome = s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{Filter: "title=HTTP"})
	expectStatus(c, http.StatusBadRequest, outcome, "filter on an unsupported field")

	_, outcome = s.listConnectorDefinitions(c, protocol.ListConnectorDefinitionsRequest{Filter: "connector_type="})
	expectStatus(c, http.StatusBadRequest, outcome, "malformed filter")
}
