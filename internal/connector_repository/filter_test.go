package connector_repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	testCases := []struct {
		filter   string
		expected []filterClause
	}{
		{"", nil},
		{"   ", nil},
		{"connector_type=CONNECTOR_TYPE_SOURCE", []filterClause{{"connector_type", "CONNECTOR_TYPE_SOURCE"}}},
		{`connector_type = "CONNECTOR_TYPE_DESTINATION"`, []filterClause{{"connector_type", "CONNECTOR_TYPE_DESTINATION"}}},
		{"connector_type=CONNECTOR_TYPE_SOURCE AND state=STATE_CONNECTED", []filterClause{
			{"connector_type", "CONNECTOR_TYPE_SOURCE"},
			{"state", "STATE_CONNECTED"},
		}},
	}

	for _, tc := range testCases {
		clauses, err := parseFilter(tc.filter, connectorFilterFields)
		require.NoError(t, err, tc.filter)
		assert.Equal(t, tc.expected, clauses, tc.filter)
	}
}

func TestParseFilterRejects(t *testing.T) {
	filters := []string{
		"connector_type",
		"connector_type=",
		"connector_type=CONNECTOR_TYPE_SOURCE OR state=STATE_CONNECTED",
		"owner=users/abc",
		"connector_type=CONNECTOR_TYPE_BLOCKCHAIN",
		"state=STATE_CONNECTED",
	}

	for i, filter := range filters {
		fields := connectorFilterFields
		if i == len(filters)-1 {
			// state is not a definition field
			fields = definitionFilterFields
		}

		_, err := parseFilter(filter, fields)
		assert.ErrorIs(t, err, InvalidFilterError, filter)
	}
}
