package domain

import (
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/google/uuid"
)

func TestParseConnectorName(t *testing.T) {
	tests := []struct {
		name        string
		expectedID  ConnectorID
		expectError bool
	}{
		{name: "connectors/source-http", expectedID: "source-http"},
		{name: "source-http", expectedID: "source-http"},
		{name: "connector-definitions/source-http", expectError: true},
		{name: "connectors/", expectError: true},
		{name: "", expectError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ParseConnectorName(tc.name)
			if tc.expectError {
				assert.NotEqual(t, err, nil)
				return
			}
			assert.Equal(t, err, nil)
			assert.Equal(t, id, tc.expectedID)
		})
	}
}

func TestParseConnectorPermalink(t *testing.T) {
	uid := uuid.New()

	parsed, err := ParseConnectorPermalink(ConnectorPermalink(uid))
	assert.Equal(t, err, nil)
	assert.Equal(t, parsed, uid)

	_, err = ParseConnectorPermalink("connectors/not-a-uuid")
	assert.NotEqual(t, err, nil)
}

func TestValidConnectorID(t *testing.T) {
	tests := []struct {
		id    ConnectorID
		valid bool
	}{
		{"source-http", true},
		{"_private", true},
		{"some-id-not-http", true},
		{"Upper", false},
		{"1-starts-with-digit", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(string(tc.id), func(t *testing.T) {
			assert.Equal(t, ValidConnectorID(tc.id), tc.valid)
		})
	}
}

func TestParseView(t *testing.T) {
	tests := []struct {
		input    string
		expected View
		ok       bool
	}{
		{"", ViewBasic, true},
		{"VIEW_UNSPECIFIED", ViewBasic, true},
		{"VIEW_BASIC", ViewBasic, true},
		{"VIEW_FULL", ViewFull, true},
		{"VIEW_HUGE", ViewUnspecified, false},
	}

	for _, tc := range tests {
		t.Run("view="+tc.input, func(t *testing.T) {
			view, ok := ParseView(tc.input)
			assert.Equal(t, ok, tc.ok)
			assert.Equal(t, view, tc.expected)
		})
	}
}
