package domain

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

var webhookSpec = DefinitionSpec{
	"connection_specification": map[string]interface{}{
		"properties": map[string]interface{}{
			"endpoint": map[string]interface{}{"type": "string"},
			"api_key":  map[string]interface{}{"type": "string", "credential_field": true},
			"auth": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"user":     map[string]interface{}{"type": "string"},
					"password": map[string]interface{}{"type": "string", "credential_field": true},
				},
			},
		},
	},
}

func TestCredentialPaths(t *testing.T) {
	paths := webhookSpec.CredentialPaths()

	assert.Equal(t, len(paths), 2)

	_, found := paths["api_key"]
	assert.Equal(t, found, true)

	_, found = paths["auth.password"]
	assert.Equal(t, found, true)

	assert.Equal(t, len(DefinitionSpec{}.CredentialPaths()), 0)
}

func TestMaskCredentials(t *testing.T) {
	config := Configuration{
		"endpoint": "http://localhost",
		"api_key":  "secret",
		"auth":     map[string]interface{}{"user": "bob", "password": "hunter2"},
	}

	masked := config.MaskCredentials(webhookSpec.CredentialPaths())

	assert.Equal(t, masked["endpoint"], "http://localhost")
	assert.Equal(t, masked["api_key"], CredentialMask)
	assert.Equal(t, masked["auth"].(map[string]interface{})["user"], "bob")
	assert.Equal(t, masked["auth"].(map[string]interface{})["password"], CredentialMask)

	// the source configuration is untouched
	assert.Equal(t, config["api_key"], "secret")
	assert.Equal(t, config["auth"].(map[string]interface{})["password"], "hunter2")

	var empty Configuration
	assert.Equal(t, empty.MaskCredentials(webhookSpec.CredentialPaths()) == nil, true)
}

func TestRestoreMaskedCredentials(t *testing.T) {
	stored := Configuration{
		"endpoint": "http://localhost",
		"api_key":  "secret",
		"auth":     map[string]interface{}{"user": "bob", "password": "hunter2"},
	}

	incoming := Configuration{
		"endpoint": "http://remote",
		"api_key":  CredentialMask,
		"auth":     map[string]interface{}{"user": "alice", "password": CredentialMask},
	}

	restored := incoming.RestoreMaskedCredentials(stored, webhookSpec.CredentialPaths())

	assert.Equal(t, restored["endpoint"], "http://remote")
	assert.Equal(t, restored["api_key"], "secret")
	assert.Equal(t, restored["auth"].(map[string]interface{})["user"], "alice")
	assert.Equal(t, restored["auth"].(map[string]interface{})["password"], "hunter2")
}

func TestRestoreMaskedCredentialsReplacesNewValues(t *testing.T) {
	stored := Configuration{"api_key": "secret"}
	incoming := Configuration{"api_key": "rotated"}

	restored := incoming.RestoreMaskedCredentials(stored, webhookSpec.CredentialPaths())

	assert.Equal(t, restored["api_key"], "rotated")
}

func TestRestoreMaskedCredentialsWithNothingStored(t *testing.T) {
	incoming := Configuration{"api_key": CredentialMask, "endpoint": "http://localhost"}

	restored := incoming.RestoreMaskedCredentials(Configuration{}, webhookSpec.CredentialPaths())

	_, found := restored["api_key"]
	assert.Equal(t, found, false)
	assert.Equal(t, restored["endpoint"], "http://localhost")
}
