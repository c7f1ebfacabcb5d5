package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/RedHatInsights/connector-conformance/internal/conformance"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger()
}

func TestListSuites(t *testing.T) {
	cmd := NewRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list-suites"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, conformance.SuiteNames(), strings.Fields(out.String()))
}

func TestUnknownBindingIsRejected(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--bindings", "soap"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.NotErrorIs(t, err, errConformanceFailures)
}

func TestFlagsFallBackToEnvironment(t *testing.T) {
	t.Setenv("CONNECTOR_CONFORMANCE_PUBLIC_URL", "http://connectors.example.com/v1alpha")
	t.Setenv("CONNECTOR_CONFORMANCE_FOREIGN_OWNER_ID", "other-user")

	_, options := newRootCommand()

	cfg := configFromOptions(options)
	assert.Equal(t, "http://connectors.example.com/v1alpha", cfg.PublicURL)
	assert.Equal(t, "other-user", cfg.ForeignOwnerID)
	assert.Equal(t, "local-user", cfg.OwnerID)
	assert.Equal(t, []string{conformance.RestBindingName, conformance.GrpcBindingName}, cfg.Bindings)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("CONNECTOR_CONFORMANCE_OWNER_ID", "env-user")

	cmd, options := newRootCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--owner-id", "flag-user", "--timeout", "3s"}))

	cfg := configFromOptions(options)
	assert.Equal(t, "flag-user", cfg.OwnerID)
	assert.Equal(t, "3s", cfg.RequestTimeout.String())
}
