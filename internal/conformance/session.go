package conformance

import (
	"context"
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/conformance/framework"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"github.com/stretchr/testify/require"
)

// session wraps a binding for one scenario group.  Every call must reach the service; the outcome is
// left to the scenario to judge.
type session struct {
	ctx     context.Context
	cfg     Config
	binding Binding
	owner   Identity
}

func newSession(ctx context.Context, cfg Config, binding Binding) *session {
	return &session{
		ctx:     ctx,
		cfg:     cfg,
		binding: binding,
		owner:   cfg.OwnerIdentity(),
	}
}

func (s *session) reached(c *framework.Context, call string, outcome Outcome, err error) {
	require.NoError(c, err, "%s %s did not reach the service", s.binding.Name(), call)
	c.Debug("%s %s -> %s", s.binding.Name(), call, outcome)
}

func (s *session) listConnectorDefinitions(c *framework.Context, req protocol.ListConnectorDefinitionsRequest) (protocol.ListConnectorDefinitionsResponse, Outcome) {
	resp, outcome, err := s.binding.ListConnectorDefinitions(s.ctx, s.owner, req)
	s.reached(c, "ListConnectorDefinitions", outcome, err)
	return resp, outcome
}

func (s *session) getConnectorDefinition(c *framework.Context, req protocol.GetConnectorDefinitionRequest) (protocol.GetConnectorDefinitionResponse, Outcome) {
	resp, outcome, err := s.binding.GetConnectorDefinition(s.ctx, s.owner, req)
	s.reached(c, "GetConnectorDefinition "+req.Name, outcome, err)
	return resp, outcome
}

func (s *session) listConnectors(c *framework.Context, identity Identity, req protocol.ListConnectorsRequest) (protocol.ListConnectorsResponse, Outcome) {
	resp, outcome, err := s.binding.ListConnectors(s.ctx, identity, req)
	s.reached(c, "ListConnectors", outcome, err)
	return resp, outcome
}

func (s *session) getConnector(c *framework.Context, identity Identity, req protocol.GetConnectorRequest) (protocol.GetConnectorResponse, Outcome) {
	resp, outcome, err := s.binding.GetConnector(s.ctx, identity, req)
	s.reached(c, "GetConnector "+req.Name, outcome, err)
	return resp, outcome
}

func (s *session) createConnector(c *framework.Context, identity Identity, input protocol.ConnectorInput) (protocol.CreateConnectorResponse, Outcome) {
	resp, outcome, err := s.binding.CreateConnector(s.ctx, identity, protocol.CreateConnectorRequest{Connector: input})
	s.reached(c, "CreateConnector "+input.ID, outcome, err)
	return resp, outcome
}

func (s *session) updateConnector(c *framework.Context, identity Identity, req protocol.UpdateConnectorRequest) (protocol.UpdateConnectorResponse, Outcome) {
	resp, outcome, err := s.binding.UpdateConnector(s.ctx, identity, req)
	s.reached(c, "UpdateConnector "+req.Name, outcome, err)
	return resp, outcome
}

func (s *session) deleteConnector(c *framework.Context, identity Identity, name string) Outcome {
	outcome, err := s.binding.DeleteConnector(s.ctx, identity, protocol.DeleteConnectorRequest{Name: name})
	s.reached(c, "DeleteConnector "+name, outcome, err)
	return outcome
}

func (s *session) renameConnector(c *framework.Context, identity Identity, req protocol.RenameConnectorRequest) (protocol.RenameConnectorResponse, Outcome) {
	resp, outcome, err := s.binding.RenameConnector(s.ctx, identity, req)
	s.reached(c, "RenameConnector "+req.Name, outcome, err)
	return resp, outcome
}

func (s *session) lookUpConnector(c *framework.Context, identity Identity, req protocol.LookUpConnectorRequest) (protocol.LookUpConnectorResponse, Outcome) {
	resp, outcome, err := s.binding.LookUpConnector(s.ctx, identity, req)
	s.reached(c, "LookUpConnector "+req.Permalink, outcome, err)
	return resp, outcome
}

func (s *session) connectConnector(c *framework.Context, identity Identity, name string) (protocol.ConnectConnectorResponse, Outcome) {
	resp, outcome, err := s.binding.ConnectConnector(s.ctx, identity, protocol.ConnectConnectorRequest{Name: name})
	s.reached(c, "ConnectConnector "+name, outcome, err)
	return resp, outcome
}

func (s *session) disconnectConnector(c *framework.Context, identity Identity, name string) (protocol.DisconnectConnectorResponse, Outcome) {
	resp, outcome, err := s.binding.DisconnectConnector(s.ctx, identity, protocol.DisconnectConnectorRequest{Name: name})
	s.reached(c, "DisconnectConnector "+name, outcome, err)
	return resp, outcome
}

func (s *session) testConnector(c *framework.Context, identity Identity, name string) (protocol.TestConnectorResponse, Outcome) {
	resp, outcome, err := s.binding.TestConnector(s.ctx, identity, protocol.TestConnectorRequest{Name: name})
	s.reached(c, "TestConnector "+name, outcome, err)
	return resp, outcome
}

func (s *session) listConnectorsAdmin(c *framework.Context, req protocol.ListConnectorsAdminRequest) (protocol.ListConnectorsAdminResponse, Outcome) {
	resp, outcome, err := s.binding.ListConnectorsAdmin(s.ctx, req)
	s.reached(c, "ListConnectorsAdmin", outcome, err)
	return resp, outcome
}

func (s *session) lookUpConnectorAdmin(c *framework.Context, req protocol.LookUpConnectorAdminRequest) (protocol.LookUpConnectorAdminResponse, Outcome) {
	resp, outcome, err := s.binding.LookUpConnectorAdmin(s.ctx, req)
	s.reached(c, "LookUpConnectorAdmin "+req.Permalink, outcome, err)
	return resp, outcome
}

// cleanup deletes a connector created by the scenario.  It runs deferred, so it reports but never
// aborts; an already deleted connector is fine.
func (s *session) cleanup(c *framework.Context, name string) {
	outcome, err := s.binding.DeleteConnector(s.ctx, s.owner, protocol.DeleteConnectorRequest{Name: name})
	if err != nil {
		c.Errorf("cleanup of %s did not reach the service: %s", name, err)
		return
	}
	if !outcome.OK() && outcome.Status != http.StatusNotFound {
		c.Errorf("cleanup of %s: %s", name, outcome)
	}
}
