package conformance

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/RedHatInsights/connector-conformance/internal/conformance/framework"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	httpSourceDefinition = "connector-definitions/source-http"
	grpcSourceDefinition = "connector-definitions/source-grpc"

	sourceTypeFilter = "connector_type=" + string(domain.ConnectorTypeSource)

	viewBasic = string(domain.ViewBasic)
	viewFull  = string(domain.ViewFull)
)

func httpSourceConnector() protocol.ConnectorInput {
	return protocol.ConnectorInput{
		ID:                      "source-http",
		ConnectorDefinitionName: httpSourceDefinition,
		Description:             "HTTP source",
		Configuration:           map[string]interface{}{},
	}
}

func grpcSourceConnector() protocol.ConnectorInput {
	return protocol.ConnectorInput{
		ID:                      "source-grpc",
		ConnectorDefinitionName: grpcSourceDefinition,
		Description:             "gRPC source",
		Configuration:           map[string]interface{}{},
	}
}

func expectStatus(c *framework.Context, want int, outcome Outcome, call string) bool {
	return assert.Equal(c, want, outcome.Status, "%s: %s", call, outcome)
}

func requireStatus(c *framework.Context, want int, outcome Outcome, call string) {
	require.Equal(c, want, outcome.Status, "%s: %s", call, outcome)
}

// expectIdentical compares two records field for field
func expectIdentical(c *framework.Context, want, got interface{}, what string) bool {
	if diff := cmp.Diff(want, got); diff != "" {
		c.Errorf("%s differs (-want +got):\n%s", what, diff)
		return false
	}
	return true
}

// expectExplicitNulls checks the undecoded reply: every record under field must carry each of keys
// with a json null.  A missing key fails the same as a populated one.
func expectExplicitNulls(c *framework.Context, outcome Outcome, field string, keys ...string) bool {
	var reply map[string]json.RawMessage
	if err := json.Unmarshal(outcome.Body, &reply); err != nil {
		c.Errorf("reply is not a json object: %v", err)
		return false
	}

	raw, ok := reply[field]
	if !ok {
		c.Errorf("reply has no %q field", field)
		return false
	}

	var records []map[string]json.RawMessage
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		if err := json.Unmarshal(raw, &records); err != nil {
			c.Errorf("%s: %v", field, err)
			return false
		}
	} else {
		var record map[string]json.RawMessage
		if err := json.Unmarshal(raw, &record); err != nil {
			c.Errorf("%s: %v", field, err)
			return false
		}
		records = append(records, record)
	}

	ok = true
	for i, record := range records {
		for _, key := range keys {
			value, present := record[key]
			switch {
			case !present:
				c.Errorf("%s[%d]: %q is missing, expected an explicit null", field, i, key)
				ok = false
			case !bytes.Equal(bytes.TrimSpace(value), []byte("null")):
				c.Errorf("%s[%d]: %q is %s, expected null", field, i, key, value)
				ok = false
			}
		}
	}
	return ok
}

func isValidOwner(owner string) bool {
	uid, found := strings.CutPrefix(owner, domain.OwnerCollection+"/")
	if !found {
		return false
	}
	_, err := uuid.Parse(uid)
	return err == nil
}

func isValidUID(uid string) bool {
	_, err := uuid.Parse(uid)
	return err == nil
}

func connectorUIDs(connectors []protocol.Connector) []string {
	uids := make([]string, 0, len(connectors))
	for _, connector := range connectors {
		uids = append(uids, connector.UID)
	}
	return uids
}

func definitionUIDs(defs []protocol.ConnectorDefinition) []string {
	uids := make([]string, 0, len(defs))
	for _, def := range defs {
		uids = append(uids, def.UID)
	}
	return uids
}
