package conformance

import (
	"fmt"
	"strings"
	"time"
)

const (
	RestBindingName = "rest"
	GrpcBindingName = "grpc"
)

// Config describes the connector service under test
type Config struct {
	PublicURL      string
	PrivateURL     string
	GrpcTarget     string
	Bindings       []string
	OwnerID        string
	ForeignOwnerID string
	AdminClientID  string
	AdminPSK       string
	CACertFile     string
	SkipTLSVerify  bool
	RequestTimeout time.Duration
}

func (c Config) String() string {
	return fmt.Sprintf("public_url: %s, private_url: %s, grpc_target: %s, bindings: %s, owner_id: %s, foreign_owner_id: %s, admin_client_id: %s, request_timeout: %s",
		c.PublicURL,
		c.PrivateURL,
		c.GrpcTarget,
		strings.Join(c.Bindings, ","),
		c.OwnerID,
		c.ForeignOwnerID,
		c.AdminClientID,
		c.RequestTimeout)
}

// OwnerIdentity is the identity every scenario creates its connectors under
func (c Config) OwnerIdentity() Identity {
	return OwnerIDIdentity(c.OwnerID)
}

// AdminIdentity carries the pre-shared key headers of the private API, if any
func (c Config) AdminIdentity() Identity {
	if c.AdminClientID == "" {
		return Identity{}
	}
	return PSKIdentity(c.AdminClientID, c.AdminPSK)
}
