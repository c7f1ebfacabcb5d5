package conformance

import (
	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/middlewares"

	"github.com/google/uuid"
)

// Identity is the set of headers (or gRPC metadata) that identify a caller
type Identity map[string]string

func OwnerIDIdentity(ownerID string) Identity {
	return Identity{controller.OwnerIDHeader: ownerID}
}

func JwtSubIdentity(uid string) Identity {
	return Identity{controller.JwtSubHeader: uid}
}

// RandomJwtSubIdentity fabricates an identity no service has registered
func RandomJwtSubIdentity() Identity {
	return JwtSubIdentity(uuid.NewString())
}

func PSKIdentity(clientID, psk string) Identity {
	return Identity{
		middlewares.PSKClientIdHeader: clientID,
		middlewares.PSKHeader:         psk,
	}
}
