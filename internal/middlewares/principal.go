package middlewares

import (
	"context"

	"github.com/redhatinsights/platform-go-middlewares/identity"
)

// Principal describes who called the private api
type Principal interface {
	GetName() string
}

type key int

const (
	principalKey key = iota
	ownerKey
)

type serviceToServicePrincipal struct {
	clientID string
}

func (sp serviceToServicePrincipal) GetName() string {
	return sp.clientID
}

type associatePrincipal struct {
	email string
}

func (ap associatePrincipal) GetName() string {
	return ap.email
}

// GetPrincipal takes the request context and determines which middleware (identity header vs service to service) was used
// before returning a principal object.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(serviceToServicePrincipal)
	if !ok {
		id, ok := ctx.Value(identity.Key).(identity.XRHID)
		p := associatePrincipal{email: id.Identity.User.Email}
		return p, ok
	}
	return p, ok
}
