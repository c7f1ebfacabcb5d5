package middlewares

import (
	"context"
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/redhatinsights/platform-go-middlewares/identity"
	"github.com/sirupsen/logrus"
)

const (
	authErrorMessage   = "Authentication failed"
	authErrorLogHeader = "Authentication error: "
	identityHeader     = "x-rh-identity"
	PSKClientIdHeader  = "x-rh-connector-service-client-id"
	PSKHeader          = "x-rh-connector-service-psk"

	associateIdentityType = "Associate"
)

// AdminAuthMiddleware guards the private api.  A request authenticates with a pre-shared key, or
// with an x-rh-identity header that turnpike has stamped as an Associate.  Without any configured
// secrets the private api is open, which is how it runs on a local listener.
type AdminAuthMiddleware struct {
	Secrets      map[string]interface{}
	IdentityAuth func(http.Handler) http.Handler
}

func (amw *AdminAuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(amw.Secrets) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get(identityHeader) != "" {
			identityAuth := amw.IdentityAuth
			if identityAuth == nil {
				identityAuth = identity.EnforceIdentity
			}
			identityAuth(requireAssociate(next)).ServeHTTP(w, r)
			return
		}

		principal, err := AuthenticateServiceCredentials(amw.Secrets,
			r.Header.Get(PSKClientIdHeader),
			r.Header.Get(PSKHeader),
		)
		if err != nil {
			logger.Log.WithFields(logrus.Fields{"error": err}).Debug("Authentication failure")
			http.Error(w, authErrorMessage, http.StatusUnauthorized)
			return
		}

		logger.Log.Debugf("Received service to service request from %v", principal.GetName())

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAssociate admits identities that turnpike has stamped as an Associate.  It runs after the
// identity middleware has decoded the header.
func requireAssociate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		xrhID := identity.Get(r.Context())

		if xrhID.Identity.Type != associateIdentityType {
			logger.Log.WithFields(logrus.Fields{"identity_type": xrhID.Identity.Type}).Debug(authErrorLogHeader + "admin api requires an associate identity")
			http.Error(w, authErrorMessage, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
