package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/redhatinsights/platform-go-middlewares/request_id"
	"github.com/sirupsen/logrus"
)

// OwnerMiddleware resolves the owner of a request from its identity headers
type OwnerMiddleware struct {
	Resolver controller.OwnerResolver
}

type ownerErrorResponse struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (omw *OwnerMiddleware) ResolveOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.Log.WithFields(logrus.Fields{"request_id": request_id.GetReqID(r.Context())})

		headers := controller.OwnerHeaders{
			JwtSub:   r.Header.Get(controller.JwtSubHeader),
			OwnerID:  r.Header.Get(controller.OwnerIDHeader),
			Identity: r.Header.Get(controller.IdentityHeader),
		}

		owner, err := omw.Resolver.ResolveOwner(r.Context(), log, headers)
		if err != nil {
			switch {
			case errors.Is(err, controller.ErrUnauthenticated):
				writeOwnerError(w, http.StatusUnauthorized, authErrorMessage)
			case errors.Is(err, controller.ErrNotFound):
				writeOwnerError(w, http.StatusNotFound, "Not found")
			default:
				logger.LogWithError(log, "Unable to resolve owner", err)
				writeOwnerError(w, http.StatusInternalServerError, "Unable to resolve owner")
			}
			return
		}

		ctx := WithOwner(r.Context(), owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithOwner(ctx context.Context, owner domain.Owner) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

func GetOwner(ctx context.Context) (domain.Owner, bool) {
	owner, ok := ctx.Value(ownerKey).(domain.Owner)
	return owner, ok
}

func writeOwnerError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ownerErrorResponse{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
