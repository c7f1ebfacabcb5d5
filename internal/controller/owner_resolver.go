package controller

import (
	"context"
	"errors"

	"github.com/RedHatInsights/connector-conformance/internal/connector_repository"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/platform/utils/identity_utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	JwtSubHeader    = "jwt-sub"
	OwnerIDHeader   = "owner-id"
	IdentityHeader  = "x-rh-identity"
	RequestIDHeader = "x-rh-insights-request-id"
)

// identityOwnerNamespace seeds the uids of owners that are only known through x-rh-identity
var identityOwnerNamespace = uuid.MustParse("5b2e1c5e-4c8d-4b0a-9a57-2f5d3c9c1e7a")

// OwnerHeaders carries the raw identity headers of a request, whatever transport it arrived on
type OwnerHeaders struct {
	JwtSub   string
	OwnerID  string
	Identity string
}

type OwnerResolver interface {
	ResolveOwner(ctx context.Context, log *logrus.Entry, headers OwnerHeaders) (domain.Owner, error)
}

type ownerResolver struct {
	getOwnerByUID  connector_repository.GetOwnerByUID
	getOwnerByID   connector_repository.GetOwnerByID
	defaultOwnerID domain.OwnerID
}

// NewOwnerResolver builds the resolver shared by the REST and gRPC surfaces.  Requests without
// identity headers act as defaultOwnerID; an empty defaultOwnerID rejects them instead.
func NewOwnerResolver(getOwnerByUID connector_repository.GetOwnerByUID, getOwnerByID connector_repository.GetOwnerByID, defaultOwnerID domain.OwnerID) OwnerResolver {
	return &ownerResolver{
		getOwnerByUID:  getOwnerByUID,
		getOwnerByID:   getOwnerByID,
		defaultOwnerID: defaultOwnerID,
	}
}

// ResolveOwner checks jwt-sub, then owner-id, then x-rh-identity, then falls back to the default
// owner.  An identity that names an owner this service does not know resolves to ErrNotFound so
// that callers cannot tell a foreign resource from a missing one.
func (r *ownerResolver) ResolveOwner(ctx context.Context, log *logrus.Entry, headers OwnerHeaders) (domain.Owner, error) {
	switch {
	case headers.JwtSub != "":
		owner, err := r.resolveJwtSub(ctx, log, headers.JwtSub)
		recordOwnerResolution(JwtSubHeader, err)
		return owner, err
	case headers.OwnerID != "":
		owner, err := r.resolveOwnerID(ctx, log, headers.OwnerID)
		recordOwnerResolution(OwnerIDHeader, err)
		return owner, err
	case headers.Identity != "":
		owner, err := r.resolveIdentity(ctx, log, headers.Identity)
		recordOwnerResolution(IdentityHeader, err)
		return owner, err
	default:
		owner, err := r.resolveDefaultOwner(ctx, log)
		recordOwnerResolution("default", err)
		return owner, err
	}
}

func (r *ownerResolver) resolveDefaultOwner(ctx context.Context, log *logrus.Entry) (domain.Owner, error) {
	if r.defaultOwnerID == "" {
		return domain.Owner{}, ErrUnauthenticated
	}

	owner, err := r.getOwnerByID(ctx, log, r.defaultOwnerID)
	if err != nil {
		if errors.Is(err, connector_repository.NotFoundError) || errors.Is(err, connector_repository.InvalidOwnerError) {
			log.WithFields(logrus.Fields{"owner_id": r.defaultOwnerID}).Warn("The default owner is not registered")
			return domain.Owner{}, ErrUnauthenticated
		}
		return domain.Owner{}, translateRepositoryError(err)
	}

	return owner, nil
}

func (r *ownerResolver) resolveJwtSub(ctx context.Context, log *logrus.Entry, jwtSub string) (domain.Owner, error) {
	uid, err := uuid.Parse(jwtSub)
	if err != nil {
		log.WithFields(logrus.Fields{"jwt_sub": jwtSub}).Debug("jwt-sub is not a uuid")
		return domain.Owner{}, ErrNotFound
	}

	owner, err := r.getOwnerByUID(ctx, log, uid)
	if err != nil {
		return domain.Owner{}, translateRepositoryError(err)
	}

	return owner, nil
}

func (r *ownerResolver) resolveOwnerID(ctx context.Context, log *logrus.Entry, ownerID string) (domain.Owner, error) {
	owner, err := r.getOwnerByID(ctx, log, domain.OwnerID(ownerID))
	if err != nil {
		if errors.Is(err, connector_repository.InvalidOwnerError) {
			return domain.Owner{}, ErrNotFound
		}
		return domain.Owner{}, translateRepositoryError(err)
	}

	return owner, nil
}

func (r *ownerResolver) resolveIdentity(ctx context.Context, log *logrus.Entry, identityHeader string) (domain.Owner, error) {
	ownerID, err := identity_utils.OwnerIDFromIdentityHeader(identityHeader)
	if err != nil {
		log.WithFields(logrus.Fields{"error": err}).Debug("Unable to extract org_id from identity header")
		return domain.Owner{}, ErrUnauthenticated
	}

	owner, err := r.getOwnerByID(ctx, log, ownerID)
	if err == nil {
		return owner, nil
	}

	if !errors.Is(err, connector_repository.NotFoundError) {
		return domain.Owner{}, err
	}

	// the platform has already authenticated this org, it does not need to be registered here
	return domain.Owner{
		UID: uuid.NewSHA1(identityOwnerNamespace, []byte(ownerID)),
		ID:  ownerID,
	}, nil
}

func recordOwnerResolution(header string, err error) {
	outcome := "resolved"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrUnauthenticated):
		outcome = "unauthenticated"
	case err != nil:
		outcome = "error"
	}

	metrics.ownerResolutionCounter.WithLabelValues(header, outcome).Inc()
}
