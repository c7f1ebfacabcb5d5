package identity_utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/RedHatInsights/connector-conformance/internal/domain"

	"github.com/redhatinsights/platform-go-middlewares/identity"
)

var MissingOrgIDError = errors.New("Unable to locate org_id in identity header")

// DecodeIdentityHeader decodes a base64 encoded x-rh-identity header
func DecodeIdentityHeader(header string) (identity.XRHID, error) {
	var xrhid identity.XRHID

	idRaw, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return xrhid, err
	}

	err = json.Unmarshal(idRaw, &xrhid)
	if err != nil {
		return xrhid, err
	}

	return xrhid, nil
}

// OwnerIDFromIdentity returns the org id carried by the identity.  The top level org_id wins over
// the legacy internal.org_id.
func OwnerIDFromIdentity(xrhid identity.XRHID) (domain.OwnerID, error) {
	if xrhid.Identity.OrgID != "" {
		return domain.OwnerID(xrhid.Identity.OrgID), nil
	}

	if xrhid.Identity.Internal.OrgID != "" {
		return domain.OwnerID(xrhid.Identity.Internal.OrgID), nil
	}

	return "", MissingOrgIDError
}

func OwnerIDFromIdentityHeader(header string) (domain.OwnerID, error) {
	xrhid, err := DecodeIdentityHeader(header)
	if err != nil {
		return "", err
	}

	return OwnerIDFromIdentity(xrhid)
}
