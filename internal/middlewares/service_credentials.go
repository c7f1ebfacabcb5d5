package middlewares

import (
	"errors"
)

type serviceCredentials struct {
	clientID string
	psk      string
}

func newServiceCredentials(clientID, psk string) (*serviceCredentials, error) {
	switch {
	case clientID == "":
		return nil, errors.New(authErrorLogHeader + "Missing " + PSKClientIdHeader + " header")
	case psk == "":
		return nil, errors.New(authErrorLogHeader + "Missing " + PSKHeader + " header")
	}

	return &serviceCredentials{
		clientID: clientID,
		psk:      psk,
	}, nil
}

type serviceCredentialsValidator struct {
	knownServiceCredentials map[string]interface{}
}

func (scv *serviceCredentialsValidator) validate(sc *serviceCredentials) error {
	switch {
	case scv.knownServiceCredentials[sc.clientID] == nil:
		return errors.New(authErrorLogHeader + "Provided ClientID not attached to any known keys")
	case sc.psk != scv.knownServiceCredentials[sc.clientID]:
		return errors.New(authErrorLogHeader + "Provided PSK does not match known key for this client")
	}
	return nil
}

// AuthenticateServiceCredentials checks a client id / pre-shared key pair against the known secrets
func AuthenticateServiceCredentials(secrets map[string]interface{}, clientID, psk string) (Principal, error) {
	sc, err := newServiceCredentials(clientID, psk)
	if err != nil {
		return nil, err
	}

	validator := serviceCredentialsValidator{knownServiceCredentials: secrets}
	if err := validator.validate(sc); err != nil {
		return nil, err
	}

	return serviceToServicePrincipal{clientID: sc.clientID}, nil
}
