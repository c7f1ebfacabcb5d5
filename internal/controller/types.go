package controller

import (
	"errors"
	"fmt"

	"github.com/RedHatInsights/connector-conformance/internal/connector_repository"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyExists   = errors.New("already exists")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// translateRepositoryError folds repository sentinels into the controller's error classes so the
// transports only need to know about the latter
func translateRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, connector_repository.NotFoundError):
		return ErrNotFound
	case errors.Is(err, connector_repository.AlreadyExistsError):
		return ErrAlreadyExists
	case errors.Is(err, connector_repository.InvalidPageTokenError),
		errors.Is(err, connector_repository.InvalidPageSizeError),
		errors.Is(err, connector_repository.InvalidFilterError),
		errors.Is(err, connector_repository.InvalidOwnerError):
		return fmt.Errorf("%w: %s", ErrInvalidArgument, err)
	default:
		return err
	}
}

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
