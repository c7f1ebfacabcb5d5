package rpc

import (
	"context"
	"errors"

	"github.com/RedHatInsights/connector-conformance/internal/controller"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/logrus/ctxlogrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a controller error onto its grpc status
func toStatus(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, controller.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, controller.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, controller.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, controller.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		ctxlogrus.Extract(ctx).WithError(err).Error("Request failed")
		return status.Error(codes.Internal, "Internal error")
	}
}
