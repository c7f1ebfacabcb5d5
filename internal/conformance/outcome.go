package conformance

import (
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

// Outcome is the binding independent result of a call, expressed as an http status.  Body holds the
// undecoded reply so the wire form can be checked key by key.
type Outcome struct {
	Status  int
	Message string
	Body    []byte
}

func (o Outcome) OK() bool {
	return o.Status >= http.StatusOK && o.Status < http.StatusMultipleChoices
}

func (o Outcome) String() string {
	if o.Message == "" {
		return fmt.Sprintf("%d %s", o.Status, http.StatusText(o.Status))
	}
	return fmt.Sprintf("%d %s: %s", o.Status, http.StatusText(o.Status), o.Message)
}

var grpcCodeToHTTPStatus = map[codes.Code]int{
	codes.OK:                 http.StatusOK,
	codes.Canceled:           499,
	codes.Unknown:            http.StatusInternalServerError,
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.DeadlineExceeded:   http.StatusGatewayTimeout,
	codes.NotFound:           http.StatusNotFound,
	codes.AlreadyExists:      http.StatusConflict,
	codes.PermissionDenied:   http.StatusForbidden,
	codes.Unauthenticated:    http.StatusUnauthorized,
	codes.ResourceExhausted:  http.StatusTooManyRequests,
	codes.FailedPrecondition: http.StatusBadRequest,
	codes.Aborted:            http.StatusConflict,
	codes.OutOfRange:         http.StatusBadRequest,
	codes.Unimplemented:      http.StatusNotImplemented,
	codes.Internal:           http.StatusInternalServerError,
	codes.Unavailable:        http.StatusServiceUnavailable,
	codes.DataLoss:           http.StatusInternalServerError,
}

func httpStatusFromCode(code codes.Code) int {
	if status, ok := grpcCodeToHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
