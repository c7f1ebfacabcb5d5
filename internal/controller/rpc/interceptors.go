package rpc

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/middlewares"
	"github.com/RedHatInsights/connector-conformance/internal/platform/utils/identity_utils"

	"github.com/google/uuid"
	grpc_logrus "github.com/grpc-ecosystem/go-grpc-middleware/logging/logrus"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/logrus/ctxlogrus"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpc_ctxtags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ownerContextKey struct{}

// unauthenticatedMethods serve the shared definition catalog and need no owner
var unauthenticatedMethods = map[string]bool{
	ConnectorPublicService_ListConnectorDefinitions_FullMethodName: true,
	ConnectorPublicService_GetConnectorDefinition_FullMethodName:   true,
}

// UnaryServerInterceptors returns the interceptor chain shared by both services
func UnaryServerInterceptors(log *logrus.Entry, ownerResolver controller.OwnerResolver, secrets map[string]interface{}) []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{
		grpc_ctxtags.UnaryServerInterceptor(),
		grpc_logrus.UnaryServerInterceptor(log),
		grpc_recovery.UnaryServerInterceptor(grpc_recovery.WithRecoveryHandlerContext(recoveryHandler)),
		metricsUnaryServerInterceptor,
		requestIDUnaryServerInterceptor,
		ownerUnaryServerInterceptor(ownerResolver),
		adminAuthUnaryServerInterceptor(secrets),
	}
}

func recoveryHandler(ctx context.Context, p interface{}) error {
	grpcPanicCounter.Inc()

	err := status.Errorf(codes.Unknown, "panic: %v", p)
	ctxlogrus.Extract(ctx).WithFields(logrus.Fields{"panic": p}).Error("gRPC handler panic")
	return err
}

func metricsUnaryServerInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	service, method := splitMethodName(info.FullMethod)

	resp, err := handler(ctx, req)

	grpcHandledCounter.WithLabelValues(service, method, status.Code(err).String()).Inc()
	grpcHandledDuration.WithLabelValues(service, method).Observe(time.Since(start).Seconds())

	return resp, err
}

func requestIDUnaryServerInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	md, _ := metadata.FromIncomingContext(ctx)

	requestID := firstMetadataValue(md, controller.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctxlogrus.AddFields(ctx, logrus.Fields{"request_id": requestID})

	return handler(ctx, req)
}

func ownerUnaryServerInterceptor(resolver controller.OwnerResolver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !strings.HasPrefix(info.FullMethod, "/"+PublicServiceName+"/") || unauthenticatedMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)

		owner, err := resolver.ResolveOwner(ctx, ctxlogrus.Extract(ctx), ownerHeadersFromMetadata(md))
		if err != nil {
			return nil, toStatus(ctx, err)
		}

		ctxlogrus.AddFields(ctx, logrus.Fields{"owner": owner.Permalink()})

		return handler(context.WithValue(ctx, ownerContextKey{}, owner), req)
	}
}

// adminAuthUnaryServerInterceptor mirrors the private http api: a pre-shared key or a turnpike
// Associate identity, and no check at all when no secrets are configured
func adminAuthUnaryServerInterceptor(secrets map[string]interface{}) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !strings.HasPrefix(info.FullMethod, "/"+PrivateServiceName+"/") || len(secrets) == 0 {
			return handler(ctx, req)
		}

		log := ctxlogrus.Extract(ctx)
		md, _ := metadata.FromIncomingContext(ctx)

		if identityHeader := firstMetadataValue(md, controller.IdentityHeader); identityHeader != "" {
			xrhid, err := identity_utils.DecodeIdentityHeader(identityHeader)
			if err != nil || xrhid.Identity.Type != "Associate" {
				log.WithFields(logrus.Fields{"error": err}).Debug("Authentication failure")
				return nil, status.Error(codes.Unauthenticated, "Authentication failed")
			}
			return handler(ctx, req)
		}

		principal, err := middlewares.AuthenticateServiceCredentials(secrets,
			firstMetadataValue(md, middlewares.PSKClientIdHeader),
			firstMetadataValue(md, middlewares.PSKHeader),
		)
		if err != nil {
			log.WithFields(logrus.Fields{"error": err}).Debug("Authentication failure")
			return nil, status.Error(codes.Unauthenticated, "Authentication failed")
		}

		ctxlogrus.AddFields(ctx, logrus.Fields{"principal": principal.GetName()})

		return handler(ctx, req)
	}
}

func ownerFromContext(ctx context.Context) domain.Owner {
	owner, _ := ctx.Value(ownerContextKey{}).(domain.Owner)
	return owner
}

func splitMethodName(fullMethod string) (string, string) {
	fullMethod = strings.TrimPrefix(fullMethod, "/")
	return path.Dir(fullMethod), path.Base(fullMethod)
}
