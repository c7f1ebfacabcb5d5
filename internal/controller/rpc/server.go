package rpc

import (
	"crypto/tls"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"
	"github.com/RedHatInsights/connector-conformance/internal/platform/utils/tls_utils"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// NewServer builds a grpc server with both connector services registered
func NewServer(cfg *config.Config, service *controller.ConnectorService, ownerResolver controller.OwnerResolver) (*grpc.Server, error) {
	creds := insecure.NewCredentials()

	if cfg.GrpcTlsCertFile != "" {
		tlsConfig, err := tls_utils.NewTlsConfig(tls_utils.WithCert(cfg.GrpcTlsCertFile, cfg.GrpcTlsKeyFile))
		if err != nil {
			return nil, err
		}
		creds = credentials.NewTLS(tlsConfig)
	}

	log := logger.Log.WithFields(logrus.Fields{"component": "grpc"})

	server := grpc.NewServer(
		grpc.Creds(creds),
		grpc.ChainUnaryInterceptor(UnaryServerInterceptors(log, ownerResolver, cfg.ServiceToServiceCredentials)...),
	)

	RegisterConnectorPublicServiceServer(server, NewPublicServer(service))
	RegisterConnectorPrivateServiceServer(server, NewPrivateServer(service))

	return server, nil
}

// Dial opens a client connection to a connector service.  A nil tlsConfig dials in plaintext.
func Dial(target string, tlsConfig *tls.Config, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if tlsConfig != nil {
		creds = credentials.NewTLS(tlsConfig)
	}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)

	return grpc.NewClient(target, opts...)
}
