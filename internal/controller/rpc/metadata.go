package rpc

import (
	"context"
	"strconv"

	"github.com/RedHatInsights/connector-conformance/internal/controller"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/logrus/ctxlogrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// HTTPCodeHeader tells a gateway which http status a successful call maps onto
const HTTPCodeHeader = "x-http-code"

func setHTTPCode(ctx context.Context, code int) {
	if err := grpc.SetHeader(ctx, metadata.Pairs(HTTPCodeHeader, strconv.Itoa(code))); err != nil {
		ctxlogrus.Extract(ctx).WithError(err).Warn("Unable to set the http code header")
	}
}

func firstMetadataValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

func ownerHeadersFromMetadata(md metadata.MD) controller.OwnerHeaders {
	return controller.OwnerHeaders{
		JwtSub:   firstMetadataValue(md, controller.JwtSubHeader),
		OwnerID:  firstMetadataValue(md, controller.OwnerIDHeader),
		Identity: firstMetadataValue(md, controller.IdentityHeader),
	}
}
