package conformance

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/controller/rpc"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GrpcBinding struct {
	conn    *grpc.ClientConn
	public  rpc.ConnectorPublicServiceClient
	private rpc.ConnectorPrivateServiceClient
	admin   Identity
	timeout time.Duration
}

// DialGrpcBinding connects to target.  A nil tlsConfig dials in plaintext.
func DialGrpcBinding(target string, admin Identity, tlsConfig *tls.Config, timeout time.Duration, opts ...grpc.DialOption) (*GrpcBinding, error) {
	conn, err := rpc.Dial(target, tlsConfig, opts...)
	if err != nil {
		return nil, err
	}

	return &GrpcBinding{
		conn:    conn,
		public:  rpc.NewConnectorPublicServiceClient(conn),
		private: rpc.NewConnectorPrivateServiceClient(conn),
		admin:   admin,
		timeout: timeout,
	}, nil
}

func (b *GrpcBinding) Name() string {
	return GrpcBindingName
}

func (b *GrpcBinding) Close() error {
	return b.conn.Close()
}

// recordingCodec decodes like the service codec and keeps a copy of the reply
type recordingCodec struct {
	reply *[]byte
}

func (r recordingCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (r recordingCodec) Unmarshal(data []byte, v interface{}) error {
	*r.reply = append([]byte(nil), data...)
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (recordingCodec) Name() string {
	return rpc.CodecName
}

// invokeGrpc sends identity as metadata and folds the status (and the x-http-code header of a
// successful call) into an Outcome.  Unavailable with no metadata at all means the call never got
// an answer from the service and is returned as an error, the same as a refused REST connection.
func invokeGrpc[Req any, Resp any](ctx context.Context, timeout time.Duration, identity Identity, call func(context.Context, *Req, ...grpc.CallOption) (*Resp, error), req Req) (Resp, Outcome, error) {
	var zero Resp

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ctx = metadata.NewOutgoingContext(ctx, metadata.New(identity))

	var header, trailer metadata.MD
	var reply []byte
	resp, err := call(ctx, &req, grpc.Header(&header), grpc.Trailer(&trailer), grpc.ForceCodec(recordingCodec{reply: &reply}))
	if err != nil {
		st, ok := status.FromError(err)
		if !ok {
			return zero, Outcome{}, err
		}
		if st.Code() == codes.Unavailable && len(header) == 0 && len(trailer) == 0 {
			return zero, Outcome{}, fmt.Errorf("service unavailable: %w", err)
		}
		return zero, Outcome{Status: httpStatusFromCode(st.Code()), Message: st.Message()}, nil
	}

	outcome := Outcome{Status: http.StatusOK, Body: reply}
	if values := header.Get(rpc.HTTPCodeHeader); len(values) > 0 {
		if code, err := strconv.Atoi(values[0]); err == nil {
			outcome.Status = code
		}
	}

	return *resp, outcome, nil
}

func (b *GrpcBinding) ListConnectorDefinitions(ctx context.Context, identity Identity, req protocol.ListConnectorDefinitionsRequest) (protocol.ListConnectorDefinitionsResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, identity, b.public.ListConnectorDefinitions, req)
}

func (b *GrpcBinding) GetConnectorDefinition(ctx context.Context, identity Identity, req protocol.GetConnectorDefinitionRequest) (protocol.GetConnectorDefinitionResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, identity, b.public.GetConnectorDefinition, req)
}

func (b *GrpcBinding) ListConnectors(ctx context.Context, identity Identity, req protocol.ListConnectorsRequest) (protocol.ListConnectorsResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, identity, b.public.ListConnectors, req)
}

func (b *GrpcBinding) GetConnector(ctx context.Context, identity Identity, req protocol.GetConnectorRequest) (protocol.GetConnectorResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, identity, b.public.GetConnector, req)
}

func (b *GrpcBinding) CreateConnector(ctx context.Context, identity Identity, req protocol.CreateConnectorRequest) (protocol.CreateConnectorResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, identity, b.public.CreateConnector, req)
}

func (b *GrpcBinding) UpdateConnector(ctx context.Context, identity Identity, req protocol.UpdateConnectorRequest) (protocol.UpdateConnectorResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, identity, b.public.UpdateConnector, req)
}

func (b *GrpcBinding) DeleteConnector(ctx context.Context, identity Identity, req protocol.DeleteConnectorRequest) (Outcome, error) {
	_, outcome, err := invokeGrpc(ctx, b.timeout, identity, b.public.DeleteConnector, req)
	return outcome, err
}

func (b *GrpcBinding) RenameConnector(ctx context.Context, identity Identity, req protocol.RenameConnectorRequest) (protocol.RenameConnectorResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, identity, b.public.RenameConnector, req)
}

func (b *GrpcBinding) LookUpConnector(ctx context.Context, identity Identity, req protocol.LookUpConnectorRequest) (protocol.LookUpConnectorResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, identity, b.public.LookUpConnector, req)
}

func (b *GrpcBinding) ConnectConnector(ctx context.Context, identity Identity, req protocol.ConnectConnectorRequest) (protocol.ConnectConnectorResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, identity, b.public.ConnectConnector, req)
}

func (b *GrpcBinding) DisconnectConnector(ctx context.Context, identity Identity, req protocol.DisconnectConnectorRequest) (protocol.DisconnectConnectorResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, identity, b.public.DisconnectConnector, req)
}

func (b *GrpcBinding) TestConnector(ctx context.Context, identity Identity, req protocol.TestConnectorRequest) (protocol.TestConnectorResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, identity, b.public.TestConnector, req)
}

func (b *GrpcBinding) ListConnectorsAdmin(ctx context.Context, req protocol.ListConnectorsAdminRequest) (protocol.ListConnectorsAdminResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, b.admin, b.private.ListConnectorsAdmin, req)
}

func (b *GrpcBinding) LookUpConnectorAdmin(ctx context.Context, req protocol.LookUpConnectorAdminRequest) (protocol.LookUpConnectorAdminResponse, Outcome, error) {
	return invokeGrpc(ctx, b.timeout, b.admin, b.private.LookUpConnectorAdmin, req)
}
