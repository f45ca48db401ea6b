package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey   = "commander"
	serviceName    = "parkwatch.commander.v1.Commander"
	jsonCodecName  = "json"
	methodNavStart = "/" + serviceName + "/NavStart"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "PARKWATCH_COMMANDER",
	MagicCookieValue: "parkwatch",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type NavStartRequest struct {
	RequestedAtUnixMS int64 `json:"requested_at_unix_ms"`
}

type NavStartResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

type CommanderServer interface {
	NavStart(ctx context.Context, in *NavStartRequest) (*NavStartResponse, error)
}

type CommanderClient interface {
	NavStart(ctx context.Context, in *NavStartRequest) (*NavStartResponse, error)
}

type commanderClient struct {
	conn grpc.ClientConnInterface
}

func NewCommanderClient(conn grpc.ClientConnInterface) CommanderClient {
	return &commanderClient{conn: conn}
}

func (c *commanderClient) NavStart(ctx context.Context, in *NavStartRequest) (*NavStartResponse, error) {
	out := &NavStartResponse{}
	if err := c.conn.Invoke(ctx, methodNavStart, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterCommanderServer(server grpc.ServiceRegistrar, impl CommanderServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*CommanderServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "NavStart",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &NavStartRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.NavStart(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodNavStart}
					handler := func(ctx context.Context, req any) (any, error) {
						typed, ok := req.(*NavStartRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.NavStart(ctx, typed)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "commander-rpc-v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl CommanderServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterCommanderServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewCommanderClient(conn), nil
}

func PluginMap(impl CommanderServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
