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
	PluginMapKey      = "advisor"
	serviceName       = "brewlog.advisor.v1.Advisor"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodAdvise      = "/" + serviceName + "/Advise"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "BREWLOG_ADVISOR",
	MagicCookieValue: "brewmind",
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

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Model   string `json:"model"`
}

type AdviseRequest struct {
	SystemInstruction string `json:"system_instruction"`
	Phase             string `json:"phase"`
	Question          string `json:"question"`
	Context           string `json:"context"`
	Prompt            string `json:"prompt"`
}

type AdviseResponse struct {
	Text string `json:"text"`
}

type AdvisorServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Advise(ctx context.Context, in *AdviseRequest) (*AdviseResponse, error)
}

type AdvisorClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Advise(ctx context.Context, in *AdviseRequest) (*AdviseResponse, error)
}

type advisorClient struct {
	conn *grpc.ClientConn
}

func NewAdvisorClient(conn *grpc.ClientConn) AdvisorClient {
	return &advisorClient{conn: conn}
}

func (c *advisorClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *advisorClient) Advise(ctx context.Context, in *AdviseRequest) (*AdviseResponse, error) {
	out := &AdviseResponse{}
	if err := c.conn.Invoke(ctx, methodAdvise, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterAdvisorServer(server grpc.ServiceRegistrar, impl AdvisorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*AdvisorServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Advise",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &AdviseRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Advise(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodAdvise}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*AdviseRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Advise(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "advisor-rpc-v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl AdvisorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterAdvisorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewAdvisorClient(conn), nil
}

func PluginMap(impl AdvisorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
