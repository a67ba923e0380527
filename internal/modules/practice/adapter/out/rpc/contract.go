// Package rpc is the wire contract between typetrack and an external notifier plugin.
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
	PluginMapKey  = "notifier"
	serviceName   = "typetrack.notifier.v1.Notifier"
	jsonCodecName = "json"
	methodCreate  = "/" + serviceName + "/Create"
	methodClear   = "/" + serviceName + "/Clear"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "TYPETRACK_NOTIFIER",
	MagicCookieValue: "typetrack",
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

type CreateRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Milestone string `json:"milestone"`
}

type CreateResponse struct {
	ID string `json:"id"`
}

type ClearRequest struct {
	ID string `json:"id"`
}

type ClearResponse struct {
	Cleared bool `json:"cleared"`
}

type NotifierServer interface {
	Create(ctx context.Context, in *CreateRequest) (*CreateResponse, error)
	Clear(ctx context.Context, in *ClearRequest) (*ClearResponse, error)
}

type NotifierClient interface {
	Create(ctx context.Context, in *CreateRequest) (*CreateResponse, error)
	Clear(ctx context.Context, in *ClearRequest) (*ClearResponse, error)
}

type notifierClient struct {
	conn *grpc.ClientConn
}

func NewNotifierClient(conn *grpc.ClientConn) NotifierClient {
	return &notifierClient{conn: conn}
}

func (c *notifierClient) Create(ctx context.Context, in *CreateRequest) (*CreateResponse, error) {
	out := &CreateResponse{}
	if err := c.conn.Invoke(ctx, methodCreate, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notifierClient) Clear(ctx context.Context, in *ClearRequest) (*ClearResponse, error) {
	out := &ClearResponse{}
	if err := c.conn.Invoke(ctx, methodClear, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func unary[Req any, Resp any](method string, call func(context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterNotifierServer(server grpc.ServiceRegistrar, impl NotifierServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*NotifierServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Create", Handler: unary(methodCreate, impl.Create)},
			{MethodName: "Clear", Handler: unary(methodClear, impl.Clear)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/notifier-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl NotifierServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterNotifierServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewNotifierClient(conn), nil
}

func PluginMap(impl NotifierServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
