package out

import (
	"context"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"time"

	"typetrack/internal/modules/background/dto"
	backgroundout "typetrack/internal/modules/background/port/out"
)

const clientDeadline = 10 * time.Second

type JSONRPCServer struct{}

type JSONRPCClient struct{}

func NewJSONRPCServer() backgroundout.IPCServer {
	return &JSONRPCServer{}
}

func NewJSONRPCClient() backgroundout.IPCClient {
	return &JSONRPCClient{}
}

type rpcHandler struct {
	h backgroundout.IPCHandler
}

type statusResp struct {
	Status dto.DaemonStatus
}

type empty struct{}

func (s *rpcHandler) Send(req dto.Envelope, resp *dto.Response) error {
	*resp = s.h.Dispatch(context.Background(), req)
	return nil
}

func (s *rpcHandler) Status(_ empty, resp *statusResp) error {
	status, err := s.h.Status(context.Background())
	if err != nil {
		return err
	}
	resp.Status = status
	return nil
}

func (s *rpcHandler) Stop(_ empty, _ *empty) error {
	return s.h.Stop(context.Background())
}

func (s *JSONRPCServer) Serve(ctx context.Context, socketPath string, handler backgroundout.IPCHandler) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		return fmt.Errorf("create ipc dir: %w", err)
	}
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale ipc socket: %w", err)
	}
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen ipc socket: %w", err)
	}
	if err := os.Chmod(socketPath, 0o600); err != nil {
		_ = ln.Close()
		return fmt.Errorf("chmod ipc socket: %w", err)
	}
	defer ln.Close()

	rpcSrv := rpc.NewServer()
	if err := rpcSrv.RegisterName("Background", &rpcHandler{h: handler}); err != nil {
		return fmt.Errorf("register ipc handler: %w", err)
	}

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()
	defer close(stop)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return err
		}
		go rpcSrv.ServeCodec(jsonrpc.NewServerCodec(conn))
	}
}

func (c *JSONRPCClient) Send(ctx context.Context, socketPath string, envelope dto.Envelope) (dto.Response, error) {
	client, err := dialClient(ctx, socketPath)
	if err != nil {
		return dto.Response{}, err
	}
	defer client.Close()
	resp := dto.Response{}
	if err := client.Call("Background.Send", envelope, &resp); err != nil {
		return dto.Response{}, err
	}
	return resp, nil
}

func (c *JSONRPCClient) Status(ctx context.Context, socketPath string) (dto.DaemonStatus, error) {
	client, err := dialClient(ctx, socketPath)
	if err != nil {
		return dto.DaemonStatus{}, err
	}
	defer client.Close()
	resp := statusResp{}
	if err := client.Call("Background.Status", empty{}, &resp); err != nil {
		return dto.DaemonStatus{}, err
	}
	return resp.Status, nil
}

func (c *JSONRPCClient) Stop(ctx context.Context, socketPath string) error {
	client, err := dialClient(ctx, socketPath)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Call("Background.Stop", empty{}, &empty{})
}

func dialClient(ctx context.Context, socketPath string) (*rpc.Client, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(clientDeadline)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)
	return rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn)), nil
}
