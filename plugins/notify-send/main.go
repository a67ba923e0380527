package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"

	notifierrpc "typetrack/internal/modules/practice/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// server shows toasts with notify-send when it is installed and on stderr otherwise.
// TYPETRACK_NOTIFY_MODE=stderr forces the stderr path.
type server struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func (s *server) Create(ctx context.Context, in *notifierrpc.CreateRequest) (*notifierrpc.CreateResponse, error) {
	if in.ID == "" {
		return nil, fmt.Errorf("notification id is required")
	}
	if err := show(ctx, in.Title, in.Message); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.active[in.ID] = struct{}{}
	s.mu.Unlock()
	return &notifierrpc.CreateResponse{ID: in.ID}, nil
}

func (s *server) Clear(_ context.Context, in *notifierrpc.ClearRequest) (*notifierrpc.ClearResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[in.ID]
	delete(s.active, in.ID)
	return &notifierrpc.ClearResponse{Cleared: ok}, nil
}

func show(ctx context.Context, title, message string) error {
	if os.Getenv("TYPETRACK_NOTIFY_MODE") != "stderr" {
		if path, err := exec.LookPath("notify-send"); err == nil {
			if err := exec.CommandContext(ctx, path, "--app-name=typetrack", "--expire-time=4000", title, message).Run(); err != nil {
				return fmt.Errorf("notify-send: %w", err)
			}
			return nil
		}
	}
	_, err := fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
	return err
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: notifierrpc.HandshakeConfig,
		Plugins:         notifierrpc.PluginMap(&server{active: map[string]struct{}{}}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
