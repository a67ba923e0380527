package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	out "typetrack/internal/modules/background/adapter/out"
	"typetrack/internal/modules/background/dto"
	themedto "typetrack/internal/modules/theme/dto"
	apperrors "typetrack/internal/platform/errors"
)

type fakeIPCHandler struct {
	mu       sync.Mutex
	received []dto.Envelope
	stopped  bool
}

func (h *fakeIPCHandler) Dispatch(_ context.Context, envelope dto.Envelope) dto.Response {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, envelope)
	if envelope.Action == "saveTimeTyping" {
		return dto.Response{Success: true, Message: "saved"}
	}
	return dto.Response{Success: false, Message: "unhandled action: " + envelope.Action}
}

func (h *fakeIPCHandler) Status(context.Context) (dto.DaemonStatus, error) {
	return dto.DaemonStatus{Running: true, PID: 42, Handled: 7, LastAction: "saveTimeTyping"}, nil
}

func (h *fakeIPCHandler) Stop(context.Context) error {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	return nil
}

func TestJSONRPCServerClientContract(t *testing.T) {
	t.Parallel()
	h := &fakeIPCHandler{}
	server := out.NewJSONRPCServer()
	client := out.NewJSONRPCClient()
	socketPath := filepath.Join(t.TempDir(), "daemon.sock")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx, socketPath, h)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := client.Status(context.Background(), socketPath); err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	status, err := client.Status(context.Background(), socketPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Running || status.PID != 42 || status.Handled != 7 {
		t.Fatalf("unexpected status: %+v", status)
	}

	at := time.Date(2026, time.January, 6, 0, 10, 0, 0, time.UTC)
	resp, err := client.Send(context.Background(), socketPath, dto.SaveTimeTyping(15, at))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !resp.Success || resp.Message != "saved" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	resp, err = client.Send(context.Background(), socketPath, dto.Envelope{Action: "updateStreaks"})
	if err != nil {
		t.Fatalf("send unknown: %v", err)
	}
	if resp.Success || resp.Message != "unhandled action: updateStreaks" {
		t.Fatalf("expected unhandled response, got %+v", resp)
	}
	if _, err := client.Send(context.Background(), socketPath, dto.UpdateTheme(3, themedto.Theme{MainColor: "e2b714"})); err != nil {
		t.Fatalf("send theme: %v", err)
	}

	h.mu.Lock()
	if len(h.received) != 3 {
		h.mu.Unlock()
		t.Fatalf("expected three envelopes, got %d", len(h.received))
	}
	first := h.received[0]
	third := h.received[2]
	h.mu.Unlock()
	if first.TimeTypingMinutes == nil || *first.TimeTypingMinutes != 15 || first.Date != "2026-01-06T00:10:00Z" {
		t.Fatalf("envelope fields lost in transit: %+v", first)
	}
	if third.Sender.TabID == nil || *third.Sender.TabID != 3 || third.Theme == nil || third.Theme.MainColor != "e2b714" {
		t.Fatalf("theme envelope lost fields: %+v", third)
	}

	if err := client.Stop(context.Background(), socketPath); err != nil {
		t.Fatalf("stop: %v", err)
	}
	h.mu.Lock()
	stopped := h.stopped
	h.mu.Unlock()
	if !stopped {
		t.Fatalf("expected stop to reach handler")
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server did not stop after cancel")
	}
}

func TestJSONRPCClientWithoutDaemon(t *testing.T) {
	t.Parallel()
	client := out.NewJSONRPCClient()
	if _, err := client.Send(context.Background(), filepath.Join(t.TempDir(), "missing.sock"), dto.SaveTimeTyping(1, time.Time{})); err == nil {
		t.Fatalf("expected dial error without a daemon")
	}
}

func TestFileDaemonStorePID(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	pidPath := filepath.Join(dir, "run", "daemon.pid")
	store := out.NewFileDaemonStore(pidPath, filepath.Join(dir, "daemon.sock"), filepath.Join(dir, "typetrack.log"))
	ctx := context.Background()
	_, err := store.ReadPID(ctx)
	if !errors.Is(err, apperrors.ErrDaemonNotRunning) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not running error, got %v", err)
	}
	if err := store.WritePID(ctx, 0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid pid rejected, got %v", err)
	}
	if err := store.WritePID(ctx, 1234); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	if _, err := os.Stat(pidPath + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp pid file renamed away, got %v", err)
	}
	pid, err := store.ReadPID(ctx)
	if err != nil || pid != 1234 {
		t.Fatalf("unexpected pid %d %v", pid, err)
	}
	if err := store.ClearPID(ctx); err != nil {
		t.Fatalf("clear pid: %v", err)
	}
	if err := store.ClearPID(ctx); err != nil {
		t.Fatalf("clearing twice must succeed: %v", err)
	}

	if err := os.WriteFile(pidPath, []byte("not-a-pid"), 0o600); err != nil {
		t.Fatalf("seed pid: %v", err)
	}
	if _, err := store.ReadPID(ctx); !errors.Is(err, apperrors.ErrMalformedData) {
		t.Fatalf("expected malformed pid error, got %v", err)
	}
}
