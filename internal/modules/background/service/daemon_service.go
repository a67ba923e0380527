package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"typetrack/internal/modules/background/dto"
	backgroundin "typetrack/internal/modules/background/port/in"
	backgroundout "typetrack/internal/modules/background/port/out"
	practicein "typetrack/internal/modules/practice/port/in"
	storagedto "typetrack/internal/modules/storage/dto"
	storagein "typetrack/internal/modules/storage/port/in"
	"typetrack/internal/platform/clock"
	apperrors "typetrack/internal/platform/errors"
)

const (
	daemonStartTimeout  = 5 * time.Second
	defaultLogTailLines = 200
)

var ErrDaemonStartFailed = errors.New("daemon start failed")

// DaemonService owns the background process: it serves messages over the socket and
// clears session data at the start and end of every run.
type DaemonService struct {
	dataDir    string
	daemon     backgroundout.DaemonStore
	ipcServer  backgroundout.IPCServer
	ipcClient  backgroundout.IPCClient
	dispatcher backgroundin.Dispatcher
	storage    storagein.Usecase
	practice   practicein.Usecase
	clock      clock.Clock
	logger     hclog.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	startedAt time.Time
	handled   atomic.Int64
	failed    atomic.Int64
	last      atomic.Value
}

func NewDaemonService(
	dataDir string,
	daemon backgroundout.DaemonStore,
	ipcServer backgroundout.IPCServer,
	ipcClient backgroundout.IPCClient,
	dispatcher backgroundin.Dispatcher,
	storage storagein.Usecase,
	practice practicein.Usecase,
	clk clock.Clock,
	logger hclog.Logger,
) *DaemonService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DaemonService{
		dataDir:    dataDir,
		daemon:     daemon,
		ipcServer:  ipcServer,
		ipcClient:  ipcClient,
		dispatcher: dispatcher,
		storage:    storage,
		practice:   practice,
		clock:      clk,
		logger:     logger,
	}
}

// Run serves in the foreground until ctx ends or a Stop request arrives.
func (s *DaemonService) Run(ctx context.Context) error {
	if err := s.cleanupStaleArtifacts(ctx); err != nil {
		return err
	}
	if s.ipcServer == nil {
		return fmt.Errorf("ipc server is not configured")
	}
	if err := s.storage.Clear(ctx, storagedto.Session); err != nil {
		return fmt.Errorf("reset session data: %w", err)
	}
	if s.practice != nil {
		installed, err := s.practice.Install(ctx)
		if err != nil {
			return fmt.Errorf("install: %w", err)
		}
		if installed.Installed {
			s.logger.Info("first run, storage seeded")
		}
	}

	if err := s.daemon.WritePID(ctx, os.Getpid()); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.cancel = cancel
	s.startedAt = s.clock.Now()
	s.mu.Unlock()
	defer s.cleanup()

	s.logger.Info("daemon started", "socket", s.daemon.SocketPath(), "pid", os.Getpid())
	err := s.ipcServer.Serve(runCtx, s.daemon.SocketPath(), s)
	if err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, context.Canceled) {
		return err
	}
	s.logger.Info("daemon stopped", "handled", s.handled.Load(), "failed", s.failed.Load())
	return nil
}

func (s *DaemonService) Dispatch(ctx context.Context, envelope dto.Envelope) dto.Response {
	resp := s.dispatcher.Dispatch(ctx, envelope)
	s.handled.Add(1)
	if !resp.Success {
		s.failed.Add(1)
	}
	s.last.Store(envelope.Action)
	return resp
}

// Start launches a detached `daemon run` process and waits for its socket.
func (s *DaemonService) Start(ctx context.Context) error {
	if err := s.cleanupStaleArtifacts(ctx); err != nil {
		return err
	}
	status, err := s.Status(ctx)
	if err == nil && status.Running {
		if socketReachable(s.daemon.SocketPath()) {
			return nil
		}
		return fmt.Errorf("%w: daemon process is alive but socket is unavailable", ErrDaemonStartFailed)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.daemon.LogPath()), 0o755); err != nil {
		return fmt.Errorf("create daemon log dir: %w", err)
	}
	logFile, err := os.OpenFile(s.daemon.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open daemon log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(execPath, "--data", s.dataDir, "daemon", "run")
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	if err := s.daemon.WritePID(ctx, cmd.Process.Pid); err != nil {
		return err
	}
	_ = cmd.Process.Release()

	if err := waitForSocket(s.daemon.SocketPath(), daemonStartTimeout); err != nil {
		_ = s.daemon.ClearPID(ctx)
		return fmt.Errorf("%w: %v", ErrDaemonStartFailed, err)
	}
	return nil
}

// Stop ends an in-process run directly, otherwise asks the daemon over the socket and
// falls back to signals.
func (s *DaemonService) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		return nil
	}

	if s.ipcClient != nil && socketReachable(s.daemon.SocketPath()) {
		if err := s.ipcClient.Stop(ctx, s.daemon.SocketPath()); err == nil {
			if waitForExit(s.daemon.SocketPath(), 2*time.Second) {
				return nil
			}
		}
	}

	pid, err := s.daemon.ReadPID(ctx)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_ = os.Remove(s.daemon.SocketPath())
			return nil
		}
		return err
	}
	if !processAlive(pid) {
		_ = s.daemon.ClearPID(ctx)
		_ = os.Remove(s.daemon.SocketPath())
		return nil
	}
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("stop daemon pid=%d: %w", pid, err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if processAlive(pid) {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}
	if err := s.daemon.ClearPID(ctx); err != nil {
		return err
	}
	_ = os.Remove(s.daemon.SocketPath())
	return nil
}

// Status answers locally while a run is active in this process and over the socket otherwise.
func (s *DaemonService) Status(ctx context.Context) (dto.DaemonStatus, error) {
	s.mu.Lock()
	running := s.cancel != nil
	startedAt := s.startedAt
	s.mu.Unlock()
	if running {
		out := dto.DaemonStatus{
			Running:    true,
			PID:        os.Getpid(),
			SocketPath: s.daemon.SocketPath(),
			StartedAt:  startedAt,
			Handled:    s.handled.Load(),
			Failed:     s.failed.Load(),
		}
		if last, ok := s.last.Load().(string); ok {
			out.LastAction = last
		}
		return out, nil
	}

	out := dto.DaemonStatus{SocketPath: s.daemon.SocketPath()}
	pid, err := s.daemon.ReadPID(ctx)
	if err == nil {
		out.PID = pid
		out.Running = processAlive(pid)
	}
	if out.Running && s.ipcClient != nil {
		if remote, statusErr := s.ipcClient.Status(ctx, s.daemon.SocketPath()); statusErr == nil {
			out.StartedAt = remote.StartedAt
			out.Handled = remote.Handled
			out.Failed = remote.Failed
			out.LastAction = remote.LastAction
		}
	}
	return out, nil
}

// Logs returns the last tail lines of the daemon log.
func (s *DaemonService) Logs(_ context.Context, tail int) (string, error) {
	if tail <= 0 {
		tail = defaultLogTailLines
	}
	file, err := os.Open(s.daemon.LogPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("open daemon log: %w", err)
	}
	defer file.Close()

	lines := make([]string, 0, tail)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if len(lines) == tail {
			lines = lines[1:]
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan daemon log: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

// cleanup ends a run. Session data does not outlive the daemon.
func (s *DaemonService) cleanup() {
	ctx := context.Background()
	if err := s.storage.Clear(ctx, storagedto.Session); err != nil {
		s.logger.Warn("clear session data", "error", err)
	}
	s.mu.Lock()
	s.cancel = nil
	s.mu.Unlock()
	_ = s.daemon.ClearPID(ctx)
	_ = os.Remove(s.daemon.SocketPath())
}

func (s *DaemonService) cleanupStaleArtifacts(ctx context.Context) error {
	pid, err := s.daemon.ReadPID(ctx)
	switch {
	case errors.Is(err, apperrors.ErrMalformedData):
		s.logger.Warn("discarding unreadable daemon pid file", "error", err)
		_ = s.daemon.ClearPID(ctx)
	case err != nil:
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	case !processAlive(pid):
		_ = s.daemon.ClearPID(ctx)
		_ = os.Remove(s.daemon.SocketPath())
	}
	if _, statErr := os.Stat(s.daemon.SocketPath()); statErr == nil {
		if !socketReachable(s.daemon.SocketPath()) {
			if removeErr := os.Remove(s.daemon.SocketPath()); removeErr != nil && !os.IsNotExist(removeErr) {
				return fmt.Errorf("remove stale daemon socket: %w", removeErr)
			}
		}
	}
	return nil
}

func waitForSocket(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if socketReachable(path) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon socket not ready: %s", path)
}

func waitForExit(path string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !socketReachable(path) {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

func socketReachable(path string) bool {
	conn, err := net.DialTimeout("unix", path, 150*time.Millisecond)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
