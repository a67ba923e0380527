package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	backgroundout "typetrack/internal/modules/background/port/out"
	apperrors "typetrack/internal/platform/errors"
)

// FileDaemonStore tracks the one typetrack daemon allowed per data dir. The pid file is
// only ever replaced whole.
type FileDaemonStore struct {
	pidPath    string
	socketPath string
	logPath    string
}

func NewFileDaemonStore(pidPath, socketPath, logPath string) backgroundout.DaemonStore {
	return &FileDaemonStore{pidPath: pidPath, socketPath: socketPath, logPath: logPath}
}

func (s *FileDaemonStore) WritePID(_ context.Context, pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: daemon pid %d", apperrors.ErrInvalidInput, pid)
	}
	if err := os.MkdirAll(filepath.Dir(s.pidPath), 0o755); err != nil {
		return fmt.Errorf("create daemon dir: %w", err)
	}
	tmp := s.tmpPath()
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(pid)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write daemon pid: %w", err)
	}
	if err := os.Rename(tmp, s.pidPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace daemon pid: %w", err)
	}
	return nil
}

// ReadPID fails with both ErrDaemonNotRunning and os.ErrNotExist when no daemon was started.
func (s *FileDaemonStore) ReadPID(_ context.Context) (int, error) {
	raw, err := os.ReadFile(s.pidPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrDaemonNotRunning, err)
	}
	if err != nil {
		return 0, fmt.Errorf("read daemon pid: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("%w: daemon pid file %s: %v", apperrors.ErrMalformedData, s.pidPath, err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("%w: daemon pid file %s holds %d", apperrors.ErrMalformedData, s.pidPath, pid)
	}
	return pid, nil
}

func (s *FileDaemonStore) ClearPID(_ context.Context) error {
	for _, path := range []string{s.pidPath, s.tmpPath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove daemon pid: %w", err)
		}
	}
	return nil
}

func (s *FileDaemonStore) SocketPath() string {
	return s.socketPath
}

func (s *FileDaemonStore) LogPath() string {
	return s.logPath
}

func (s *FileDaemonStore) tmpPath() string {
	return s.pidPath + ".tmp"
}
