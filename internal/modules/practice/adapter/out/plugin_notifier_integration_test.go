package out_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	practiceout "typetrack/internal/modules/practice/adapter/out"
	"typetrack/internal/modules/practice/domain"
)

func TestPluginNotifierIntegrationNotifySend(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the notifier plugin")
	}
	t.Setenv("TYPETRACK_NOTIFY_MODE", "stderr")
	binPath, checksum := buildNotifierPlugin(t)
	notifier := practiceout.NewPluginNotifier(binPath, checksum, nil)
	defer notifier.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	id, err := notifier.Create(ctx, domain.Notification{ID: "n-1", Title: "typetrack", Message: "today's goal is complete", Milestone: domain.MilestoneGoalComplete})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "n-1" {
		t.Fatalf("expected plugin to echo id, got %q", id)
	}
	if err := notifier.Clear(ctx, id); err != nil {
		t.Fatalf("clear: %v", err)
	}
}

func buildNotifierPlugin(t *testing.T) (string, string) {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "notify-send-plugin")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/notify-send")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build notifier plugin: %v\n%s", err, string(out))
	}
	payload, err := os.ReadFile(binPath)
	if err != nil {
		t.Fatalf("read built plugin: %v", err)
	}
	hash := sha256.Sum256(payload)
	return binPath, hex.EncodeToString(hash[:])
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
