package out_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	practiceout "typetrack/internal/modules/practice/adapter/out"
	"typetrack/internal/modules/practice/domain"
)

func TestLogNotifierCreateThenClear(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Name: "test", Output: &buf, Level: hclog.Info})
	notifier := practiceout.NewLogNotifier(logger)
	ctx := context.Background()

	id, err := notifier.Create(ctx, domain.Notification{ID: "n-1", Title: "typetrack", Message: "halfway to today's goal", Milestone: domain.MilestoneHalf})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if notifier.Active() != 1 {
		t.Fatalf("expected one active notification")
	}
	if err := notifier.Clear(ctx, id); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if notifier.Active() != 0 {
		t.Fatalf("expected notification cleared")
	}
	if !strings.Contains(buf.String(), "halfway to today's goal") || !strings.Contains(buf.String(), "milestone=half") {
		t.Fatalf("expected notification in log, got %q", buf.String())
	}
	if err := notifier.Clear(ctx, id); err == nil {
		t.Fatalf("expected clearing twice to fail")
	}
	if _, err := notifier.Create(ctx, domain.Notification{}); err == nil {
		t.Fatalf("expected missing id error")
	}
}

func TestChecksumMatches(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notifier")
	payload := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(path, payload, 0o755); err != nil {
		t.Fatalf("write: %v", err)
	}
	sum := sha256.Sum256(payload)
	if err := practiceout.ChecksumMatches(path, strings.ToUpper(hex.EncodeToString(sum[:]))); err != nil {
		t.Fatalf("expected checksum to match: %v", err)
	}
	if err := practiceout.ChecksumMatches(path, strings.Repeat("0", 64)); err == nil {
		t.Fatalf("expected checksum mismatch")
	}
	if err := practiceout.ChecksumMatches(filepath.Join(t.TempDir(), "missing"), ""); err == nil {
		t.Fatalf("expected missing binary error")
	}
}

func TestPluginNotifierRejectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notifier")
	if err := os.WriteFile(path, []byte("binary"), 0o755); err != nil {
		t.Fatalf("write: %v", err)
	}
	notifier := practiceout.NewPluginNotifier(path, strings.Repeat("a", 64), nil)
	defer notifier.Close()
	if _, err := notifier.Create(context.Background(), domain.Notification{ID: "n-1"}); err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Fatalf("expected checksum mismatch before launch, got %v", err)
	}
}
