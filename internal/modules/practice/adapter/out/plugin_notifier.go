package out

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	notifierrpc "typetrack/internal/modules/practice/adapter/out/rpc"
	"typetrack/internal/modules/practice/domain"
	practiceout "typetrack/internal/modules/practice/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// PluginNotifier forwards notifications to an external binary served with go-plugin.
// The plugin process is started on first use and kept until Close.
type PluginNotifier struct {
	binary string
	sha256 string
	logger hclog.Logger

	mu     sync.Mutex
	client *plugin.Client
	rpc    notifierrpc.NotifierClient
}

func NewPluginNotifier(binary, sha string, logger hclog.Logger) *PluginNotifier {
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel})
	}
	return &PluginNotifier{binary: binary, sha256: strings.ToLower(sha), logger: logger}
}

var _ practiceout.Notifier = (*PluginNotifier)(nil)

func (n *PluginNotifier) Create(ctx context.Context, notification domain.Notification) (string, error) {
	client, err := n.connect()
	if err != nil {
		return "", err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.Create(callCtx, &notifierrpc.CreateRequest{
		ID:        notification.ID,
		Title:     notification.Title,
		Message:   notification.Message,
		Milestone: string(notification.Milestone),
	})
	if err != nil {
		return "", fmt.Errorf("plugin create: %w", err)
	}
	if response.ID == "" {
		return notification.ID, nil
	}
	return response.ID, nil
}

func (n *PluginNotifier) Clear(ctx context.Context, id string) error {
	client, err := n.connect()
	if err != nil {
		return err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.Clear(callCtx, &notifierrpc.ClearRequest{ID: id}); err != nil {
		return fmt.Errorf("plugin clear: %w", err)
	}
	return nil
}

func (n *PluginNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.client != nil {
		n.client.Kill()
		n.client = nil
		n.rpc = nil
	}
	return nil
}

func (n *PluginNotifier) connect() (notifierrpc.NotifierClient, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.client != nil && !n.client.Exited() {
		return n.rpc, nil
	}
	if err := ChecksumMatches(n.binary, n.sha256); err != nil {
		return nil, err
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  notifierrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          notifierrpc.PluginMap(nil),
		Cmd:              exec.Command(n.binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           n.logger,
	})
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start notifier plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(notifierrpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense notifier plugin: %w", err)
	}
	typed, ok := raw.(notifierrpc.NotifierClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("notifier rpc client type mismatch")
	}
	n.client = client
	n.rpc = typed
	n.logger.Debug("notifier plugin started", "binary", n.binary)
	return typed, nil
}

// ChecksumMatches compares the sha256 of binary against the expected hex digest.
func ChecksumMatches(binary, expected string) error {
	f, err := os.Open(binary)
	if err != nil {
		return fmt.Errorf("open notifier plugin: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash notifier plugin: %w", err)
	}
	if got := hex.EncodeToString(h.Sum(nil)); got != strings.ToLower(expected) {
		return fmt.Errorf("notifier plugin checksum mismatch: got %s", got)
	}
	return nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
