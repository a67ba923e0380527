package out

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"typetrack/internal/modules/practice/domain"
	practiceout "typetrack/internal/modules/practice/port/out"
)

// LogNotifier writes notifications to the log. Active ids are tracked so Clear can tell
// a known toast from a stray one.
type LogNotifier struct {
	logger hclog.Logger
	mu     sync.Mutex
	active map[string]domain.Notification
}

func NewLogNotifier(logger hclog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notifier"), active: map[string]domain.Notification{}}
}

var _ practiceout.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Create(_ context.Context, notification domain.Notification) (string, error) {
	if notification.ID == "" {
		return "", fmt.Errorf("notification id is required")
	}
	n.mu.Lock()
	n.active[notification.ID] = notification
	n.mu.Unlock()
	n.logger.Info(notification.Message, "title", notification.Title, "milestone", notification.Milestone, "id", notification.ID)
	return notification.ID, nil
}

func (n *LogNotifier) Clear(_ context.Context, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.active[id]; !ok {
		return fmt.Errorf("notification %s is not active", id)
	}
	delete(n.active, id)
	n.logger.Trace("notification cleared", "id", id)
	return nil
}

// Active reports how many notifications were created and not yet cleared.
func (n *LogNotifier) Active() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.active)
}
