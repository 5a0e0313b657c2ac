package alerts

import (
	"context"
	"fmt"

	"github.com/tanakritw/officestock-backend/pkg/db/models"
	"github.com/tanakritw/officestock-backend/pkg/logger"
)

// Notifier delivers a low stock message to an external channel.
type Notifier interface {
	Notify(ctx context.Context, text string) error
	Enabled() bool
}

// userLookup resolves the withdrawing user for the alert message.
type userLookup interface {
	Find(ctx context.Context, userID int64) (*models.User, error)
}

// Service builds and dispatches low stock alerts. Alerts run after the
// triggering withdrawal has committed, so failures are logged and dropped.
type Service struct {
	notifier Notifier
	users    userLookup
	log      *logger.Logger
}

func NewService(notifier Notifier, users userLookup, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{notifier: notifier, users: users, log: log}
}

// LowStock sends a low stock alert for the given item. Errors never
// propagate back to the caller.
func (s *Service) LowStock(ctx context.Context, item models.Item, remaining int, userID int64) {
	if s == nil || s.notifier == nil || !s.notifier.Enabled() {
		return
	}

	fullname := "unknown"
	if s.users != nil {
		user, err := s.users.Find(ctx, userID)
		if err != nil {
			s.log.Warn(ctx, fmt.Sprintf("alerts: user lookup failed: %v", err))
		} else if user != nil {
			fullname = user.Fullname
		}
	}

	text := fmt.Sprintf(
		"Low stock alert: %s has %d %s remaining after a withdrawal by %s.",
		item.ItemName, remaining, item.Unit, fullname,
	)
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.log.Warn(ctx, fmt.Sprintf("alerts: notify failed for item %d: %v", item.ItemID, err))
		return
	}
	s.log.Info(ctx, fmt.Sprintf("alerts: low stock alert sent for item %d", item.ItemID))
}
