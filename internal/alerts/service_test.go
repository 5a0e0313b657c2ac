package alerts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tanakritw/officestock-backend/pkg/db/models"
)

type fakeNotifier struct {
	enabled  bool
	failWith error
	messages []string
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeNotifier) Enabled() bool { return f.enabled }

type fakeUserLookup struct {
	user *models.User
	err  error
}

func (f *fakeUserLookup) Find(_ context.Context, _ int64) (*models.User, error) {
	return f.user, f.err
}

func TestLowStockMessageNamesUser(t *testing.T) {
	notifier := &fakeNotifier{enabled: true}
	users := &fakeUserLookup{user: &models.User{UserID: 7, Fullname: "Alice Example"}}
	svc := NewService(notifier, users, nil)

	svc.LowStock(context.Background(), models.Item{ItemID: 1, ItemName: "Toner", Unit: "cartridge"}, 3, 7)

	if len(notifier.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(notifier.messages))
	}
	msg := notifier.messages[0]
	for _, want := range []string{"Toner", "3", "cartridge", "Alice Example"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected message to contain %q, got %q", want, msg)
		}
	}
}

func TestLowStockUnknownUserFallback(t *testing.T) {
	notifier := &fakeNotifier{enabled: true}
	svc := NewService(notifier, &fakeUserLookup{}, nil)

	svc.LowStock(context.Background(), models.Item{ItemName: "Toner", Unit: "cartridge"}, 2, 404)

	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "unknown") {
		t.Fatalf("expected unknown user placeholder, got %v", notifier.messages)
	}
}

func TestLowStockLookupFailureStillNotifies(t *testing.T) {
	notifier := &fakeNotifier{enabled: true}
	svc := NewService(notifier, &fakeUserLookup{err: errors.New("db down")}, nil)

	svc.LowStock(context.Background(), models.Item{ItemName: "Toner", Unit: "cartridge"}, 2, 1)

	if len(notifier.messages) != 1 {
		t.Fatalf("lookup failure must not block the alert, got %v", notifier.messages)
	}
}

func TestLowStockNotifierFailureSwallowed(t *testing.T) {
	notifier := &fakeNotifier{enabled: true, failWith: errors.New("line down")}
	svc := NewService(notifier, &fakeUserLookup{}, nil)

	// Must not panic or propagate.
	svc.LowStock(context.Background(), models.Item{ItemName: "Toner"}, 2, 1)
}

func TestLowStockSkippedWhenDisabled(t *testing.T) {
	notifier := &fakeNotifier{enabled: false}
	svc := NewService(notifier, &fakeUserLookup{}, nil)

	svc.LowStock(context.Background(), models.Item{ItemName: "Toner"}, 2, 1)

	if len(notifier.messages) != 0 {
		t.Fatalf("disabled notifier must not receive messages, got %v", notifier.messages)
	}
}
