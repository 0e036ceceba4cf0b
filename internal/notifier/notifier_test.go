package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/akinbolaji10/maxeng-webhook-server/internal/config"
	"github.com/akinbolaji10/maxeng-webhook-server/internal/storage"
)

type mockSender struct {
	chatID      string
	text        string
	hadDeadline bool
	err         error
}

func (m *mockSender) SendNotification(ctx context.Context, chatID string, text string) error {
	m.chatID = chatID
	m.text = text
	_, m.hadDeadline = ctx.Deadline()
	return m.err
}

func testTransaction() *storage.Transaction {
	return &storage.Transaction{
		ID:            1,
		UserID:        "123",
		WalletAddress: "W1",
		ToAddress:     "W2",
		Amount:        "1.5",
		USD:           "$3",
		Timestamp:     time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
	}
}

func newTestNotifier(sender Sender) *Notifier {
	cfg := &config.Config{NotifyTimeout: 5 * time.Second}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, sender, log)
}

func TestNotify(t *testing.T) {
	sender := &mockSender{}
	n := newTestNotifier(sender)

	if err := n.Notify(context.Background(), testTransaction()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sender.chatID != "123" {
		t.Errorf("chatID = %q, want %q", sender.chatID, "123")
	}
	if !sender.hadDeadline {
		t.Error("outbound call has no deadline")
	}

	for _, want := range []string{"W1", "1.5 TON", "$3", "W2", "2024-03-01 12:30:00"} {
		if !strings.Contains(sender.text, want) {
			t.Errorf("message missing %q:\n%s", want, sender.text)
		}
	}
}

func TestNotify_SenderError(t *testing.T) {
	sender := &mockSender{err: errors.New("network down")}
	n := newTestNotifier(sender)

	if err := n.Notify(context.Background(), testTransaction()); err == nil {
		t.Fatal("expected error from sender")
	}
}

func TestFormatTransactionMessage_NoDestination(t *testing.T) {
	tx := testTransaction()
	tx.ToAddress = ""

	text := formatTransactionMessage(tx)
	if strings.Contains(text, "To:") {
		t.Errorf("message should omit destination line:\n%s", text)
	}
	if !strings.Contains(text, "TON Transaction Signed") {
		t.Errorf("unexpected message:\n%s", text)
	}
}
