package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akinbolaji10/maxeng-webhook-server/internal/config"
	"github.com/akinbolaji10/maxeng-webhook-server/internal/storage"
	"github.com/akinbolaji10/maxeng-webhook-server/internal/tonaddr"
)

// Sender delivers a formatted message to a chat
type Sender interface {
	SendNotification(ctx context.Context, chatID string, text string) error
}

// Notifier formats persisted transactions and sends them to the
// initiating user. Delivery is best effort: the caller decides what to
// do with a returned error, the persisted row is never affected.
type Notifier struct {
	cfg    *config.Config
	sender Sender
	log    *slog.Logger
}

// New creates a new Notifier
func New(cfg *config.Config, sender Sender, log *slog.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		sender: sender,
		log:    log,
	}
}

// Notify sends a transaction summary to the chat identified by the
// record's user id. The outbound call is bounded by the configured
// timeout so a slow endpoint cannot stall the webhook response.
func (n *Notifier) Notify(ctx context.Context, tx *storage.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.NotifyTimeout)
	defer cancel()

	n.log.Debug("sending notification",
		"transaction_id", tx.ID,
		"user_id", tx.UserID,
		"wallet", tonaddr.Short(tx.WalletAddress, 6),
	)

	return n.sender.SendNotification(ctx, tx.UserID, formatTransactionMessage(tx))
}

func formatTransactionMessage(tx *storage.Transaction) string {
	wallet := tonaddr.Friendly(tx.WalletAddress)

	lines := []string{
		"✅ *TON Transaction Signed!*",
		"",
		fmt.Sprintf("💼 Wallet: `%s`", wallet),
		fmt.Sprintf("💸 Amount: `%s TON` (%s)", tx.Amount, tx.USD),
	}

	if tx.ToAddress != "" {
		lines = append(lines, fmt.Sprintf("📥 To: `%s`", tonaddr.Friendly(tx.ToAddress)))
	}

	lines = append(lines, fmt.Sprintf("🕐 Time: %s UTC", tx.Timestamp.UTC().Format("2006-01-02 15:04:05")))

	return strings.Join(lines, "\n")
}
