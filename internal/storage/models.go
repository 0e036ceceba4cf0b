package storage

import "time"

// Transaction is a single recorded wallet transaction.
// Rows are append-only: there is no update or delete path.
type Transaction struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	WalletAddress string    `json:"wallet_address"`
	ToAddress     string    `json:"to_address,omitempty"`
	Amount        string    `json:"amount"` // TON, decimal string
	USD           string    `json:"usd,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
