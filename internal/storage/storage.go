package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("not found")

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"
)

// Storage handles all database operations
type Storage struct {
	db     *sql.DB
	driver string
}

// New opens the database behind databaseURL and initializes the schema.
// A postgres:// URL selects the Postgres driver, anything else is treated
// as a SQLite file path.
func New(databaseURL string) (*Storage, error) {
	driver, dsn := resolveDriver(databaseURL)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db, driver: driver}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func resolveDriver(databaseURL string) (driver, dsn string) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return driverPostgres, databaseURL
	}
	return driverSQLite, databaseURL + "?_journal_mode=WAL&_busy_timeout=5000"
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) init() error {
	var queries []string

	if s.driver == driverPostgres {
		queries = []string{
			`CREATE TABLE IF NOT EXISTS transactions (
				id BIGSERIAL PRIMARY KEY,
				user_id TEXT NOT NULL,
				wallet_address TEXT NOT NULL,
				to_address TEXT NOT NULL DEFAULT '',
				amount TEXT NOT NULL,
				usd TEXT NOT NULL DEFAULT '',
				timestamp BIGINT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_wallet ON transactions(wallet_address)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id)`,
		}
	} else {
		queries = []string{
			`CREATE TABLE IF NOT EXISTS transactions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id TEXT NOT NULL,
				wallet_address TEXT NOT NULL,
				to_address TEXT NOT NULL DEFAULT '',
				amount TEXT NOT NULL,
				usd TEXT NOT NULL DEFAULT '',
				timestamp INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_wallet ON transactions(wallet_address)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id)`,
		}
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

// rebind converts ? placeholders to $n for the Postgres driver
func (s *Storage) rebind(query string) string {
	if s.driver != driverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// InsertTransaction appends a transaction row, assigning its id and timestamp
func (s *Storage) InsertTransaction(t *Transaction) (*Transaction, error) {
	now := time.Now().UTC()

	stored := *t
	stored.Timestamp = now

	if s.driver == driverPostgres {
		err := s.db.QueryRow(
			s.rebind(`INSERT INTO transactions (user_id, wallet_address, to_address, amount, usd, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
			t.UserID, t.WalletAddress, t.ToAddress, t.Amount, t.USD, now.Unix(),
		).Scan(&stored.ID)
		if err != nil {
			return nil, fmt.Errorf("insert transaction: %w", err)
		}
		return &stored, nil
	}

	result, err := s.db.Exec(
		`INSERT INTO transactions (user_id, wallet_address, to_address, amount, usd, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.WalletAddress, t.ToAddress, t.Amount, t.USD, now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	stored.ID = id
	return &stored, nil
}

// ListTransactions returns up to limit transactions, newest first
func (s *Storage) ListTransactions(limit int) ([]Transaction, error) {
	rows, err := s.db.Query(
		s.rebind(`SELECT id, user_id, wallet_address, to_address, amount, usd, timestamp
		 FROM transactions ORDER BY id DESC LIMIT ?`),
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var t Transaction
		var ts int64

		err := rows.Scan(&t.ID, &t.UserID, &t.WalletAddress, &t.ToAddress, &t.Amount, &t.USD, &ts)
		if err != nil {
			return nil, err
		}

		t.Timestamp = time.Unix(ts, 0).UTC()
		txs = append(txs, t)
	}

	return txs, rows.Err()
}

// GetTransaction returns a transaction by ID
func (s *Storage) GetTransaction(id int64) (*Transaction, error) {
	var t Transaction
	var ts int64

	err := s.db.QueryRow(
		s.rebind(`SELECT id, user_id, wallet_address, to_address, amount, usd, timestamp
		 FROM transactions WHERE id = ?`),
		id,
	).Scan(&t.ID, &t.UserID, &t.WalletAddress, &t.ToAddress, &t.Amount, &t.USD, &ts)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	t.Timestamp = time.Unix(ts, 0).UTC()
	return &t, nil
}
