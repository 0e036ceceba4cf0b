package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/akinbolaji10/maxeng-webhook-server/internal/config"
	"github.com/akinbolaji10/maxeng-webhook-server/internal/storage"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxBodyBytes     = 1 << 20
)

// TransactionStore persists and lists transaction records
type TransactionStore interface {
	InsertTransaction(t *storage.Transaction) (*storage.Transaction, error)
	ListTransactions(limit int) ([]storage.Transaction, error)
	GetTransaction(id int64) (*storage.Transaction, error)
}

// NotifyFunc sends a best-effort notification for a persisted record.
// A nil NotifyFunc disables notifications entirely.
type NotifyFunc func(ctx context.Context, tx *storage.Transaction) error

// Server handles incoming transaction webhooks
type Server struct {
	store  TransactionStore
	notify NotifyFunc
	cfg    *config.Config
	log    *slog.Logger

	server *http.Server
}

// NewServer creates a new webhook server
func NewServer(store TransactionStore, notify NotifyFunc, cfg *config.Config, log *slog.Logger) *Server {
	return &Server{
		store:  store,
		notify: notify,
		cfg:    cfg,
		log:    log,
	}
}

// Handler returns the routed HTTP handler with CORS applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ton-webhook", s.handleWebhook)
	mux.HandleFunc("/transactions", s.handleTransactions)
	mux.HandleFunc("/transactions/", s.handleTransaction)
	return s.cors(mux)
}

// Start starts the webhook server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context, port int) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.log.Info("starting webhook server", "port", port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	return s.server.ListenAndServe()
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AllowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("✅ MaxEng Webhook is Live"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrMalformedPayload)
		return
	}

	tx, err := parsePayload(body)
	if err != nil {
		s.log.Warn("rejected webhook payload",
			"error", err,
			"payload", truncate(string(body), 256),
		)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	stored, err := s.store.InsertTransaction(tx)
	if err != nil {
		s.log.Error("insert transaction", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to save transaction"))
		return
	}

	s.log.Info("transaction saved",
		"transaction_id", stored.ID,
		"wallet", truncate(stored.WalletAddress, 10),
		"amount", stored.Amount,
	)

	s.dispatchNotification(r.Context(), stored)

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Transaction saved",
	})
}

// dispatchNotification attempts the best-effort notification. Failures
// are logged and swallowed, never affecting the persisted row or the
// response already owed to the caller.
func (s *Server) dispatchNotification(ctx context.Context, tx *storage.Transaction) {
	if s.notify == nil {
		return
	}

	if tx.UserID == AnonymousUser {
		s.log.Debug("notification skipped for anonymous user", "transaction_id", tx.ID)
		return
	}

	if err := s.notify(ctx, tx); err != nil {
		s.log.Warn("send notification",
			"error", err,
			"transaction_id", tx.ID,
			"user_id", tx.UserID,
		)
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		limit = min(n, maxListLimit)
	}

	txs, err := s.store.ListTransactions(limit)
	if err != nil {
		s.log.Error("list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to list transactions"))
		return
	}

	if txs == nil {
		txs = []storage.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/transactions/"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid transaction id"))
		return
	}

	tx, err := s.store.GetTransaction(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, errors.New("transaction not found"))
		return
	}
	if err != nil {
		s.log.Error("get transaction", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, errors.New("failed to load transaction"))
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
