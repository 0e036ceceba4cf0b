package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/akinbolaji10/maxeng-webhook-server/internal/storage"
)

// AnonymousUser is stored when the caller did not identify the
// initiating user. Anonymous records never trigger a notification.
const AnonymousUser = "anonymous"

const defaultUSD = "~$2"

// Rejection reasons, mapped to 400 at the HTTP boundary
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrMissingFields    = errors.New("missing required field")
	ErrInvalidAmount    = errors.New("invalid amount")
)

// txPayload is the parsed webhook body. user/wallet_address and
// to/to_address are aliases sent by different caller versions; the
// explicit name wins when both are present.
type txPayload struct {
	UserID        json.RawMessage `json:"user_id"`
	User          string          `json:"user"`
	WalletAddress string          `json:"wallet_address"`
	To            string          `json:"to"`
	ToAddress     string          `json:"to_address"`
	Amount        json.RawMessage `json:"amount"`
	USD           string          `json:"usd"`
}

// parsePayload decodes and validates a webhook body, producing a record
// ready for insertion. It has no side effects; all rejections wrap one
// of the sentinel errors above.
func parsePayload(body []byte) (*storage.Transaction, error) {
	var p txPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return p.validate()
}

func (p *txPayload) validate() (*storage.Transaction, error) {
	wallet := firstNonEmpty(p.WalletAddress, p.User)
	if wallet == "" {
		return nil, fmt.Errorf("%w: wallet address", ErrMissingFields)
	}

	if len(p.Amount) == 0 {
		return nil, fmt.Errorf("%w: amount", ErrMissingFields)
	}

	nano, err := parseNano(p.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	userID := jsonString(p.UserID)
	if userID == "" {
		userID = AnonymousUser
	}

	usd := p.USD
	if usd == "" {
		usd = defaultUSD
	}

	return &storage.Transaction{
		UserID:        userID,
		WalletAddress: wallet,
		ToAddress:     firstNonEmpty(p.ToAddress, p.To),
		Amount:        formatNano(nano),
		USD:           usd,
	}, nil
}

// parseNano accepts the raw subunit amount as a JSON integer or an
// integer string. Anything else is rejected.
func parseNano(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))

	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
	}

	nano, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return nano, nil
}

// formatNano converts nanoTON to a decimal TON string, rounded to six
// decimal places with trailing zeros trimmed.
func formatNano(nano int64) string {
	s := strconv.FormatFloat(float64(nano)/1e9, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// jsonString extracts a string from a JSON value that may be a string
// or a number (callers send chat ids both ways)
func jsonString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
