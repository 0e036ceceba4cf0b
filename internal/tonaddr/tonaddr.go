// Package tonaddr converts TON addresses between formats for display.
// Addresses that fail to parse are passed through untouched — the service
// stores whatever the caller sent.
package tonaddr

import (
	"github.com/tonkeeper/tongo/ton"
)

// Friendly converts a raw address (0:...) to the user-friendly
// format (UQ.../EQ...). Unparseable input is returned as-is.
func Friendly(addr string) string {
	if addr == "" {
		return ""
	}

	acc, err := ton.ParseAccountID(addr)
	if err != nil {
		return addr
	}

	// Bounceable, URL-safe
	return acc.ToHuman(true, false)
}

// Short returns a shortened address for display
func Short(addr string, n int) string {
	if addr == "" {
		return "unknown"
	}
	if len(addr) < n*2+3 {
		return addr
	}
	return addr[:n] + "..." + addr[len(addr)-n:]
}
