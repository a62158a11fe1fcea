// Package bet holds the domain types shared between the betting core and
// the transport boundary: leaderboard entries, the error taxonomy, and the
// wire encoding for high-stakes listings.
package bet

import (
	"strconv"
	"strings"
)

// Entry is one leaderboard row: a customer's highest stake on an offer.
// A customer appears at most once per offer.
type Entry struct {
	CustomerID int64 `json:"customerId"`
	Stake      int64 `json:"stake"`
}

// Less orders entries by stake descending, ties by customer id ascending.
// The tie-break makes listings reproducible for equal stakes.
func (e Entry) Less(other Entry) bool {
	if e.Stake != other.Stake {
		return e.Stake > other.Stake
	}
	return e.CustomerID < other.CustomerID
}

// EncodeCSV renders entries as "customerId=stake,customerId=stake".
// An empty slice encodes to the empty string.
func EncodeCSV(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(e.CustomerID, 10))
		b.WriteByte('=')
		b.WriteString(strconv.FormatInt(e.Stake, 10))
	}
	return b.String()
}
