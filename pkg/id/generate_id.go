package id

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// RepaymentID derives the public installment id from its loan id and
// zero-based position in the schedule.
func RepaymentID(loanID string, seq int) string {
	return loanID + "-" + strconv.Itoa(seq)
}
