package entity

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// DonationSession connects an approved donor to an approved receiver.
// Ref is the human-facing identifier both parties use to coordinate.
type DonationSession struct {
	ID              string
	Ref             string
	DonorID         string
	ReceiverID      string
	FoodDescription string
	Quantity        string
	Status          string // ACTIVE for now; no further workflow exists yet
	CreatedAt       time.Time
}

const SessionActive = "ACTIVE"

const refAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSessionRef builds a session reference like DS-M5K2XQ-4H7ZD1: a base-36
// timestamp plus six random base-36 characters, uppercased.
func NewSessionRef(now time.Time) string {
	var b strings.Builder
	b.WriteString("DS-")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	b.WriteByte('-')
	max := big.NewInt(int64(len(refAlphabet)))
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing is unrecoverable; fall back to a clock digit
			b.WriteByte(refAlphabet[now.Nanosecond()%len(refAlphabet)])
			continue
		}
		b.WriteByte(refAlphabet[n.Int64()])
	}
	return strings.ToUpper(b.String())
}
