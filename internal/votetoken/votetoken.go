// Package votetoken generates and checks the anonymous vote receipts handed to
// voters. A token is derived deterministically from the voter's normalized
// name and the cast timestamp, so a voter can regenerate proof of their own
// vote without a server round-trip. This is a receipt scheme with a
// tamper-evident format check, not a cryptographic commitment.
package votetoken

import (
	"crypto/sha256"
	"encoding/binary"
	"regexp"
	"strconv"
	"strings"
)

const (
	prefix   = "VOTE-"
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var tokenFormat = regexp.MustCompile(`^VOTE-[0-9A-Z]{4}-[0-9A-Z]{4}$`)

// Generate derives the receipt token for a voter name and a millisecond
// timestamp. It is deterministic and case/whitespace-insensitive on the name:
// the same (normalized name, timestamp) pair always yields the same token.
// Empty names, very long names and zero timestamps are all fine.
func Generate(name string, timestampMillis int64) string {
	sum := sha256.Sum256([]byte(normalize(name) + "|" + strconv.FormatInt(timestampMillis, 10)))

	var b strings.Builder
	b.Grow(len(prefix) + 9)
	b.WriteString(prefix)
	for i := 0; i < 8; i++ {
		if i == 4 {
			b.WriteByte('-')
		}
		chunk := binary.BigEndian.Uint32(sum[i*4 : i*4+4])
		b.WriteByte(alphabet[chunk%uint32(len(alphabet))])
	}
	return b.String()
}

// IsValidFormat is the receiver-side acceptance test for any string claimed
// to be a token: exactly VOTE- plus two 4-character [0-9A-Z] groups. It does
// no hashing and is independent of how Generate builds tokens.
func IsValidFormat(token string) bool {
	return tokenFormat.MatchString(token)
}

// normalize collapses repeated whitespace, trims the ends and uppercases, so
// "  John   Doe " and "JOHN DOE" hash identically.
func normalize(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}
