package utils

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"
)

// NormalizeAddress lowercases a wallet address. Every ingress point that
// stores or queries by address must pass through here so lookups never
// miss on checksum-cased input.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// GenerateUniqueCode generates a 5-digit + 2-character course/bounty code
func GenerateUniqueCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	digits := rng.Intn(90000) + 10000
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	chars := string(letters[rng.Intn(26)]) + string(letters[rng.Intn(26)])
	return fmt.Sprintf("%d%s", digits, chars)
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Drivers word these differently, so check the translated gorm error first
// and fall back to the message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
