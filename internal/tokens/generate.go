package tokens

import (
	"math/rand"
	"strconv"

	random "github.com/mazen160/go-random"
)

// generateDatr produces a 24-character device-fingerprint cookie value,
// generated afresh for every landing-page request.
func generateDatr() (string, error) {
	return random.String(24)
}

// generateLSD produces a plausible fallback CSRF token (8-12 chars) for
// when extraction from the landing page comes up empty.
func generateLSD() (string, error) {
	length := 8 + rand.Intn(5)
	return random.String(length)
}

// generateFbDtsg produces a plausible fallback DTSG anti-CSRF token
// (20-40 chars).
func generateFbDtsg() (string, error) {
	length := 20 + rand.Intn(21)
	return random.String(length)
}

// calculateJazoest derives the jazoest token deterministically from lsd:
// 2 plus the sum of lsd's byte values, rendered as a decimal string.
func calculateJazoest(lsd string) string {
	sum := 2
	for i := 0; i < len(lsd); i++ {
		sum += int(lsd[i])
	}
	return strconv.Itoa(sum)
}
