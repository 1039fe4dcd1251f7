package test

import (
	"math/rand"
	"sync"
	"time"
)

const (
	digits  = "0123456789"
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomDigits returns n random ASCII digits. Leading zeros are kept.
func RandomDigits(n int) string {
	return randomFrom(digits, n)
}

// RandomAccountNumber returns a well-formed bank account number.
func RandomAccountNumber() string {
	return RandomDigits(10)
}

// RandomWord returns letters only, between minLen and maxLen long.
func RandomWord(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	return randomFrom(letters, minLen+randomIntn(maxLen-minLen+1))
}

func randomFrom(alphabet string, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphabet[randomIntn(len(alphabet))]
	}
	return string(buf)
}

func randomIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
