package auth

import "time"

// Strategy issues and verifies the wallet session token handed to the browser.
type Strategy interface {
	IssueToken(sessionID string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
