package model

import "time"

const BucketOutcome = "outcome"

type OutcomeResult string

const (
	OutcomeVerified OutcomeResult = "verified"
	OutcomeTimedOut OutcomeResult = "timeout"
)

// Outcome is one resolved verification, kept in the audit bucket for a few
// days. The live verification queue itself is never persisted.
type Outcome struct {
	ID             string
	ChatIdentifier string
	ChatID         int64
	UserID         int64
	Username       string
	Result         OutcomeResult
	JoinedAt       time.Time
	ResolvedAt     time.Time
}
