package model

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var InvalidSignalErr = fmt.Errorf("invalid signal")

// TimeoutHandle is an armed verification timeout. *time.Timer satisfies it.
type TimeoutHandle interface {
	Stop() bool
}

type VerificationProgress int

const (
	VerificationPending VerificationProgress = iota
	VerificationVerified
)

// Verification tracks one member between joining a chat and being let in,
// kicked or forgotten. There is at most one per (ChatID, UserID).
type Verification struct {
	ChatID             int64
	UserID             int64
	Username           string
	JoinedAt           time.Time
	Progress           VerificationProgress
	VerifiedAt         time.Time
	ChallengeMessageID int
	Timeout            TimeoutHandle
}

// Member is a chat member as reported by a join notification.
type Member struct {
	ID       int64
	Username string
	IsBot    bool
}

// Signal binds a World ID proof to one (user, chat) pair. The user ID comes
// first because chat IDs of supergroups are negative: the consumer splits on
// the first underscore only.
func Signal(userID, chatID int64) string {
	return fmt.Sprintf("%v_%v", userID, chatID)
}

// ParseSignal recovers the (user, chat) pair a signal was built from.
func ParseSignal(signal string) (userID, chatID int64, err error) {
	fields := strings.SplitN(signal, "_", 2)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: %v", InvalidSignalErr, strconv.Quote(signal))
	}
	userID, err = strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", InvalidSignalErr, strconv.Quote(signal))
	}
	chatID, err = strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", InvalidSignalErr, strconv.Quote(signal))
	}
	return userID, chatID, nil
}

// ChallengeURL builds the World App mini-app link embedded in a challenge
// message. The action and signal travel inside the URL-encoded path parameter
// so the verification page can recover them without a side-channel lookup.
func ChallengeURL(appID, action string, userID, chatID int64) string {
	q := url.Values{}
	q.Set("app_id", appID)
	q.Set("path", fmt.Sprintf("?action=%v&signal=%v", action, Signal(userID, chatID)))
	u := url.URL{
		Scheme:   "https",
		Host:     "worldcoin.org",
		Path:     "mini-app",
		RawQuery: q.Encode(),
	}
	return u.String()
}
