package service

import (
	"time"

	"github.com/worldguard/WorldGuard/model"
)

// ChatAPI is the slice of the chat platform the verification flow drives.
// The production implementation wraps the Telegram bot; tests use fakes.
type ChatAPI interface {
	// BotID is the bot's own user ID, for ignoring its own join events.
	BotID() int64
	// HasRestrictRights reports whether the bot is an administrator of the
	// chat with permission to restrict members.
	HasRestrictRights(chatID int64) (bool, error)
	// RestrictAll revokes every content permission of the member.
	RestrictAll(chatID, userID int64) error
	// LiftRestrictions restores full member permissions.
	LiftRestrictions(chatID, userID int64) error
	SendMessage(chatID int64, text string) error
	// SendChallenge sends text with one inline URL button and returns the
	// message ID of the sent message.
	SendChallenge(chatID int64, text, buttonText, buttonURL string) (messageID int, err error)
	DeleteMessage(chatID int64, messageID int) error
	// Ban kicks the member until unbanAt. The caller picks an unban time
	// past the platform's permanent-ban cutoff so the kick stays temporary.
	Ban(chatID, userID int64, unbanAt time.Time) error
}

// OutcomeRecorder receives resolved verifications for the audit log.
// Recording is best-effort and must never block the lifecycle.
type OutcomeRecorder interface {
	Record(o model.Outcome)
}
