package service

import (
	"fmt"
	"time"

	"github.com/worldguard/WorldGuard/model"
	"github.com/worldguard/WorldGuard/pkg/log"
)

// Completer applies an externally validated proof to a pending record. The
// relay has already checked the proof cryptographically; Complete trusts it.
type Completer struct {
	store    *Store
	api      ChatAPI
	outcomes OutcomeRecorder
}

func NewCompleter(store *Store, api ChatAPI, outcomes OutcomeRecorder) *Completer {
	return &Completer{
		store:    store,
		api:      api,
		outcomes: outcomes,
	}
}

// Complete finalizes the verification of one member. It reports false only
// when no record exists for the key; failures of the follow-up platform calls
// do not roll the verification back, since the accepted proof is what makes
// the member trusted.
func (c *Completer) Complete(chatID, userID int64) bool {
	rec, ok, already := c.store.MarkVerified(chatID, userID)
	if !ok {
		log.Warn("cannot verify user %v in chat %v: not in verification queue", userID, chatID)
		return false
	}
	if already {
		// Duplicate delivery from the relay; the first call did the work.
		return true
	}

	if rec.Timeout != nil {
		rec.Timeout.Stop()
	}

	if err := c.api.LiftRestrictions(chatID, userID); err != nil {
		log.Warn("lift restrictions for user %v in chat %v: %v", userID, chatID, err)
	}
	msg := fmt.Sprintf("User %v has been verified and can now chat!", displayName(rec))
	if err := c.api.SendMessage(chatID, msg); err != nil {
		log.Warn("send verified notice to chat %v: %v", chatID, err)
	}
	if rec.ChallengeMessageID != 0 {
		if err := c.api.DeleteMessage(chatID, rec.ChallengeMessageID); err != nil {
			log.Warn("delete challenge message %v in chat %v: %v", rec.ChallengeMessageID, chatID, err)
		}
	}
	log.Info("user %v verified in chat %v", displayName(rec), chatID)

	if c.outcomes != nil {
		c.outcomes.Record(model.Outcome{
			ChatID:     chatID,
			UserID:     userID,
			Username:   rec.Username,
			Result:     model.OutcomeVerified,
			JoinedAt:   rec.JoinedAt,
			ResolvedAt: time.Now(),
		})
	}
	return true
}
