package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/worldguard/WorldGuard/model"
	"github.com/worldguard/WorldGuard/pkg/log"
)

const (
	challengeButtonText = "🌎 Verify with World ID"

	// Telegram treats bans shorter than 30 seconds as permanent. Stay well
	// past that so a timed-out member can rejoin and retry.
	kickBanDuration = 65 * time.Second
)

type GuardConfig struct {
	// AppID and Action identify the World ID app the challenge link points at.
	AppID  string
	Action string
	// Timeout is how long a member has to complete the challenge.
	Timeout time.Duration
}

// Guard bridges chat membership events to the verification lifecycle: it
// starts exactly one challenge cycle per join and removes members whose
// challenge times out.
type Guard struct {
	store    *Store
	api      ChatAPI
	outcomes OutcomeRecorder
	conf     GuardConfig

	// newTimer is swapped out by tests.
	newTimer func(d time.Duration, f func()) model.TimeoutHandle
}

func NewGuard(store *Store, api ChatAPI, outcomes OutcomeRecorder, conf GuardConfig) *Guard {
	return &Guard{
		store:    store,
		api:      api,
		outcomes: outcomes,
		conf:     conf,
		newTimer: func(d time.Duration, f func()) model.TimeoutHandle {
			return time.AfterFunc(d, f)
		},
	}
}

// HandleJoin processes one member appearing in a chat. Telegram reports the
// same physical join on up to two update channels; the existing-record check
// collapses them into one challenge cycle.
func (g *Guard) HandleJoin(chatID int64, member model.Member) {
	if member.IsBot || member.ID == g.api.BotID() {
		return
	}
	if _, ok := g.store.Get(chatID, member.ID); ok {
		log.Info("user %v in chat %v is already in verification, skipping duplicate join", member.ID, chatID)
		return
	}

	// Never mute under insufficient privilege: without restrict rights the
	// member could not be unmuted either.
	canRestrict, err := g.api.HasRestrictRights(chatID)
	if err != nil {
		log.Warn("check bot permissions in chat %v: %v", chatID, err)
		return
	}
	if !canRestrict {
		log.Warn("bot cannot restrict members in chat %v, not challenging user %v", chatID, member.ID)
		return
	}

	if err := g.api.RestrictAll(chatID, member.ID); err != nil {
		// Fail open: an unrestricted member can chat until they verify or
		// time out, which beats skipping the challenge entirely.
		log.Warn("restrict user %v in chat %v: %v", member.ID, chatID, err)
	}

	rec, created := g.store.Create(chatID, member.ID, member.Username)
	if !created {
		return
	}
	log.Info("challenging new member %v in chat %v", displayName(rec), chatID)

	text := fmt.Sprintf("Welcome %v!\n\n"+
		"To prevent spam, please verify you're human using World ID.\n\n"+
		"World ID is a digital passport that protects groups from bots while preserving your privacy. "+
		"The verification takes just a few seconds.", displayName(rec))
	u := model.ChallengeURL(g.conf.AppID, g.conf.Action, member.ID, chatID)
	if msgID, err := g.api.SendChallenge(chatID, text, challengeButtonText, u); err != nil {
		log.Warn("send challenge to chat %v for user %v: %v", chatID, member.ID, err)
	} else {
		g.store.SetChallengeMessageID(chatID, member.ID, msgID)
	}

	t := g.newTimer(g.conf.Timeout, func() {
		g.handleTimeout(chatID, member.ID)
	})
	if _, ok := g.store.SetTimeout(chatID, member.ID, t); !ok {
		// The member left while the challenge was being sent and the record
		// is gone; the timer must not outlive it.
		t.Stop()
	}
}

// HandleLeave drops the verification record of a member who left on their
// own, pending or verified. No notification is sent.
func (g *Guard) HandleLeave(chatID, userID int64) {
	if g.store.Remove(chatID, userID) {
		log.Info("user %v left chat %v, removed from verification", userID, chatID)
	}
}

func (g *Guard) handleTimeout(chatID, userID int64) {
	// Claiming the record is the decisive step; a member verified a moment
	// earlier is left alone.
	rec, ok := g.store.TakePending(chatID, userID)
	if !ok {
		return
	}
	log.Info("verification timeout for user %v in chat %v", displayName(rec), chatID)

	msg := fmt.Sprintf("User %v has been removed for not completing verification.", displayName(rec))
	if err := g.api.SendMessage(chatID, msg); err != nil {
		log.Warn("send removal notice to chat %v: %v", chatID, err)
	}
	if rec.ChallengeMessageID != 0 {
		if err := g.api.DeleteMessage(chatID, rec.ChallengeMessageID); err != nil {
			log.Warn("delete challenge message %v in chat %v: %v", rec.ChallengeMessageID, chatID, err)
		}
	}
	// The record is already gone, so a failed kick cannot strand the member
	// in a muted limbo; they may rejoin and get a fresh challenge.
	if err := g.api.Ban(chatID, userID, time.Now().Add(kickBanDuration)); err != nil {
		log.Warn("ban user %v in chat %v: %v", userID, chatID, err)
	}

	if g.outcomes != nil {
		g.outcomes.Record(model.Outcome{
			ChatID:     chatID,
			UserID:     userID,
			Username:   rec.Username,
			Result:     model.OutcomeTimedOut,
			JoinedAt:   rec.JoinedAt,
			ResolvedAt: time.Now(),
		})
	}
}

func displayName(rec model.Verification) string {
	if rec.Username != "" {
		return "@" + rec.Username
	}
	return strconv.FormatInt(rec.UserID, 10)
}
