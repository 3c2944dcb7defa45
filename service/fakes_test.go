package service

import (
	"sync"
	"time"

	"github.com/worldguard/WorldGuard/model"
)

type apiCall struct {
	Name      string
	ChatID    int64
	UserID    int64
	Text      string
	ButtonURL string
	MessageID int
	UnbanAt   time.Time
}

// fakeChatAPI records every platform call and lets tests inject failures or
// interleave store mutations at the suspension points of the flow.
type fakeChatAPI struct {
	mu sync.Mutex

	botID       int64
	canRestrict bool

	rightsErr    error
	restrictErr  error
	liftErr      error
	sendErr      error
	challengeErr error
	deleteErr    error
	banErr       error

	nextMessageID int
	calls         []apiCall

	// onSendChallenge runs before the challenge is sent, simulating work
	// interleaved while the guard awaits the platform.
	onSendChallenge func()
}

func newFakeChatAPI() *fakeChatAPI {
	return &fakeChatAPI{
		botID:         999,
		canRestrict:   true,
		nextMessageID: 41,
	}
}

func (f *fakeChatAPI) record(c apiCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeChatAPI) named(name string) (calls []apiCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c.Name == name {
			calls = append(calls, c)
		}
	}
	return calls
}

func (f *fakeChatAPI) BotID() int64 {
	return f.botID
}

func (f *fakeChatAPI) HasRestrictRights(chatID int64) (bool, error) {
	if f.rightsErr != nil {
		return false, f.rightsErr
	}
	return f.canRestrict, nil
}

func (f *fakeChatAPI) RestrictAll(chatID, userID int64) error {
	f.record(apiCall{Name: "restrict", ChatID: chatID, UserID: userID})
	return f.restrictErr
}

func (f *fakeChatAPI) LiftRestrictions(chatID, userID int64) error {
	f.record(apiCall{Name: "lift", ChatID: chatID, UserID: userID})
	return f.liftErr
}

func (f *fakeChatAPI) SendMessage(chatID int64, text string) error {
	f.record(apiCall{Name: "send", ChatID: chatID, Text: text})
	return f.sendErr
}

func (f *fakeChatAPI) SendChallenge(chatID int64, text, buttonText, buttonURL string) (int, error) {
	if f.onSendChallenge != nil {
		f.onSendChallenge()
	}
	if f.challengeErr != nil {
		return 0, f.challengeErr
	}
	f.nextMessageID++
	f.record(apiCall{Name: "challenge", ChatID: chatID, Text: text, ButtonURL: buttonURL, MessageID: f.nextMessageID})
	return f.nextMessageID, nil
}

func (f *fakeChatAPI) DeleteMessage(chatID int64, messageID int) error {
	f.record(apiCall{Name: "delete", ChatID: chatID, MessageID: messageID})
	return f.deleteErr
}

func (f *fakeChatAPI) Ban(chatID, userID int64, unbanAt time.Time) error {
	f.record(apiCall{Name: "ban", ChatID: chatID, UserID: userID, UnbanAt: unbanAt})
	return f.banErr
}

// fakeTimer is an armed timeout that fires only when a test says so.
type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return !t.fired
}

func (t *fakeTimer) fire() {
	t.fired = true
	t.f()
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []model.Outcome
}

func (r *fakeRecorder) Record(o model.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}
