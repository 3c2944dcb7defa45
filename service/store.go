package service

import (
	"sync"
	"time"

	"github.com/worldguard/WorldGuard/model"
)

type recordKey struct {
	ChatID int64
	UserID int64
}

// Store owns every live verification record. All mutation is keyed by
// (chatID, userID) and happens under one lock, so a read-decide-write against
// a key is atomic with respect to the guard, the completer and firing timers.
// Records are handed out by value; callers re-fetch instead of holding
// references across blocking calls.
type Store struct {
	mu      sync.Mutex
	records map[recordKey]*model.Verification
}

func NewStore() *Store {
	return &Store{
		records: make(map[recordKey]*model.Verification),
	}
}

// Create inserts a pending record. If one already exists for the key it is
// returned untouched: redundant join events must not reset JoinedAt or leak
// a second challenge cycle.
func (s *Store) Create(chatID, userID int64, username string) (rec model.Verification, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey{ChatID: chatID, UserID: userID}
	if old, ok := s.records[key]; ok {
		return *old, false
	}
	r := &model.Verification{
		ChatID:   chatID,
		UserID:   userID,
		Username: username,
		JoinedAt: time.Now(),
		Progress: model.VerificationPending,
	}
	s.records[key] = r
	return *r, true
}

func (s *Store) Get(chatID, userID int64) (rec model.Verification, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[recordKey{ChatID: chatID, UserID: userID}]
	if !ok {
		return model.Verification{}, false
	}
	return *r, true
}

// Update applies fn to the record under the store lock and returns the
// result. No-op on an absent key.
func (s *Store) Update(chatID, userID int64, fn func(*model.Verification)) (rec model.Verification, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[recordKey{ChatID: chatID, UserID: userID}]
	if !ok {
		return model.Verification{}, false
	}
	fn(r)
	return *r, true
}

// MarkVerified flips a record to verified. ok reports whether the record
// exists at all; already reports whether some earlier call had verified it,
// so a duplicate proof delivery can be answered without re-running side
// effects. Timer cancellation is deliberately left to the caller: ordering
// against platform calls matters there.
func (s *Store) MarkVerified(chatID, userID int64) (rec model.Verification, ok bool, already bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, present := s.records[recordKey{ChatID: chatID, UserID: userID}]
	if !present {
		return model.Verification{}, false, false
	}
	if r.Progress == model.VerificationVerified {
		return *r, true, true
	}
	r.Progress = model.VerificationVerified
	r.VerifiedAt = time.Now()
	return *r, true, false
}

// Remove deletes the record for the key, stopping its timeout first so a
// deleted record's timer can never fire into platform state. Reports whether
// a record was present.
func (s *Store) Remove(chatID, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey{ChatID: chatID, UserID: userID}
	r, ok := s.records[key]
	if !ok {
		return false
	}
	if r.Timeout != nil {
		r.Timeout.Stop()
	}
	delete(s.records, key)
	return true
}

// TakePending removes the record only if it is still pending and returns a
// snapshot for the caller's cleanup calls. This is the timeout path's
// decisive mutation: when the completer verified the member a moment
// earlier, TakePending reports false and the timeout becomes a no-op.
func (s *Store) TakePending(chatID, userID int64) (rec model.Verification, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey{ChatID: chatID, UserID: userID}
	r, present := s.records[key]
	if !present || r.Progress != model.VerificationPending {
		return model.Verification{}, false
	}
	if r.Timeout != nil {
		r.Timeout.Stop()
	}
	delete(s.records, key)
	return *r, true
}

func (s *Store) SetTimeout(chatID, userID int64, t model.TimeoutHandle) (model.Verification, bool) {
	return s.Update(chatID, userID, func(r *model.Verification) {
		r.Timeout = t
	})
}

func (s *Store) SetChallengeMessageID(chatID, userID int64, messageID int) (model.Verification, bool) {
	return s.Update(chatID, userID, func(r *model.Verification) {
		r.ChallengeMessageID = messageID
	})
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// ExpireVerified drops verified tombstones older than the retention window.
// Tombstones keep duplicate proof deliveries idempotent for a while; without
// a sweep they would accumulate one per ever-verified member.
func (s *Store) ExpireVerified(olderThan time.Duration) (removed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for key, r := range s.records {
		if r.Progress != model.VerificationVerified {
			continue
		}
		if now.Sub(r.VerifiedAt) < olderThan {
			continue
		}
		if r.Timeout != nil {
			r.Timeout.Stop()
		}
		delete(s.records, key)
		removed++
	}
	return removed
}
