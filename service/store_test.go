package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/worldguard/WorldGuard/model"
)

type StoreSuite struct {
	suite.Suite
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = NewStore()
}

func (s *StoreSuite) TestCreate() {
	s.Run("creates a pending record", func() {
		rec, created := s.store.Create(100, 7, "alice")
		s.True(created)
		s.Equal(model.VerificationPending, rec.Progress)
		s.Equal("alice", rec.Username)
		s.False(rec.JoinedAt.IsZero())
		s.Equal(1, s.store.Len())
	})

	s.Run("second create for the same key is a no-op", func() {
		first, created := s.store.Create(100, 8, "bob")
		s.Require().True(created)

		again, created := s.store.Create(100, 8, "impostor")
		s.False(created)
		s.Equal(first.JoinedAt, again.JoinedAt)
		s.Equal("bob", again.Username)
		s.Equal(2, s.store.Len())
	})

	s.Run("same user in another chat is a distinct record", func() {
		_, created := s.store.Create(200, 7, "alice")
		s.True(created)
	})
}

func (s *StoreSuite) TestMarkVerified() {
	s.store.Create(100, 7, "alice")

	rec, ok, already := s.store.MarkVerified(100, 7)
	s.Require().True(ok)
	s.False(already)
	s.Equal(model.VerificationVerified, rec.Progress)
	s.False(rec.VerifiedAt.IsZero())

	s.Run("second call reports already", func() {
		_, ok, already := s.store.MarkVerified(100, 7)
		s.True(ok)
		s.True(already)
	})

	s.Run("absent key reports not ok", func() {
		_, ok, _ := s.store.MarkVerified(100, 8)
		s.False(ok)
	})
}

func (s *StoreSuite) TestRemoveStopsTimer() {
	s.store.Create(100, 7, "alice")
	t := &fakeTimer{}
	_, ok := s.store.SetTimeout(100, 7, t)
	s.Require().True(ok)

	s.True(s.store.Remove(100, 7))
	s.True(t.stopped)
	s.Equal(0, s.store.Len())

	s.Run("removing again reports absent", func() {
		s.False(s.store.Remove(100, 7))
	})
}

func (s *StoreSuite) TestTakePending() {
	s.Run("claims a pending record and stops its timer", func() {
		s.store.Create(100, 7, "alice")
		t := &fakeTimer{}
		s.store.SetTimeout(100, 7, t)
		s.store.SetChallengeMessageID(100, 7, 42)

		rec, ok := s.store.TakePending(100, 7)
		s.Require().True(ok)
		s.Equal(42, rec.ChallengeMessageID)
		s.True(t.stopped)
		s.Equal(0, s.store.Len())
	})

	s.Run("leaves a verified record alone", func() {
		s.store.Create(100, 8, "bob")
		s.store.MarkVerified(100, 8)

		_, ok := s.store.TakePending(100, 8)
		s.False(ok)
		_, ok = s.store.Get(100, 8)
		s.True(ok)
	})

	s.Run("no-op on an absent record", func() {
		_, ok := s.store.TakePending(100, 9)
		s.False(ok)
	})
}

func (s *StoreSuite) TestUpdateAbsent() {
	_, ok := s.store.SetChallengeMessageID(100, 7, 42)
	s.False(ok)
	_, ok = s.store.SetTimeout(100, 7, &fakeTimer{})
	s.False(ok)
}

func (s *StoreSuite) TestExpireVerified() {
	s.store.Create(100, 7, "alice")
	s.store.Create(100, 8, "bob")
	s.store.MarkVerified(100, 8)
	// backdate the tombstone past the retention window
	s.store.Update(100, 8, func(r *model.Verification) {
		r.VerifiedAt = time.Now().Add(-2 * time.Hour)
	})
	s.store.Create(100, 9, "carol")
	s.store.MarkVerified(100, 9)

	s.Equal(1, s.store.ExpireVerified(time.Hour))
	s.Equal(2, s.store.Len())

	_, ok := s.store.Get(100, 7)
	s.True(ok, "pending records are never expired")
	_, ok = s.store.Get(100, 9)
	s.True(ok, "fresh tombstones are kept")
}
