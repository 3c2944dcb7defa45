package main

import (
	"time"

	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"
	"github.com/worldguard/WorldGuard/db"
	"github.com/worldguard/WorldGuard/model"
	"github.com/worldguard/WorldGuard/pkg/log"
	"github.com/worldguard/WorldGuard/service"
)

const (
	// How long a verified tombstone stays around. Within the window a
	// duplicate relay callback is answered idempotently; afterwards the
	// member is simply unknown to the queue.
	verifiedRetention = 1 * time.Hour

	outcomeRetention = 7 * 24 * time.Hour
)

func GoBackgrounds(store *service.Store) {
	// sweep verified tombstones out of the in-memory queue
	go TombstoneCleanBackground(store, 10*time.Minute, verifiedRetention)()

	// drop audit outcomes past retention
	go ExpireCleanBackground(model.BucketOutcome, 1*time.Hour, func(b []byte, now time.Time) (expired bool) {
		var o model.Outcome
		if err := jsoniter.Unmarshal(b, &o); err != nil {
			// invalid outcomes are regarded as expired
			return true
		}
		return now.Sub(o.ResolvedAt) >= outcomeRetention
	})()
}

func TombstoneCleanBackground(store *service.Store, cleanInterval, olderThan time.Duration) func() {
	return func() {
		tick := time.Tick(cleanInterval)
		for range tick {
			if n := store.ExpireVerified(olderThan); n > 0 {
				log.Info("expired %v verified records", n)
			}
		}
	}
}

func ExpireCleanBackground(bucket string, cleanInterval time.Duration, f func(b []byte, now time.Time) (expired bool)) func() {
	return func() {
		tick := time.Tick(cleanInterval)
		for now := range tick {
			if err := db.DB().Update(func(tx *bolt.Tx) error {
				bkt, err := tx.CreateBucketIfNotExists([]byte(bucket))
				if err != nil {
					return err
				}
				var listClean [][]byte
				if err = bkt.ForEach(func(k, b []byte) error {
					if f(b, now) {
						listClean = append(listClean, k)
					}
					return nil
				}); err != nil {
					return err
				}
				for _, k := range listClean {
					if err = bkt.Delete(k); err != nil {
						return err
					}
				}
				return nil
			}); err != nil {
				log.Warn("Clean bucket %v: %v", bucket, err)
			}
		}
	}
}
