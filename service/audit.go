package service

import (
	"fmt"

	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/worldguard/WorldGuard/common"
	"github.com/worldguard/WorldGuard/db"
	"github.com/worldguard/WorldGuard/model"
	"github.com/worldguard/WorldGuard/pkg/log"
)

// BoltOutcomeRecorder persists resolved verifications into the audit bucket.
type BoltOutcomeRecorder struct{}

func (BoltOutcomeRecorder) Record(o model.Outcome) {
	if err := AddOutcome(o); err != nil {
		log.Warn("record outcome for user %v in chat %v: %v", o.UserID, o.ChatID, err)
	}
}

// AddOutcome stores one resolved verification. The chat is indexed by its
// UUIDv5 identifier so the web API never exposes raw chat IDs.
func AddOutcome(o model.Outcome) error {
	return db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketOutcome))
		if err != nil {
			return err
		}
		for {
			id, err := gonanoid.New()
			if err != nil {
				return err
			}
			if bkt.Get([]byte(id)) == nil {
				o.ID = id
				break
			}
		}
		o.ChatIdentifier = common.StringToUUID5(fmt.Sprintf("%v", o.ChatID))
		b, err := jsoniter.Marshal(&o)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(o.ID), b)
	})
}

// OutcomesByChatIdentifier lists the retained outcomes of one chat.
func OutcomesByChatIdentifier(chatIdentifier string) (outcomes []model.Outcome, err error) {
	if chatIdentifier == "" {
		return nil, fmt.Errorf("chatIdentifier cannot be empty")
	}
	err = db.DB().View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketOutcome))
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(func(k, b []byte) error {
			var o model.Outcome
			if err := jsoniter.Unmarshal(b, &o); err != nil {
				log.Warn("skip invalid outcome %v: %v", string(k), err)
				return nil
			}
			if o.ChatIdentifier == chatIdentifier {
				outcomes = append(outcomes, o)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}
