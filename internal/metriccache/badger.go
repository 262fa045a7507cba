package metriccache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/ann-bench/internal/model"
	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "metrics/"

// Badger persists computed metrics across invocations in a local Badger
// store, so re-exporting a large results tree does not redo the recall
// computations.
type Badger struct {
	db *badger.DB
}

type BadgerConfig struct {
	Dir      string
	InMemory bool
}

func NewBadger(cfg BadgerConfig) (*Badger, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open metric cache: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(key string) (model.MetricRecord, bool) {
	var rec model.MetricRecord
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		// A corrupt entry behaves like a miss; the caller recomputes and
		// overwrites it.
		if !errors.Is(err, badger.ErrKeyNotFound) {
			slog.Warn("metric cache read failed, treating as miss", "error", err)
		}
		return model.MetricRecord{}, false
	}
	return rec, true
}

func (b *Badger) Put(key string, rec model.MetricRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal metric record: %w", err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), data)
	})
	if err != nil {
		return fmt.Errorf("store metric record: %w", err)
	}
	return nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}
