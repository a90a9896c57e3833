package outbox

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is one queued mutation. Records are created on a failed or offline
// write attempt, never mutated in place, and deleted only after the remote
// application succeeded.
type Record struct {
	Seq        uint64    `gorm:"primaryKey;autoIncrement"`
	Kind       string    `gorm:"size:64;not null"`
	Arguments  string    `gorm:"type:text;not null"`
	EnqueuedAt time.Time `gorm:"not null"`
}

func (Record) TableName() string { return "sync_queue" }

// UnmarshalArguments decodes the record's serialized arguments into out.
func (r *Record) UnmarshalArguments(out interface{}) error {
	return json.Unmarshal([]byte(r.Arguments), out)
}

// Ledger is the durable, ordered queue of mutations attempted while offline.
// It survives app restarts; ordering is the insertion order of the records.
type Ledger struct {
	db       *gorm.DB
	logger   *zap.Logger
	draining atomic.Bool
}

// Open opens (creating if needed) the ledger database at path.
// Use ":memory:" for tests.
func Open(path string, log *zap.Logger) (*Ledger, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate ledger schema: %w", err)
	}
	return &Ledger{db: db, logger: log}, nil
}

// Enqueue appends a mutation to the ledger. The record is durable before
// Enqueue returns.
func (l *Ledger) Enqueue(ctx context.Context, kind string, arguments interface{}) error {
	payload, err := json.Marshal(arguments)
	if err != nil {
		return fmt.Errorf("failed to serialize arguments: %w", err)
	}

	rec := Record{
		Kind:       kind,
		Arguments:  string(payload),
		EnqueuedAt: time.Now(),
	}
	if err := l.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", kind, err)
	}
	return nil
}

// Pending returns all queued records in ascending sequence order.
func (l *Ledger) Pending(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := l.db.WithContext(ctx).Order("seq ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return records, nil
}

// Drain applies the queued records in order, one at a time. Each record is
// deleted after apply succeeds; on the first failure draining halts and the
// failed record plus the remainder stay queued for the next trigger.
//
// A second Drain while one is running returns immediately: connectivity
// flapping must not start overlapping drains. Context cancellation stops
// between records, leaving the undrained remainder intact.
func (l *Ledger) Drain(ctx context.Context, apply func(ctx context.Context, rec Record) error) error {
	if !l.draining.CompareAndSwap(false, true) {
		l.logger.Debug("Drain already in progress, skipping")
		return nil
	}
	defer l.draining.Store(false)

	records, err := l.Pending(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	l.logger.Info("Draining sync ledger", zap.Int("pending", len(records)))

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			l.logger.Warn("Drain cancelled, remainder stays queued", zap.Uint64("next_seq", rec.Seq))
			return err
		}

		if err := apply(ctx, rec); err != nil {
			l.logger.Warn("Drain halted, record stays queued for retry",
				zap.Uint64("seq", rec.Seq), zap.String("kind", rec.Kind), zap.Error(err))
			return fmt.Errorf("apply %s (seq %d): %w", rec.Kind, rec.Seq, err)
		}

		// Removal of an applied record must not be torn by a cancellation
		// that raced the apply.
		if err := l.db.WithContext(context.WithoutCancel(ctx)).Delete(&Record{}, "seq = ?", rec.Seq).Error; err != nil {
			// The mutation was applied remotely but the record survived; the
			// next drain will replay it, relying on server-side idempotence.
			return fmt.Errorf("failed to remove applied record %d: %w", rec.Seq, err)
		}
	}

	l.logger.Info("Sync ledger drained", zap.Int("applied", len(records)))
	return nil
}
