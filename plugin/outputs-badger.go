package plugin

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	Mt "github.com/maroda/epicycle/types"
)

// BadgerOutput stores completed traces in BadgerDB
type BadgerOutput struct {
	MU        sync.Mutex
	DB        *badger.DB
	BatchSize int
	Buffer    []*Mt.TraceRecord
}

func NewBadgerOutput(path string, batchSize int) (*BadgerOutput, error) {
	if batchSize < 1 {
		batchSize = 1
	}

	opts := badger.DefaultOptions(path).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		slog.Error("BadgerOutput failed to open database", slog.Any("error", err))
		return nil, fmt.Errorf("database error: %w", err)
	}

	slog.Info("BadgerOutput opened",
		slog.String("path", path),
		slog.Int("batchSize", batchSize))

	return &BadgerOutput{
		DB:        db,
		BatchSize: batchSize,
		Buffer:    make([]*Mt.TraceRecord, 0, batchSize),
	}, nil
}

// WriteTrace queues up a batch of traces,
// when batchsize is reached, it calls flushLocked()
// which calls WriteBatch() with the new batch
func (bo *BadgerOutput) WriteTrace(rec *Mt.TraceRecord) error {
	bo.MU.Lock()
	defer bo.MU.Unlock()

	bo.Buffer = append(bo.Buffer, rec)
	if len(bo.Buffer) >= bo.BatchSize {
		return bo.flushLocked()
	}
	return nil
}

// WriteBatch performs the key/value creation to be stored
// and actually calls BadgerDB to write the data
func (bo *BadgerOutput) WriteBatch(recs []*Mt.TraceRecord) error {
	wb := bo.DB.NewWriteBatch()
	defer wb.Cancel()

	for _, r := range recs {
		v, err := TraceEncode(r)
		if err != nil {
			return fmt.Errorf("trace encode error: %w", err)
		}
		if err := wb.Set(TraceKey(r), v); err != nil {
			slog.Error("BadgerOutput failed to set key in batch",
				slog.Any("error", err),
				slog.Time("completed", r.Completed),
				slog.String("set", r.Set))
			return fmt.Errorf("write batch error: %w", err)
		}
	}

	if err := wb.Flush(); err != nil {
		slog.Error("BadgerOutput failed to flush batch", slog.Any("error", err))
		return fmt.Errorf("batch flush error: %w", err)
	}

	return nil
}

// Flush is the public method that blocks,
// it sends data to WriteBatch and then clears the buffer
func (bo *BadgerOutput) Flush() error {
	bo.MU.Lock()
	defer bo.MU.Unlock()

	if len(bo.Buffer) == 0 {
		return nil
	}
	return bo.flushLocked()
}

// flushLocked mimics Flush without locking, called by WriteTrace
func (bo *BadgerOutput) flushLocked() error {
	err := bo.WriteBatch(bo.Buffer)
	bo.Buffer = bo.Buffer[:0] // Clear but keep capacity
	return err
}

// Close returns a Flush error but still attempts to close
func (bo *BadgerOutput) Close() error {
	bo.MU.Lock()
	pending := len(bo.Buffer)
	bo.MU.Unlock()

	slog.Info("BadgerOutput closing, flushing buffer", slog.Int("bufferSize", pending))
	flushErr := bo.Flush()
	closeErr := bo.DB.Close()

	if flushErr != nil {
		slog.Error("BadgerOutput failed to flush on close", slog.Any("error", flushErr))
		return fmt.Errorf("flush failed, close may have failed: %w", flushErr)
	}
	if closeErr != nil {
		slog.Error("BadgerOutput failed to close database", slog.Any("error", closeErr))
		return fmt.Errorf("close failed: %w", closeErr)
	}

	slog.Info("BadgerOutput closed successfully")
	return nil
}

func (bo *BadgerOutput) Type() string { return "BadgerDB" }

// TraceKey creates a composite key:
// set name + 0x00 + completion time + cycle
// so each set's traces sit together in chronological order
func TraceKey(rec *Mt.TraceRecord) []byte {
	name := []byte(rec.Set)
	key := make([]byte, len(name)+1+8+4)
	copy(key, name)

	off := len(name) + 1
	binary.BigEndian.PutUint64(key[off:off+8], uint64(rec.Completed.UnixNano()))
	binary.BigEndian.PutUint32(key[off+8:], uint32(rec.Cycle))

	return key
}

// setPrefix is the start of every key for /set/
func setPrefix(set string) []byte {
	return append([]byte(set), 0)
}

// TraceEncode serializes the trace record for data storage
func TraceEncode(rec *Mt.TraceRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TraceDecode deserializes the trace record data
func TraceDecode(data []byte) (*Mt.TraceRecord, error) {
	var rec Mt.TraceRecord
	err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&rec)
	return &rec, err
}

// QueryRange retrieves traces completed in [start, end)
func (bo *BadgerOutput) QueryRange(start, end time.Time) ([]*Mt.TraceRecord, error) {
	recs, err := bo.scan(nil, func(r *Mt.TraceRecord) bool {
		return !r.Completed.Before(start) && r.Completed.Before(end)
	})
	slog.Info("BadgerOutput QueryRange successful", slog.Int("count", len(recs)))
	return recs, err
}

// QuerySet retrieves every stored trace of one set, oldest first
func (bo *BadgerOutput) QuerySet(set string) ([]*Mt.TraceRecord, error) {
	return bo.scan(setPrefix(set), func(*Mt.TraceRecord) bool { return true })
}

func (bo *BadgerOutput) scan(prefix []byte, keep func(*Mt.TraceRecord) bool) ([]*Mt.TraceRecord, error) {
	var recs []*Mt.TraceRecord

	// db.View() callback
	// BadgerDB provides a transaction in which to get item.Value()
	err := bo.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				rec, err := TraceDecode(val)
				if err != nil {
					slog.Error("BadgerOutput failed to decode trace", slog.Any("error", err))
					return fmt.Errorf("trace decode error: %w", err)
				}
				if keep(rec) {
					recs = append(recs, rec)
				}
				return nil
			})
			if err != nil {
				slog.Error("BadgerOutput callback failure", slog.Any("error", err))
				return fmt.Errorf("item data error: %w", err)
			}
		}
		return nil
	})

	return recs, err
}
