package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditWriter persists one audit entry. Implemented by the postgres layer.
type AuditWriter interface {
	Insert(ctx context.Context, entry domain.AuditEntry) error
}

// AuditDispatcher fans audit entries out to a fixed set of workers using
// consistent hashing on the record id, keeping per-record ordering. Record
// never blocks the request path: when a worker's buffer is full the entry
// is dropped and logged.
type AuditDispatcher struct {
	workers []chan domain.AuditEntry
	writer  AuditWriter
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, writer AuditWriter, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		writer:  writer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until all workers have exited.
func (d *AuditDispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues an entry fire-and-forget.
func (d *AuditDispatcher) Record(entry domain.AuditEntry) {
	select {
	case d.workers[d.shardIndex(entry.RecordID)] <- entry:
	default:
		d.log.Warn().
			Str("record_id", entry.RecordID).
			Str("action", entry.Action).
			Msg("audit entry dropped: worker buffer full")
	}
}

// shardIndex maps a record id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(recordID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recordID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			if err := d.writer.Insert(ctx, entry); err != nil {
				d.log.Error().Err(err).
					Str("record_id", entry.RecordID).
					Str("table", entry.Table).
					Int("worker_id", id).
					Msg("audit write failed")
			}
		}
	}
}
