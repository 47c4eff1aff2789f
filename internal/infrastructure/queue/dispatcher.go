package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookwyrm/bookshelf-system/internal/api/metrics"
	"github.com/bookwyrm/bookshelf-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
	removeTimeout  = 30 * time.Second
)

// Dispatcher fans media-cleanup jobs out to a fixed set of workers using
// consistent hashing on the object name, so repeated jobs for the same
// object land on the same worker.
type Dispatcher struct {
	workers []chan ports.CleanupJob
	media   ports.MediaStore
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, media ports.MediaStore, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.CleanupJob, numWorkers),
		media:   media,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CleanupJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its object name. Cleanup
// is best effort: when the worker's buffer is full the job is dropped and
// logged rather than blocking the caller.
func (d *Dispatcher) Enqueue(job ports.CleanupJob) {
	idx := d.shardIndex(job.ObjectName)
	select {
	case d.workers[idx] <- job:
		metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().Str("object", job.ObjectName).Msg("cleanup queue full, job dropped")
		metrics.MediaCleanupTotal.WithLabelValues("error").Inc()
	}
}

// shardIndex maps an object name deterministically to a worker index.
func (d *Dispatcher) shardIndex(objectName string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(objectName))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CleanupJob) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.CleanupQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))

			removeCtx, cancel := context.WithTimeout(ctx, removeTimeout)
			err := d.media.Remove(removeCtx, job.ObjectName)
			cancel()

			if err != nil {
				d.log.Error().Err(err).
					Str("object", job.ObjectName).
					Int("worker_id", id).
					Msg("media removal failed")
				metrics.MediaCleanupTotal.WithLabelValues("error").Inc()
				continue
			}
			metrics.MediaCleanupTotal.WithLabelValues("removed").Inc()
		}
	}
}
