package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/cmcs/claims-api/internal/api/metrics"
	"github.com/cmcs/claims-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes approval jobs to a fixed set of workers using consistent
// hashing on the lecturer ID, so one lecturer's claims are always processed
// in submission order.
type Dispatcher struct {
	workers []chan ports.ApprovalJob
	service ports.ApprovalService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ApprovalService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ApprovalJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ApprovalJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its lecturer. The send
// never blocks the caller: when the worker's buffer is full the job is
// dropped and counted, and the claim stays pending for manual review.
func (d *Dispatcher) Enqueue(job ports.ApprovalJob) {
	idx := d.shardIndex(job.LecturerID)
	select {
	case d.workers[idx] <- job:
		metrics.ApprovalQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ApprovalJobsDroppedTotal.Inc()
		d.log.Warn().
			Str("claim_id", job.ClaimID).
			Int("worker_id", idx).
			Msg("approval queue full, job dropped")
	}
}

// shardIndex maps a lecturer ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(lecturerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(lecturerID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ApprovalJob) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.ApprovalQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			start := time.Now()
			approved, err := d.service.ProcessAutoApproval(ctx, job.ClaimID)
			metrics.ApprovalProcessingDuration.Observe(time.Since(start).Seconds())
			switch {
			case err != nil:
				metrics.AutoApprovalsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("claim_id", job.ClaimID).
					Int("worker_id", id).
					Msg("auto-approval processing failed")
			case approved:
				metrics.AutoApprovalsTotal.WithLabelValues("approved").Inc()
			default:
				metrics.AutoApprovalsTotal.WithLabelValues("manual_review").Inc()
			}
		}
	}
}
