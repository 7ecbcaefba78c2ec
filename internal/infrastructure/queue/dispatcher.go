package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskmanager/task-tracker/internal/api/metrics"
	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes task activities to a fixed set of workers using consistent
// hashing on the task owner, preserving per-owner ordering.
type Dispatcher struct {
	workers []chan domain.TaskActivity
	service ports.ActivityService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each with
// a queue of bufferSize. Non-positive values fall back to the defaults.
func NewDispatcher(numWorkers, bufferSize int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if bufferSize <= 0 {
		bufferSize = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan domain.TaskActivity, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TaskActivity, bufferSize)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Stop has drained their queues.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands activity to the worker responsible for its owner. It never
// blocks: when that worker's queue is full, or the dispatcher is stopped, the
// activity is dropped and counted.
func (d *Dispatcher) Publish(activity domain.TaskActivity) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.ActivitiesErrorsTotal.WithLabelValues("stopped").Inc()
		return
	}

	idx := d.shardIndex(activity.Owner)
	select {
	case d.workers[idx] <- activity:
		metrics.ActivitiesQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivitiesErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().
			Int64("task_id", activity.TaskID).
			Str("action", string(activity.Action)).
			Int("worker_id", idx).
			Msg("activity queue full, dropping")
	}
}

// Stop closes every queue and waits until the workers have drained them.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps an owner deterministically to a worker index.
func (d *Dispatcher) shardIndex(owner string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(owner))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TaskActivity) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case activity, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivitiesQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.service.Process(ctx, activity); err != nil {
				d.log.Error().Err(err).
					Int64("task_id", activity.TaskID).
					Str("owner", activity.Owner).
					Int("worker_id", id).
					Msg("activity processing failed")
			}
		}
	}
}
