package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
	"github.com/yamdb/api-yamdb/internal/pkg/metrics"
)

const (
	defaultWorkers  = 4
	channelBuffer   = 256
	deliveryTimeout = 10 * time.Second
)

// Dispatcher delivers mail on a fixed set of workers. Messages to the same
// recipient always land on the same worker and go out in enqueue order.
type Dispatcher struct {
	workers []chan domain.Mail
	mailer  ports.Mailer
	backend string
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. backend labels metrics.
func NewDispatcher(numWorkers int, mailer ports.Mailer, backend string, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Mail, numWorkers),
		mailer:  mailer,
		backend: backend,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Mail, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands msg to the worker owning its recipient. It never blocks: when
// that worker's buffer is full the message is dropped.
func (d *Dispatcher) Enqueue(msg domain.Mail) {
	idx := d.shardIndex(msg.To)
	select {
	case d.workers[idx] <- msg:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.MailDroppedTotal.Inc()
		d.log.Warn().Str("to", msg.To).Int("worker_id", idx).Msg("mail queue full, message dropped")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(addr string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(addr)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Mail) {
	defer d.wg.Done()
	depth := metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ch:
			depth.Dec()
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, msg domain.Mail) {
	sendCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	start := time.Now()
	err := d.mailer.Send(sendCtx, msg)
	metrics.MailDeliveryDuration.WithLabelValues(d.backend).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.MailDeliveriesTotal.WithLabelValues(d.backend, "error").Inc()
		d.log.Error().Err(err).
			Str("to", msg.To).
			Int("worker_id", id).
			Msg("mail delivery failed")
		return
	}
	metrics.MailDeliveriesTotal.WithLabelValues(d.backend, "ok").Inc()
}
