package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// Dispatcher delivers queued mail on a fixed set of workers, sharded by
// recipient so that one person's messages arrive in the order they were
// queued.
type Dispatcher struct {
	workers []chan ports.Mail
	mailer  ports.Mailer
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to buffer messages. Non-positive values use the defaults.
func NewDispatcher(numWorkers, buffer int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan ports.Mail, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Mail, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands m to the worker responsible for its recipient. A full shard
// drops the message rather than block the request that queued it.
func (d *Dispatcher) Enqueue(m ports.Mail) {
	idx := d.shardIndex(m.To)
	select {
	case d.workers[idx] <- m:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.EmailsTotal.WithLabelValues(m.Template, "dropped").Inc()
		d.log.Warn().
			Str("template", m.Template).
			Int("worker_id", idx).
			Msg("mail queue full, message dropped")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(to)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Mail) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			if n := len(ch); n > 0 {
				d.log.Warn().Int("worker_id", id).Int("pending", n).Msg("mail worker stopped with pending messages")
			}
			return
		case m := <-ch:
			metrics.MailQueueDepth.WithLabelValues(label).Dec()
			d.deliver(ctx, id, m)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, m ports.Mail) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := d.mailer.Send(sendCtx, m); err != nil {
		metrics.EmailsTotal.WithLabelValues(m.Template, "failed").Inc()
		d.log.Error().Err(err).
			Str("template", m.Template).
			Int("worker_id", id).
			Msg("mail delivery failed")
		return
	}
	metrics.EmailsTotal.WithLabelValues(m.Template, "sent").Inc()
}
