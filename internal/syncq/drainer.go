package syncq

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-depot-pos.git/internal/redisx"
)

// Applier performs the remote write for one queued op. Implementations
// must be idempotent by op payload id, duplicate delivery is expected.
type Applier interface {
	Apply(ctx context.Context, op Op) error
}

// Result summarizes one drain pass.
type Result struct {
	Attempted  int       `json:"attempted"`
	Succeeded  int       `json:"succeeded"`
	Failed     bool      `json:"failed"`
	StalledOn  string    `json:"stalled_on,omitempty"` // op id that exhausted retries
	FinishedAt time.Time `json:"finished_at"`
}

// Drainer replays queued ops in enqueue order when connectivity returns.
// Each op gets an immediate attempt plus bounded backoff retries; an op
// that exhausts its retries stays queued and stalls everything behind it,
// which keeps strict ordering at the cost of head-of-line blocking.
type Drainer struct {
	Queue   *Queue
	Remote  Applier
	Backoff []time.Duration // defaults to 1s, 2s, 4s
	Dedup   *redis.Client   // optional replay dedup, nil disables

	// OnDrained runs after a pass that confirmed at least one op
	// (snapshot refresh + sync-complete notification live here).
	OnDrained func(ctx context.Context, succeeded int)

	draining atomic.Bool
	mu       sync.Mutex
	last     Result
}

var defaultBackoff = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

// Drain processes the queue to completion. A call while another drain is
// running is a no-op so the same ops are never delivered twice in
// parallel.
func (d *Drainer) Drain(ctx context.Context) Result {
	if !d.draining.CompareAndSwap(false, true) {
		return d.Last()
	}
	defer d.draining.Store(false)

	backoff := d.Backoff
	if len(backoff) == 0 {
		backoff = defaultBackoff
	}

	res := Result{}
	ops, err := d.Queue.Pending()
	if err != nil {
		log.Printf("syncq: read pending: %v", err)
		res.Failed = true
		return d.finish(res)
	}

	for _, op := range ops {
		res.Attempted++
		if d.seen(ctx, op) {
			// already delivered in an earlier pass, just drop it
			if err := d.Queue.Ack(op); err != nil {
				log.Printf("syncq: ack deduped op %s: %v", op.ID, err)
			}
			res.Succeeded++
			continue
		}
		if err := d.deliver(ctx, op, backoff); err != nil {
			log.Printf("syncq: op %s (%s) exhausted retries: %v", op.ID, op.Kind, err)
			if _, berr := d.Queue.Bump(op); berr != nil {
				log.Printf("syncq: %v", berr)
			}
			res.Failed = true
			res.StalledOn = op.ID
			break
		}
		d.mark(ctx, op)
		if err := d.Queue.Ack(op); err != nil {
			log.Printf("syncq: ack op %s: %v", op.ID, err)
		}
		res.Succeeded++
	}

	if res.Succeeded > 0 && d.OnDrained != nil {
		d.OnDrained(ctx, res.Succeeded)
	}
	return d.finish(res)
}

// deliver tries the op once, then retries with backoff. Delays only block
// this drain, callers run it off the request path.
func (d *Drainer) deliver(ctx context.Context, op Op, backoff []time.Duration) error {
	err := d.Remote.Apply(ctx, op)
	if err == nil {
		return nil
	}
	for _, wait := range backoff {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		if err = d.Remote.Apply(ctx, op); err == nil {
			return nil
		}
	}
	return err
}

func (d *Drainer) seen(ctx context.Context, op Op) bool {
	if d.Dedup == nil {
		return false
	}
	ok, err := redisx.Exists(ctx, d.Dedup, fmt.Sprintf(redisx.KeyOpDedup, op.ID))
	if err != nil {
		return false
	}
	return ok
}

func (d *Drainer) mark(ctx context.Context, op Op) {
	if d.Dedup == nil {
		return
	}
	_ = d.Dedup.Set(ctx, fmt.Sprintf(redisx.KeyOpDedup, op.ID), "1", redisx.TTLOpDedup).Err()
}

func (d *Drainer) finish(res Result) Result {
	res.FinishedAt = time.Now().UTC()
	d.mu.Lock()
	d.last = res
	d.mu.Unlock()
	return res
}

// Last returns the most recent drain result.
func (d *Drainer) Last() Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Draining reports whether a drain pass is in progress.
func (d *Drainer) Draining() bool { return d.draining.Load() }
