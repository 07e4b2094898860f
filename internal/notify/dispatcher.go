package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const sendTimeout = 15 * time.Second

// Dispatcher sends notifications off the request path. A failed send is
// logged and never reported back to the booking that caused it.
type Dispatcher struct {
	notifier Notifier
	log      *zap.Logger
	queue    chan Message

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(notifier Notifier, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		notifier: notifier,
		log:      log,
		queue:    make(chan Message, 100),
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.notifier.Notify(ctx, msg); err != nil {
			d.log.Error("notification failed", zap.String("subject", msg.Subject), zap.Error(err))
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.log.Warn("notification queue full, dropping message", zap.String("subject", msg.Subject))
	}
}

func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
