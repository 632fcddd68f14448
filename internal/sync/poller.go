package sync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/mirror"
)

// Update is one poll observation of a collection.
type Update struct {
	Collection string
	Source     Source
	Payload    interface{}
}

// Feed is a cancellable stream of collection updates. Consumers range over
// Updates and call Close when done; the channel is closed on cancellation.
type Feed interface {
	Updates() <-chan Update
	Close()
}

// Poller re-reads collections through the gateway on a fixed interval and
// fans the observations out to subscribers. Freshness is the subscriber's
// concern only; a local-sourced update is still an update.
type Poller struct {
	gateway  *Gateway
	interval time.Duration
	logger   *zap.Logger
}

// NewPoller builds a poller over the gateway.
func NewPoller(gateway *Gateway, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{gateway: gateway, interval: interval, logger: logger}
}

// Subscribe starts a feed over the named collections. The first observation
// is delivered immediately, then on every tick.
func (p *Poller) Subscribe(ctx context.Context, collections ...string) Feed {
	targets := make([]func(context.Context) Update, 0, len(collections))
	for _, c := range collections {
		if target := p.target(c); target != nil {
			targets = append(targets, target)
		} else {
			p.logger.Warn("unknown collection subscription", zap.String("collection", c))
		}
	}
	return p.start(ctx, targets)
}

// SubscribeMessages starts a feed over one course's chat history.
func (p *Poller) SubscribeMessages(ctx context.Context, courseID string) Feed {
	return p.start(ctx, []func(context.Context) Update{
		func(ctx context.Context) Update {
			msgs, source := p.gateway.Messages(ctx, courseID)
			return Update{Collection: mirror.CollectionMessages, Source: source, Payload: msgs}
		},
	})
}

func (p *Poller) target(collection string) func(context.Context) Update {
	switch collection {
	case mirror.CollectionUsers:
		return func(ctx context.Context) Update {
			users, source := p.gateway.Users(ctx)
			return Update{Collection: collection, Source: source, Payload: users}
		}
	case mirror.CollectionCourses:
		return func(ctx context.Context) Update {
			courses, source := p.gateway.Courses(ctx)
			return Update{Collection: collection, Source: source, Payload: courses}
		}
	case mirror.CollectionTasks:
		return func(ctx context.Context) Update {
			tasks, source := p.gateway.Tasks(ctx)
			return Update{Collection: collection, Source: source, Payload: tasks}
		}
	case mirror.CollectionResults:
		return func(ctx context.Context) Update {
			results, source := p.gateway.Results(ctx)
			return Update{Collection: collection, Source: source, Payload: results}
		}
	case mirror.CollectionRequests:
		return func(ctx context.Context) Update {
			requests, source := p.gateway.Requests(ctx)
			return Update{Collection: collection, Source: source, Payload: requests}
		}
	default:
		return nil
	}
}

type feed struct {
	ch     chan Update
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func (f *feed) Updates() <-chan Update { return f.ch }

func (f *feed) Close() {
	f.once.Do(func() {
		f.cancel()
		f.wg.Wait()
	})
}

func (p *Poller) start(ctx context.Context, targets []func(context.Context) Update) Feed {
	ctx, cancel := context.WithCancel(ctx)
	f := &feed{ch: make(chan Update), cancel: cancel}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer close(f.ch)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.deliver(ctx, f.ch, targets)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.deliver(ctx, f.ch, targets)
			}
		}
	}()
	return f
}

func (p *Poller) deliver(ctx context.Context, ch chan<- Update, targets []func(context.Context) Update) {
	for _, target := range targets {
		update := target(ctx)
		select {
		case <-ctx.Done():
			return
		case ch <- update:
		}
	}
}
