package settings

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

const DefaultCheckInterval = time.Minute

type Source interface {
	Get(ctx context.Context) (domain.OrderSettings, error)
}

// Watcher periodically re-reads the order settings and caches whether the
// ordering deadline has passed. Run is the only writer.
type Watcher struct {
	source   Source
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	settings atomic.Pointer[domain.OrderSettings]
	closed   atomic.Bool
}

func NewWatcher(source Source, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	w := &Watcher{
		source:   source,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
	w.settings.Store(&domain.OrderSettings{})
	return w
}

// Run refreshes immediately and then on every tick until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *Watcher) refresh(ctx context.Context) {
	s, err := w.source.Get(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("failed to refresh order settings", "error", err)
		}
		return
	}

	closed := s.DeadlinePassed(w.now())
	if closed != w.closed.Load() {
		w.logger.Info("ordering state changed", "closed", closed)
	}

	w.settings.Store(&s)
	w.closed.Store(closed)
}

// IsClosed reports whether the deadline had passed at the last refresh.
func (w *Watcher) IsClosed() bool {
	return w.closed.Load()
}

func (w *Watcher) Settings() domain.OrderSettings {
	return *w.settings.Load()
}
