package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spachava753/imsgwatch/macos/messages"
)

// DefaultInterval is the wait between poll cycles.
const DefaultInterval = 2 * time.Second

// Source is the data source a Poller reads from. [messages.Source]
// implements it.
type Source interface {
	LatestRowID(ctx context.Context) (int64, error)
	RowsSince(ctx context.Context, after int64) ([]messages.Row, error)
}

// Sink receives messages in ROWID order.
type Sink interface {
	Emit(msg messages.Message) error
}

// Poller reports rows that appear in a Source after it was initialized.
// It owns the cursor: the highest ROWID observed so far.
type Poller struct {
	source   Source
	sink     Sink
	interval time.Duration
	logger   *slog.Logger

	start       int64
	hasStart    bool
	cursor      int64
	initialized bool
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the wait between poll cycles.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		p.interval = d
	}
}

// WithLogger sets the logger used for per-cycle diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

// WithStartRowID makes Init use rowID as the cursor instead of querying the
// latest ROWID, so rows after it are reported on the first poll.
func WithStartRowID(rowID int64) Option {
	return func(p *Poller) {
		p.start = rowID
		p.hasStart = true
	}
}

// NewPoller returns a Poller reading from source and writing to sink.
func NewPoller(source Source, sink Sink, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		sink:     sink,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Init sets the cursor to the latest ROWID in the source (0 when empty), or
// to the explicit start ROWID when one was configured.
func (p *Poller) Init(ctx context.Context) error {
	if p.hasStart {
		p.cursor = p.start
		p.initialized = true
		return nil
	}
	latest, err := p.source.LatestRowID(ctx)
	if err != nil {
		return fmt.Errorf("watch: init cursor: %w", err)
	}
	p.cursor = latest
	p.initialized = true
	return nil
}

// Cursor returns the highest ROWID observed so far.
func (p *Poller) Cursor() int64 {
	return p.cursor
}

// Interval returns the wait between poll cycles.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Poll runs one cycle: it reads rows after the cursor, emits the ones with
// text and advances the cursor past every row read, skipped or not. It
// returns the number of messages emitted.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	if !p.initialized {
		return 0, errors.New("watch: poller not initialized")
	}

	rows, err := p.source.RowsSince(ctx, p.cursor)
	if err != nil {
		return 0, fmt.Errorf("watch: poll: %w", err)
	}

	from := p.cursor
	emitted := 0
	for _, row := range rows {
		msg, ok := row.Message()
		if ok {
			if err := p.sink.Emit(msg); err != nil {
				return emitted, fmt.Errorf("watch: emit rowid %d: %w", row.RowID, err)
			}
			emitted++
		} else {
			p.logger.Debug("skipping row without text", "rowid", row.RowID)
		}
		p.cursor = max(p.cursor, row.RowID)
	}

	p.logger.Debug("poll complete", "from", from, "cursor", p.cursor, "rows", len(rows), "emitted", emitted)
	return emitted, nil
}

// Run polls until ctx is cancelled, waiting the configured interval after
// each cycle. Cancellation is a clean stop and returns nil; any read or emit
// failure is returned.
func (p *Poller) Run(ctx context.Context) error {
	if !p.initialized {
		if err := p.Init(ctx); err != nil {
			return err
		}
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		if _, err := p.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(p.interval):
		}
	}
}
