package watch

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nalgeon/be"

	"github.com/spachava753/imsgwatch/macos/messages"
)

type fakeSource struct {
	rows      []messages.Row
	latestErr error
	rowsErr   error
	queries   []int64
}

func (f *fakeSource) LatestRowID(context.Context) (int64, error) {
	if f.latestErr != nil {
		return 0, f.latestErr
	}
	var latest int64
	for _, row := range f.rows {
		latest = max(latest, row.RowID)
	}
	return latest, nil
}

func (f *fakeSource) RowsSince(_ context.Context, after int64) ([]messages.Row, error) {
	f.queries = append(f.queries, after)
	if f.rowsErr != nil {
		return nil, f.rowsErr
	}
	var result []messages.Row
	for _, row := range f.rows {
		if row.RowID > after {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *fakeSource) add(rowID int64, text string) {
	row := messages.Row{RowID: rowID}
	if text != "" {
		row.Text = sql.NullString{String: text, Valid: true}
	}
	f.rows = append(f.rows, row)
}

type recordingSink struct {
	got    []messages.Message
	err    error
	onEmit func()
}

func (s *recordingSink) Emit(msg messages.Message) error {
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, msg)
	if s.onEmit != nil {
		s.onEmit()
	}
	return nil
}

func (s *recordingSink) rowIDs() []int64 {
	ids := make([]int64, 0, len(s.got))
	for _, msg := range s.got {
		ids = append(ids, msg.RowID)
	}
	return ids
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPoller(src Source, sink Sink, opts ...Option) *Poller {
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewPoller(src, sink, opts...)
}

func TestPollerInitEmptySource(t *testing.T) {
	p := newTestPoller(&fakeSource{}, &recordingSink{})
	be.Err(t, p.Init(context.Background()), nil)
	be.Equal(t, p.Cursor(), int64(0))
}

func TestPollerInitSkipsExistingRows(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	src.add(1, "old")
	src.add(2, "older")
	sink := &recordingSink{}

	p := newTestPoller(src, sink)
	be.Err(t, p.Init(ctx), nil)
	be.Equal(t, p.Cursor(), int64(2))

	n, err := p.Poll(ctx)
	be.Err(t, err, nil)
	be.Equal(t, n, 0)
	be.Equal(t, len(sink.got), 0)
}

func TestPollerEmitsTextRowsInOrderExactlyOnce(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	sink := &recordingSink{}
	p := newTestPoller(src, sink)
	be.Err(t, p.Init(ctx), nil)

	src.add(1, "one")
	src.add(2, "")
	src.add(3, "three")
	n, err := p.Poll(ctx)
	be.Err(t, err, nil)
	be.Equal(t, n, 2)

	n, err = p.Poll(ctx)
	be.Err(t, err, nil)
	be.Equal(t, n, 0)

	src.add(4, "four")
	src.add(5, "")
	src.add(6, "")
	src.add(7, "seven")
	n, err = p.Poll(ctx)
	be.Err(t, err, nil)
	be.Equal(t, n, 2)

	be.Equal(t, sink.rowIDs(), []int64{1, 3, 4, 7})
	be.Equal(t, sink.got[0].Text, "one")
	be.Equal(t, sink.got[3].Text, "seven")
	be.Equal(t, src.queries, []int64{0, 3, 3})
}

func TestPollerCursorAdvancesPastSkippedRows(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	sink := &recordingSink{}
	p := newTestPoller(src, sink)
	be.Err(t, p.Init(ctx), nil)

	src.add(1, "hi")
	src.add(2, "")
	_, err := p.Poll(ctx)
	be.Err(t, err, nil)
	be.Equal(t, p.Cursor(), int64(2))
	be.Equal(t, sink.rowIDs(), []int64{1})

	src.add(3, "")
	_, err = p.Poll(ctx)
	be.Err(t, err, nil)
	be.Equal(t, p.Cursor(), int64(3))
	be.Equal(t, len(sink.got), 1)
}

func TestPollerCursorIsRunningMax(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	sink := &recordingSink{}
	p := newTestPoller(src, sink, WithStartRowID(0))
	be.Err(t, p.Init(ctx), nil)

	src.add(5, "five")
	src.add(3, "three")
	_, err := p.Poll(ctx)
	be.Err(t, err, nil)
	be.Equal(t, p.Cursor(), int64(5))
}

func TestPollerStartRowID(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{latestErr: errors.New("must not be called")}
	src.add(10, "ten")
	src.add(11, "eleven")
	sink := &recordingSink{}

	p := newTestPoller(src, sink, WithStartRowID(10))
	be.Err(t, p.Init(ctx), nil)
	be.Equal(t, p.Cursor(), int64(10))

	_, err := p.Poll(ctx)
	be.Err(t, err, nil)
	be.Equal(t, sink.rowIDs(), []int64{11})
}

func TestPollerErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	p := newTestPoller(&fakeSource{latestErr: boom}, &recordingSink{})
	be.Err(t, p.Init(ctx), boom)

	p = newTestPoller(&fakeSource{}, &recordingSink{})
	_, err := p.Poll(ctx)
	be.Err(t, err, "not initialized")

	src := &fakeSource{}
	p = newTestPoller(src, &recordingSink{})
	be.Err(t, p.Init(ctx), nil)
	src.rowsErr = boom
	_, err = p.Poll(ctx)
	be.Err(t, err, boom)

	src = &fakeSource{}
	p = newTestPoller(src, &recordingSink{err: boom})
	be.Err(t, p.Init(ctx), nil)
	src.add(1, "hi")
	_, err = p.Poll(ctx)
	be.Err(t, err, boom)
	be.Equal(t, p.Cursor(), int64(0))
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &fakeSource{}
	sink := &recordingSink{onEmit: cancel}
	p := newTestPoller(src, sink, WithStartRowID(0), WithInterval(time.Hour))
	src.add(1, "hi")
	src.add(2, "there")

	be.Err(t, p.Run(ctx), nil)
	be.Equal(t, sink.rowIDs(), []int64{1, 2})
	be.Equal(t, p.Cursor(), int64(2))
}

func TestPollerRunPollsRepeatedly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &fakeSource{}
	sink := &recordingSink{}
	sink.onEmit = func() {
		if len(sink.got) == 3 {
			cancel()
			return
		}
		src.add(int64(len(sink.got)+1), "next")
	}
	src.add(1, "first")

	p := newTestPoller(src, sink, WithStartRowID(0), WithInterval(time.Millisecond))
	be.Err(t, p.Run(ctx), nil)
	be.Equal(t, sink.rowIDs(), []int64{1, 2, 3})
}

func TestPollerRunReturnsReadError(t *testing.T) {
	boom := errors.New("disk gone")
	p := newTestPoller(&fakeSource{rowsErr: boom}, &recordingSink{}, WithInterval(time.Millisecond))
	be.Err(t, p.Run(context.Background()), boom)
}

func TestPollerRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{}
	p := newTestPoller(src, &recordingSink{}, WithStartRowID(0))
	be.Err(t, p.Run(ctx), nil)
	be.Equal(t, len(src.queries), 0)
}
