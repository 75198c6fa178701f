package progress

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/tilemeter/tilemeter/pkg/errors"
	"github.com/tilemeter/tilemeter/pkg/observability"
)

// Channel reads newline-delimited progress messages from a streaming source
// and turns them into a lazy, unbounded stream of decoded events.
//
// Malformed lines are reported through the channel hooks and skipped; they
// never terminate the stream. EOF closes the event stream: terminal for the
// progress loop, but the caller's display keeps its last state.
type Channel struct {
	path   string
	src    io.ReadCloser
	events chan Event
}

// Open acquires the named pipe at path and starts decoding.
//
// Opening a FIFO for reading blocks until a writer connects. That wait
// happens here, before any render loop starts, and is the one place the
// process is allowed to stall. Cancelling ctx during the wait returns a
// CANCELLED error; the dangling open is closed as soon as a writer ever
// connects.
func Open(ctx context.Context, path string) (*Channel, error) {
	type result struct {
		f   *os.File
		err error
	}
	opened := make(chan result, 1)
	go func() {
		f, err := os.Open(path)
		opened <- result{f, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-opened; r.f != nil {
				r.f.Close()
			}
		}()
		return nil, errors.Wrap(errors.ErrCodeCancelled, ctx.Err(), "waiting for writer on %s", path)
	case r := <-opened:
		if r.err != nil {
			if os.IsNotExist(r.err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, r.err, "progress channel %s", path)
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, r.err, "open progress channel %s", path)
		}
		return NewChannel(ctx, r.f, path), nil
	}
}

// NewChannel decodes progress messages from an already-open source. The
// returned channel owns src and closes it when the stream ends. Tests feed
// it plain readers instead of a FIFO.
func NewChannel(ctx context.Context, src io.ReadCloser, path string) *Channel {
	c := &Channel{
		path:   path,
		src:    src,
		events: make(chan Event),
	}
	observability.Channel().OnOpen(ctx, path)
	go c.readLoop(ctx)
	return c
}

// Events returns the decoded event stream. The channel is closed when the
// source reaches EOF or ctx is cancelled; it never closes on bad input.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Close releases the underlying source. The event stream drains and closes
// shortly after.
func (c *Channel) Close() error {
	return c.src.Close()
}

// readLoop scans lines, decodes them, and forwards events until EOF.
//
// The loop validates numerators against the last seen denominator, so a
// numerator exceeding the declared total is skipped as a decode error here
// rather than being silently clamped downstream.
func (c *Channel) readLoop(ctx context.Context) {
	defer close(c.events)
	defer c.src.Close()

	denom := 0
	scanner := bufio.NewScanner(c.src)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}

		ev, err := DecodeLine(line)
		if err != nil {
			observability.Channel().OnDecodeError(ctx, line, err)
			continue
		}
		if ev.Kind == EventNumerator && denom > 0 && ev.Value > denom {
			err := errors.New(errors.ErrCodeDecode,
				"numerator %d exceeds denominator %d", ev.Value, denom)
			observability.Channel().OnDecodeError(ctx, line, err)
			continue
		}
		if ev.Kind == EventDenominator {
			denom = ev.Value
		}

		observability.Channel().OnEvent(ctx, ev.Kind.String(), ev.Value)
		select {
		case c.events <- ev:
		case <-ctx.Done():
			return
		}
	}

	// A scanner error is a failed source, not a clean EOF; either way the
	// stream is over, but the hook gets to tell them apart.
	var closeErr error
	if err := scanner.Err(); err != nil {
		closeErr = errors.Wrap(errors.ErrCodeChannelClosed, err, "progress channel %s", c.path)
	}
	observability.Channel().OnClosed(ctx, c.path, closeErr)
}
