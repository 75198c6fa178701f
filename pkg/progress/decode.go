// Package progress maps an external (numerator, denominator) progress signal
// onto a tiling: it decodes newline-delimited messages from a streaming
// channel, plans a stable randomized tile visitation order, and advances an
// engine that emits per-tile state transition commands.
package progress

import (
	"strconv"
	"strings"

	"github.com/tilemeter/tilemeter/pkg/errors"
)

// EventKind discriminates decoded progress events.
type EventKind int

const (
	// EventDenominator declares or resets the total work units.
	EventDenominator EventKind = iota
	// EventNumerator updates the completed work units.
	EventNumerator
	// EventRestart restarts the current run keeping its denominator.
	// Senders use it to wipe the board before the next denominator is known.
	EventRestart
)

// String returns the lowercase kind name.
func (k EventKind) String() string {
	switch k {
	case EventDenominator:
		return "denominator"
	case EventNumerator:
		return "numerator"
	case EventRestart:
		return "restart"
	}
	return "unknown"
}

// Event is one decoded progress message.
type Event struct {
	Kind  EventKind
	Value int
}

// DecodeLine decodes one line of the progress protocol.
//
// A line of the form "R<n>" declares denominator n, a bare "R" restarts the
// current run, and any other line is a numerator integer. Non-numeric
// payloads, negative numerators, and non-positive denominators are decode
// errors; the caller skips the line and keeps reading.
func DecodeLine(line string) (Event, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Event{}, errors.New(errors.ErrCodeDecode, "empty line")
	}

	if line[0] == 'R' {
		if line == "R" {
			return Event{Kind: EventRestart}, nil
		}
		d, err := strconv.Atoi(line[1:])
		if err != nil {
			return Event{}, errors.New(errors.ErrCodeDecode, "denominator %q is not numeric", line[1:])
		}
		if d <= 0 {
			return Event{}, errors.New(errors.ErrCodeDecode, "denominator %d must be positive", d)
		}
		return Event{Kind: EventDenominator, Value: d}, nil
	}

	n, err := strconv.Atoi(line)
	if err != nil {
		return Event{}, errors.New(errors.ErrCodeDecode, "numerator %q is not numeric", line)
	}
	if n < 0 {
		return Event{}, errors.New(errors.ErrCodeDecode, "numerator %d must not be negative", n)
	}
	return Event{Kind: EventNumerator, Value: n}, nil
}
