package core

import "errors"

var (
	ErrConnClosed   = errors.New("connection closed")
	ErrBackpressure = errors.New("backpressure")
)

// Frame is a raw outbound payload.
type Frame []byte

// FrameKind is the transport-level type of an inbound frame.
type FrameKind int

const (
	FrameText FrameKind = iota
	FrameBinary
)

type Intent int

const (
	IntentUnknown Intent = iota
	IntentPreview
	IntentFinal
)

func (i Intent) String() string {
	switch i {
	case IntentPreview:
		return "preview"
	case IntentFinal:
		return "final"
	default:
		return "unknown"
	}
}

// ClassifyIntent looks only at the frame kind, never at the payload.
func ClassifyIntent(kind FrameKind) Intent {
	switch kind {
	case FrameBinary:
		return IntentPreview
	case FrameText:
		return IntentFinal
	default:
		return IntentUnknown
	}
}

type ConnState int32

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosing
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend never blocks: a frame for a full or closed connection is dropped.
	TrySend(Frame) error
	State() ConnState
	Close()
}
