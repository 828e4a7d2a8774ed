package core

import "github.com/dkeye/Polyglot/internal/domain"

type SessionID string

// PreviewState mirrors where a connection is in the record/preview/send cycle.
type PreviewState int32

const (
	PreviewIdle PreviewState = iota
	PreviewAwaiting
	PreviewReady
)

func (s PreviewState) String() string {
	switch s {
	case PreviewIdle:
		return "idle"
	case PreviewAwaiting:
		return "awaiting_preview"
	case PreviewReady:
		return "previewing"
	default:
		return "unknown"
	}
}

// MemberSession binds domain.Member and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	ID() SessionID
	Meta() *domain.Member
	Signal() SignalConnection

	TargetLang() domain.Lang
	SetTargetLang(domain.Lang)

	PreviewState() PreviewState
	SetPreviewState(PreviewState)
}
