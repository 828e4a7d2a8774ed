package app

import (
	"errors"

	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a recipient that could not take a frame.
type Policy interface {
	OnBackPressure(room domain.RoomID, member core.MemberSession, err error) BackpressureAction
}

// DropPolicy skips the slow recipient for this frame only.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.RoomID, core.MemberSession, error) BackpressureAction {
	return DropFrame
}

// KickPolicy disconnects a recipient whose send buffer is full.
// Frames refused because the socket is already going away are just dropped.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(_ domain.RoomID, _ core.MemberSession, err error) BackpressureAction {
	if errors.Is(err, core.ErrBackpressure) {
		return KickMember
	}
	return DropFrame
}

// PolicyFor maps the config value to a policy; unknown names fall back to drop.
func PolicyFor(name string) Policy {
	if name == "kick" {
		return KickPolicy{}
	}
	return DropPolicy{}
}
