// Package coretest provides in-memory connections for tests of packages that
// fan out to core.MemberSession values.
package coretest

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/domain"
)

// Signal records every frame it accepts. A positive Capacity makes TrySend
// report backpressure once that many frames are held.
type Signal struct {
	Capacity int

	mu      sync.Mutex
	frames  []core.Frame
	atClose int
	state   atomic.Int32
	closes  atomic.Int32
}

func NewSignal() *Signal {
	s := &Signal{}
	s.state.Store(int32(core.StateOpen))
	return s
}

// TrySend checks the state under the same lock Close takes, so no frame is
// accepted once Close has returned.
func (s *Signal) TrySend(f core.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State() != core.StateOpen {
		return core.ErrConnClosed
	}
	if s.Capacity > 0 && len(s.frames) >= s.Capacity {
		return core.ErrBackpressure
	}
	s.frames = append(s.frames, append(core.Frame(nil), f...))
	return nil
}

func (s *Signal) State() core.ConnState { return core.ConnState(s.state.Load()) }

func (s *Signal) SetState(st core.ConnState) { s.state.Store(int32(st)) }

func (s *Signal) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closes.Add(1) == 1 {
		s.atClose = len(s.frames)
	}
	s.state.Store(int32(core.StateClosed))
}

func (s *Signal) Closed() int { return int(s.closes.Load()) }

// FramesAtClose is how many frames had been accepted when Close first ran.
func (s *Signal) FramesAtClose() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.atClose
}

func (s *Signal) Frames() []core.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Frame(nil), s.frames...)
}

// Envelopes decodes every recorded frame. Frames that are not envelopes panic.
func (s *Signal) Envelopes() []domain.Envelope {
	frames := s.Frames()
	out := make([]domain.Envelope, 0, len(frames))
	for _, f := range frames {
		var env domain.Envelope
		if err := json.Unmarshal(f, &env); err != nil {
			panic(err)
		}
		out = append(out, env)
	}
	return out
}

// Member builds an open session with a recording signal.
func Member(sid core.SessionID, client domain.ClientID, room domain.RoomID, lang domain.Lang) (core.MemberSession, *Signal) {
	sig := NewSignal()
	return core.NewMemberSession(sid, domain.NewMember(client, room), lang, sig), sig
}
