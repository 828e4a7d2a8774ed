// Package orch routes inbound frames to the conversion gateway or to the
// room fan-out, and owns the connect/disconnect edges of a connection.
package orch

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Polyglot/internal/app"
	"github.com/dkeye/Polyglot/internal/conversion"
	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/domain"
)

// Converter is the slice of conversion.Gateway the orchestrator needs.
type Converter interface {
	PreviewResult(ctx context.Context, audio []byte, lang domain.Lang) (conversion.Result, error)
	Retranslate(ctx context.Context, text string, lang domain.Lang) (conversion.Result, error)
}

type Limiter interface {
	Allow(id domain.ClientID) bool
}

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomRegistry
	Gateway  Converter
	Policy   app.Policy
	// Limiter is optional; nil means previews are never throttled.
	Limiter Limiter
}

// OnConnect registers an open connection and places it in its room.
func (o *Orchestrator) OnConnect(sess core.MemberSession, cancel context.CancelFunc) {
	o.Registry.BindSession(sess, cancel)
	o.Rooms.Join(sess.Meta().Room, sess)
	sessionLogger(sess).Info().Str("lang", string(sess.TargetLang())).Msg("connected")
}

// OnDisconnect is safe to call more than once for the same sid.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	o.Rooms.Leave(sess.Meta().Room, sid)
	o.Registry.Cancel(sid)
	if o.Registry.Unbind(sid) {
		sessionLogger(sess).Info().Msg("disconnected")
	}
}

// OnFrame handles one inbound frame. Calls for the same connection must be
// sequential; calls for different connections may run in parallel.
func (o *Orchestrator) OnFrame(ctx context.Context, sess core.MemberSession, kind core.FrameKind, data []byte) {
	switch intent := core.ClassifyIntent(kind); intent {
	case core.IntentPreview:
		o.handlePreview(ctx, sess, data)
	case core.IntentFinal:
		o.handleFinal(ctx, sess, data)
	default:
		sessionLogger(sess).Warn().Int("kind", int(kind)).Msg("frame with unknown intent ignored")
	}
}

// Overloaded tells the sender a frame was refused before dispatch so the
// client can retry it.
func (o *Orchestrator) Overloaded(sess core.MemberSession, kind core.FrameKind) {
	sessionLogger(sess).Warn().Str("intent", core.ClassifyIntent(kind).String()).Msg("frame refused, connection busy")
	o.reply(sess, domain.ErrorEnvelope(sess.Meta().ClientID, domain.CodeBusy, ""))
}

// reply sends env to sess alone. A closed or saturated connection loses it.
func (o *Orchestrator) reply(sess core.MemberSession, env domain.Envelope) {
	b, err := json.Marshal(env)
	if err != nil {
		sessionLogger(sess).Error().Err(err).Msg("marshal reply")
		return
	}
	sig := sess.Signal()
	if sig == nil {
		return
	}
	if err := sig.TrySend(b); err != nil {
		sessionLogger(sess).Debug().Err(err).Msg("reply dropped")
	}
}

func sessionLogger(sess core.MemberSession) *zerolog.Logger {
	l := log.With().
		Str("module", "orch").
		Str("sid", string(sess.ID())).
		Str("client_id", string(sess.Meta().ClientID)).
		Str("room", string(sess.Meta().Room)).
		Logger()
	return &l
}
