package orch

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Polyglot/internal/app"
	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/domain"
)

func (o *Orchestrator) handleFinal(_ context.Context, sess core.MemberSession, data []byte) {
	logger := sessionLogger(sess)

	msg, err := domain.ParseFinal(data)
	if err != nil {
		logger.Warn().Err(err).Int("bytes", len(data)).Msg("malformed final rejected")
		o.reply(sess, domain.ErrorEnvelope(sess.Meta().ClientID, domain.CodeBadPayload, ""))
		return
	}
	if msg.ClientID != sess.Meta().ClientID {
		logger.Debug().Str("sender", string(msg.ClientID)).Msg("final sender differs from connection client")
	}

	res := o.Broadcast(sess.Meta().Room, msg)
	sess.SetPreviewState(core.PreviewIdle)
	logger.Info().
		Int("sent", res.SendTo).
		Int("skipped", res.Skipped).
		Int("dropped", len(res.Dropped)).
		Msg("final delivered")
}

// Broadcast delivers one copy of msg to every open member of room, tagging
// each copy with the recipient's speaker role. It never fails as a whole:
// a recipient that cannot take the frame is handed to the policy.
func (o *Orchestrator) Broadcast(room domain.RoomID, msg domain.FinalMessage) core.PublishResult {
	var res core.PublishResult
	frames := make(map[domain.SpeakerRole]core.Frame, 2)

	for _, m := range o.Rooms.MembersOf(room) {
		sig := m.Signal()
		if sig == nil || sig.State() != core.StateOpen {
			res.Skipped++
			continue
		}
		recipient := m.Meta().ClientID
		role := domain.RoleFor(msg.ClientID, recipient)
		frame, ok := frames[role]
		if !ok {
			b, err := json.Marshal(domain.FinalEnvelope(msg, recipient))
			if err != nil {
				log.Error().Err(err).Str("module", "orch").Str("room", string(room)).Msg("marshal final")
				return res
			}
			frame = b
			frames[role] = frame
		}
		if err := sig.TrySend(frame); err != nil {
			if errors.Is(err, core.ErrConnClosed) {
				// torn down after the snapshot was taken
				res.Skipped++
				continue
			}
			res.Dropped = append(res.Dropped, m)
			o.onSendFailure(room, m, err)
			continue
		}
		res.SendTo++
	}
	return res
}

func (o *Orchestrator) onSendFailure(room domain.RoomID, m core.MemberSession, err error) {
	log.Warn().
		Err(err).
		Str("module", "orch").
		Str("room", string(room)).
		Str("sid", string(m.ID())).
		Str("client_id", string(m.Meta().ClientID)).
		Msg("delivery failed")
	if o.Policy == nil {
		return
	}
	switch o.Policy.OnBackPressure(room, m, err) {
	case app.KickMember:
		o.Kick(m.ID())
	case app.DropFrame, app.NoAction:
	}
}
