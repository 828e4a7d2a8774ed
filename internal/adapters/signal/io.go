package signal

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Polyglot/internal/core"
)

type inbound struct {
	kind core.FrameKind
	data []byte
}

func (ctl *SignalWSController) writePump(ctx context.Context, c *wsSignalConn) {
	logger := log.Ctx(ctx)
	stop := ctl.startKeepalive()
	defer func() {
		stop.Stop()
		_ = c.conn.Close()
		c.advance(core.StateClosed)
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("writePump ctx done")
			ctl.writeClose(c)
			return
		case data, ok := <-c.send:
			if !ok {
				logger.Debug().Msg("writePump channel closed")
				ctl.writeClose(c)
				return
			}
			if err := ctl.write(c, websocket.TextMessage, data); err != nil {
				logger.Warn().Err(err).Msg("writePump write error")
				return
			}
		case <-stop.C:
			if err := ctl.write(c, websocket.PingMessage, nil); err != nil {
				logger.Warn().Err(err).Msg("writePump ping error")
				return
			}
		}
	}
}

// readPump owns the connection's lifetime: when it returns, the socket no
// longer accepts frames and the member has left its room, in that order.
func (ctl *SignalWSController) readPump(ctx context.Context, sess core.MemberSession, c *wsSignalConn, inbox chan<- inbound) {
	logger := log.Ctx(ctx)
	defer func() {
		close(inbox)
		c.Close()
		ctl.Orch.OnDisconnect(sess.ID())
		logger.Info().Msg("readPump closing")
	}()

	if err := ctl.armReader(c); err != nil {
		logger.Error().Err(err).Msg("readPump set deadline")
		return
	}

	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.Warn().Err(err).Msg("readPump read error")
			} else {
				logger.Debug().Err(err).Msg("readPump done")
			}
			return
		}

		var kind core.FrameKind
		switch mt {
		case websocket.BinaryMessage:
			kind = core.FrameBinary
		case websocket.TextMessage:
			kind = core.FrameText
		default:
			continue
		}

		in := inbound{kind: kind, data: data}
		select {
		case inbox <- in:
			continue
		default:
		}

		// Finals are cheap to dispatch, so they wait for room in the inbox
		// rather than being lost. Previews are refused with a busy reply.
		if kind == core.FrameBinary {
			logger.Warn().Int("bytes", len(data)).Msg("inbox full, preview refused")
			ctl.Orch.Overloaded(sess, kind)
			continue
		}
		select {
		case inbox <- in:
		case <-ctx.Done():
			return
		}
		// Pongs are not processed while blocked.
		if err := ctl.extendReadDeadline(c); err != nil {
			logger.Error().Err(err).Msg("readPump set deadline")
			return
		}
	}
}

// dispatchPump processes one frame at a time so replies keep the order of
// the frames that caused them. It drains the inbox after the socket closes,
// so a final that was already accepted still reaches the room.
func (ctl *SignalWSController) dispatchPump(ctx context.Context, sess core.MemberSession, inbox <-chan inbound) {
	for in := range inbox {
		ctl.Orch.OnFrame(ctx, sess, in.kind, in.data)
	}
	log.Ctx(ctx).Debug().Msg("dispatchPump done")
}
