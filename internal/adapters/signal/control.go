package signal

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultPongWait  = 60 * time.Second
	defaultWriteWait = 10 * time.Second
)

func (ctl *SignalWSController) pongWait() time.Duration {
	if ctl.opts.PongWait > 0 {
		return ctl.opts.PongWait
	}
	return defaultPongWait
}

func (ctl *SignalWSController) writeWait() time.Duration {
	if ctl.opts.WriteWait > 0 {
		return ctl.opts.WriteWait
	}
	return defaultWriteWait
}

// startKeepalive ticks at the ping period, which must stay below the peer's
// pong wait.
func (ctl *SignalWSController) startKeepalive() *time.Ticker {
	period := ctl.opts.PingPeriod
	if period <= 0 {
		period = ctl.pongWait() * 9 / 10
	}
	return time.NewTicker(period)
}

// armReader applies the size limit and extends the read deadline on every pong.
func (ctl *SignalWSController) armReader(c *wsSignalConn) error {
	if ctl.opts.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.opts.ReadLimit)
	}
	c.conn.SetPongHandler(func(string) error {
		return ctl.extendReadDeadline(c)
	})
	return ctl.extendReadDeadline(c)
}

func (ctl *SignalWSController) extendReadDeadline(c *wsSignalConn) error {
	return c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait()))
}

func (ctl *SignalWSController) write(c *wsSignalConn, messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.writeWait())); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

func (ctl *SignalWSController) writeClose(c *wsSignalConn) {
	_ = ctl.write(c, websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
