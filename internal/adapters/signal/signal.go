package signal

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Polyglot/internal/app/orch"
	"github.com/dkeye/Polyglot/internal/config"
	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/domain"
)

// ClientIDKey is the gin context key holding the cookie-backed client id.
const ClientIDKey = "client_id"

type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendBuffer int
	InboxSize  int

	DefaultRoom domain.RoomID
	DefaultLang domain.Lang
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ReadLimit:   cfg.ReadLimit,
		PingPeriod:  cfg.PingPeriod,
		PongWait:    cfg.PongWait,
		WriteWait:   cfg.WriteWait,
		SendBuffer:  cfg.SendBuffer,
		InboxSize:   cfg.InboxSize,
		DefaultRoom: domain.RoomID(cfg.DefaultRoom),
		DefaultLang: domain.Lang(cfg.DefaultLang),
	}
}

type SignalWSController struct {
	Orch     *orch.Orchestrator
	opts     Options
	upgrader websocket.Upgrader
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	return &SignalWSController{
		Orch: o,
		opts: opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type wsSignalConn struct {
	conn  *websocket.Conn
	send  chan core.Frame
	state atomic.Int32

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *wsSignalConn {
	c := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
	c.state.Store(int32(core.StateConnecting))
	return c
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed || c.State() != core.StateOpen {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) State() core.ConnState { return core.ConnState(c.state.Load()) }

// advance moves the state forward only; a closed connection stays closed.
func (c *wsSignalConn) advance(to core.ConnState) {
	for {
		cur := c.state.Load()
		if cur >= int32(to) || c.state.CompareAndSwap(cur, int32(to)) {
			return
		}
	}
}

// Close stops accepting frames; the write pump flushes what is queued, sends
// a close frame and tears the socket down.
func (c *wsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.advance(core.StateClosing)
	close(c.send)
}

// HandleSignal upgrades the request and runs the connection until either side
// closes it or ctx is cancelled. ctx must outlive the request.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	room, err := domain.ParseRoomID(c.Query("room"), ctl.opts.DefaultRoom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lang, err := domain.ParseLang(c.Query("lang"), ctl.opts.DefaultLang)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	clientID, err := domain.ParseClientID(c.Query("clientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if clientID == "" {
		clientID = domain.ClientID(c.GetString(ClientIDKey))
	}
	if clientID == "" {
		clientID = domain.NewClientID()
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, pendingCookies(c))
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	sid := core.SessionID(uuid.NewString())
	logger := log.With().
		Str("module", "signal").
		Str("sid", string(sid)).
		Str("client_id", string(clientID)).
		Str("room", string(room)).
		Logger()
	logger.Info().Str("lang", string(lang)).Msg("new WS connection")

	conn := newWsSignalConn(ws, ctl.opts.SendBuffer)
	sess := core.NewMemberSession(sid, domain.NewMember(clientID, room), lang, conn)

	ctx, cancel := context.WithCancel(ctx)
	ctx = logger.WithContext(ctx)

	conn.advance(core.StateOpen)
	ctl.Orch.OnConnect(sess, cancel)

	inbox := make(chan inbound, ctl.opts.InboxSize)
	go ctl.writePump(ctx, conn)
	go ctl.dispatchPump(ctx, sess, inbox)
	go ctl.readPump(ctx, sess, conn, inbox)
}

// pendingCookies carries Set-Cookie headers written by the session middleware
// into the handshake response, which the upgrader builds on its own.
func pendingCookies(c *gin.Context) http.Header {
	cookies := c.Writer.Header().Values("Set-Cookie")
	if len(cookies) == 0 {
		return nil
	}
	return http.Header{"Set-Cookie": cookies}
}
