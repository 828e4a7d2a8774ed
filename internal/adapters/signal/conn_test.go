package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Polyglot/internal/core"
)

func TestTrySendOnlyWhileOpen(t *testing.T) {
	c := newWsSignalConn(nil, 2)
	assert.ErrorIs(t, c.TrySend(core.Frame("early")), core.ErrConnClosed)

	c.advance(core.StateOpen)
	require.NoError(t, c.TrySend(core.Frame("a")))
	require.NoError(t, c.TrySend(core.Frame("b")))
	assert.ErrorIs(t, c.TrySend(core.Frame("c")), core.ErrBackpressure)

	c.Close()
	assert.ErrorIs(t, c.TrySend(core.Frame("d")), core.ErrConnClosed)
	assert.Len(t, c.send, 2, "queued frames stay for the write pump to flush")
}

func TestTrySendRefusedOnceWriterIsGone(t *testing.T) {
	c := newWsSignalConn(nil, 2)
	c.advance(core.StateOpen)

	// the write pump exits before Close runs
	c.advance(core.StateClosed)
	assert.ErrorIs(t, c.TrySend(core.Frame("x")), core.ErrConnClosed)
	assert.Empty(t, c.send)
}

func TestStateOnlyMovesForward(t *testing.T) {
	c := newWsSignalConn(nil, 1)
	assert.Equal(t, core.StateConnecting, c.State())

	c.advance(core.StateOpen)
	c.advance(core.StateClosed)
	c.Close()
	c.Close()
	assert.Equal(t, core.StateClosed, c.State())

	c.advance(core.StateOpen)
	assert.Equal(t, core.StateClosed, c.State())
}
