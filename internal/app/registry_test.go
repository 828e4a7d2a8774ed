package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Polyglot/internal/app"
	"github.com/dkeye/Polyglot/internal/core/coretest"
)

func TestRegistryBindLookupUnbind(t *testing.T) {
	reg := app.NewRegistry()
	a1, _ := coretest.Member("s1", "A", "trip", "es")
	a2, _ := coretest.Member("s2", "A", "trip", "es")
	b, _ := coretest.Member("s3", "B", "trip", "fr")

	ctx, cancel := context.WithCancel(context.Background())
	reg.BindSession(a1, cancel)
	reg.BindSession(a2, nil)
	reg.BindSession(b, nil)

	assert.Equal(t, 3, reg.Count())
	assert.Len(t, reg.SessionsOfClient("A"), 2)

	got, ok := reg.GetSession("s3")
	require.True(t, ok)
	assert.Equal(t, b, got)

	assert.True(t, reg.Cancel("s1"))
	assert.Error(t, ctx.Err())
	assert.False(t, reg.Cancel("missing"))

	assert.True(t, reg.Unbind("s1"))
	assert.False(t, reg.Unbind("s1"))
	assert.Equal(t, 2, reg.Count())
}

func TestRegistryCancelAll(t *testing.T) {
	reg := app.NewRegistry()
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	a, _ := coretest.Member("s1", "A", "trip", "es")
	b, _ := coretest.Member("s2", "B", "trip", "es")
	reg.BindSession(a, cancel1)
	reg.BindSession(b, cancel2)

	reg.CancelAll()

	assert.Error(t, ctx1.Err())
	assert.Error(t, ctx2.Err())
}
