package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/core/coretest"
	"github.com/dkeye/Polyglot/internal/domain"
)

func TestClassifyIntentUsesFrameKindOnly(t *testing.T) {
	assert.Equal(t, core.IntentPreview, core.ClassifyIntent(core.FrameBinary))
	assert.Equal(t, core.IntentFinal, core.ClassifyIntent(core.FrameText))
	assert.Equal(t, core.IntentUnknown, core.ClassifyIntent(core.FrameKind(42)))
}

func TestRoomMembership(t *testing.T) {
	room := core.NewRoomService(&domain.Room{ID: "trip"})
	a, _ := coretest.Member("s1", "A", "trip", "es")
	b, _ := coretest.Member("s2", "B", "trip", "fr")

	room.AddMember(a)
	room.AddMember(b)
	room.AddMember(a)
	require.Equal(t, 2, room.MemberCount())

	assert.True(t, room.RemoveMember("s1"))
	assert.False(t, room.RemoveMember("s1"))
	require.Len(t, room.Members(), 1)
	assert.Equal(t, core.SessionID("s2"), room.Members()[0].ID())
}

func TestMembersSnapshotReflectsLanguageChange(t *testing.T) {
	room := core.NewRoomService(&domain.Room{ID: "trip"})
	a, _ := coretest.Member("s1", "A", "trip", "es")
	room.AddMember(a)

	a.SetTargetLang("de")
	a.SetPreviewState(core.PreviewAwaiting)

	snap := room.MembersSnapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, domain.Lang("de"), snap[0].Lang)
	assert.Equal(t, "open", snap[0].State)
	assert.Equal(t, "awaiting_preview", snap[0].Preview)
}
