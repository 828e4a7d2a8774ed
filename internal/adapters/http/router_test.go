package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	router "github.com/dkeye/Polyglot/internal/adapters/http"
	"github.com/dkeye/Polyglot/internal/app"
	"github.com/dkeye/Polyglot/internal/app/orch"
	"github.com/dkeye/Polyglot/internal/config"
	"github.com/dkeye/Polyglot/internal/conversion"
	"github.com/dkeye/Polyglot/internal/conversion/mocks"
	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/core/coretest"
	"github.com/dkeye/Polyglot/internal/domain"
)

type fixture struct {
	engine *gin.Engine
	o      *orch.Orchestrator
	mt     *mocks.MockTranslator
	tts    *mocks.MockSynthesizer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := fixture{
		mt:  mocks.NewMockTranslator(ctrl),
		tts: mocks.NewMockSynthesizer(ctrl),
	}
	f.o = &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Gateway: conversion.NewGateway(mocks.NewMockTranscriber(ctrl), f.mt, f.tts,
			conversion.Options{Timeout: time.Second}),
		Policy: app.DropPolicy{},
	}

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>polyglot</html>"), 0o644))

	cfg := &config.Config{
		Mode:        gin.TestMode,
		StaticPath:  static,
		Secret:      "test-secret",
		SendBuffer:  8,
		InboxSize:   8,
		DefaultRoom: "default",
		DefaultLang: "es",
		Languages:   []string{"en", "es", "fr"},
	}
	f.engine = router.SetupRouter(context.Background(), cfg, f.o)
	return f
}

func (f fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestTranslateText(t *testing.T) {
	f := newFixture(t)
	f.mt.EXPECT().Translate(gomock.Any(), "See you", domain.Lang("fr")).Return("A plus", nil)
	f.tts.EXPECT().Synthesize(gomock.Any(), "A plus").Return([]byte{1}, nil)

	w := f.do(http.MethodPost, "/api/translate-text", `{"text":"See you","targetLang":"fr"}`)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[domain.TranslateResponse](t, w)
	assert.Equal(t, "A plus", got.Translation)
	assert.Equal(t, "AQ==", got.Audio)
}

func TestTranslateTextLanguageFallbacks(t *testing.T) {
	f := newFixture(t)
	f.mt.EXPECT().Translate(gomock.Any(), "Hi", domain.Lang("de")).Return("Hallo", nil)
	f.mt.EXPECT().Translate(gomock.Any(), "Hi", domain.Lang("es")).Return("Hola", nil)
	f.tts.EXPECT().Synthesize(gomock.Any(), gomock.Any()).Return(nil, assert.AnError).Times(2)

	w := f.do(http.MethodPost, "/api/translate-text", `{"text":"Hi","lang":"de"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hallo", decode[domain.TranslateResponse](t, w).Translation)
	assert.NotContains(t, w.Body.String(), "audio")

	w = f.do(http.MethodPost, "/api/translate-text", `{"text":"Hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hola", decode[domain.TranslateResponse](t, w).Translation)
}

func TestTranslateTextErrors(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/translate-text", `{"targetLang":"fr"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/translate-text", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.mt.EXPECT().Translate(gomock.Any(), gomock.Any(), gomock.Any()).Return("", assert.AnError)
	w = f.do(http.MethodPost, "/api/translate-text", `{"text":"Hi"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"stage":"translate"`)
}

func TestRoomsAndMembers(t *testing.T) {
	f := newFixture(t)
	a, _ := coretest.Member("s-a", "A", "trip", "es")
	b, _ := coretest.Member("s-b", "B", "trip", "fr")
	f.o.OnConnect(a, func() {})
	f.o.OnConnect(b, func() {})

	w := f.do(http.MethodGet, "/api/rooms", "")
	require.Equal(t, http.StatusOK, w.Code)
	rooms := decode[struct {
		Rooms []core.RoomInfo `json:"rooms"`
	}](t, w)
	require.Len(t, rooms.Rooms, 1)
	assert.Equal(t, core.RoomInfo{ID: "trip", MemberCount: 2}, rooms.Rooms[0])

	w = f.do(http.MethodGet, "/api/rooms/trip/members", "")
	require.Equal(t, http.StatusOK, w.Code)
	members := decode[struct {
		Members []core.MemberDTO `json:"members"`
	}](t, w)
	require.Len(t, members.Members, 2)
	assert.Equal(t, domain.ClientID("B"), members.Members[1].ClientID)
	assert.Equal(t, domain.Lang("fr"), members.Members[1].Lang)

	w = f.do(http.MethodGet, "/api/rooms/nowhere/members", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, router.HealthResponse{Status: "ok", Rooms: 1, Connections: 2},
		decode[router.HealthResponse](t, w))
}

func TestSetClientLang(t *testing.T) {
	f := newFixture(t)
	a, _ := coretest.Member("s-a", "A", "trip", "es")
	f.o.OnConnect(a, func() {})

	w := f.do(http.MethodPut, "/api/clients/A/lang", `{"lang":"ja"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Lang("ja"), a.TargetLang())

	w = f.do(http.MethodPut, "/api/clients/Z/lang", `{"lang":"ja"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodPut, "/api/clients/A/lang", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLanguagesStaticAndClientCookie(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/languages", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"languages":["en","es","fr"],"default":"es"}`, w.Body.String())

	w = f.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "polyglot")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "PolyglotSessions=")
}
