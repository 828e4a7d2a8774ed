package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleForIsRelativeToRecipient(t *testing.T) {
	assert.Equal(t, SpeakerSelf, RoleFor("A", "A"))
	assert.Equal(t, SpeakerOther, RoleFor("A", "B"))
}

func TestParseFinal(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"original":"Hello","translation":"Hola","clientId":"A"}`, false},
		{"valid with audio", `{"original":"Hello","translation":"Hola","clientId":"A","audio":"aGk="}`, false},
		{"not json", `hello`, true},
		{"missing clientId", `{"original":"Hello","translation":"Hola"}`, true},
		{"missing translation", `{"original":"Hello","clientId":"A"}`, true},
		{"empty original", `{"original":"","translation":"Hola","clientId":"A"}`, true},
		{"audio not base64", `{"original":"Hello","translation":"Hola","clientId":"A","audio":"%%%"}`, true},
		{"clientId too long", `{"original":"Hello","translation":"Hola","clientId":"` + strings.Repeat("x", 65) + `"}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := ParseFinal([]byte(tc.payload))
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrBadPayload))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ClientID("A"), msg.ClientID)
		})
	}
}

func TestFinalEnvelopeCarriesSenderAndPerRecipientRole(t *testing.T) {
	msg := FinalMessage{Original: "Hello", Translation: "Hola", ClientID: "A"}

	toA, err := json.Marshal(FinalEnvelope(msg, "A"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"speaker":"self","original":"Hello","translation":"Hola","clientId":"A"}`, string(toA))

	toB, err := json.Marshal(FinalEnvelope(msg, "B"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"speaker":"other","original":"Hello","translation":"Hola","clientId":"A"}`, string(toB))
}

func TestPreviewEnvelopeOmitsMissingAudio(t *testing.T) {
	b, err := json.Marshal(PreviewEnvelope("A", "Hello", "Hola", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"speaker":"self","original":"Hello","translation":"Hola","clientId":"A"}`, string(b))

	b, err = json.Marshal(PreviewEnvelope("A", "Hello", "Hola", []byte("hi")))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"audio":"aGk="`)
}

func TestParseHelpersApplyFallbacks(t *testing.T) {
	room, err := ParseRoomID("  ", DefaultRoomID)
	require.NoError(t, err)
	assert.Equal(t, DefaultRoomID, room)

	lang, err := ParseLang("", DefaultLang)
	require.NoError(t, err)
	assert.Equal(t, DefaultLang, lang)

	_, err = ParseLang(strings.Repeat("x", MaxLangLen+1), DefaultLang)
	assert.ErrorIs(t, err, ErrLangTooLong)

	id, err := ParseClientID("")
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.NotEmpty(t, NewClientID())
}
