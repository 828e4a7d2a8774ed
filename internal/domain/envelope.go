package domain

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var ErrBadPayload = errors.New("bad payload")

var validate = validator.New(validator.WithRequiredStructEnabled())

// SpeakerRole is relative to the recipient of a delivered message.
type SpeakerRole string

const (
	SpeakerSelf  SpeakerRole = "self"
	SpeakerOther SpeakerRole = "other"
)

// RoleFor tags a message authored by sender as seen by recipient.
func RoleFor(sender, recipient ClientID) SpeakerRole {
	if sender == recipient {
		return SpeakerSelf
	}
	return SpeakerOther
}

// Error codes carried by error envelopes.
const (
	CodeBadPayload       = "bad_payload"
	CodeConversionFailed = "conversion_failed"
	CodeRateLimited      = "rate_limited"
	CodeBusy             = "busy"
)

// FinalMessage is the text frame a client sends to commit a message to the room.
type FinalMessage struct {
	Original    string   `json:"original" validate:"required"`
	Translation string   `json:"translation" validate:"required"`
	ClientID    ClientID `json:"clientId" validate:"required,max=64"`
	Audio       string   `json:"audio,omitempty" validate:"omitempty,base64"`
}

// ParseFinal decodes and validates a Final frame. Every failure wraps ErrBadPayload.
func ParseFinal(data []byte) (FinalMessage, error) {
	var msg FinalMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return FinalMessage{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if err := validate.Struct(msg); err != nil {
		return FinalMessage{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return msg, nil
}

// Envelope is every outbound frame. Preview replies and Final copies share it;
// error replies carry Error and, for conversion failures, Stage.
type Envelope struct {
	Speaker     SpeakerRole `json:"speaker"`
	Original    string      `json:"original"`
	Translation string      `json:"translation"`
	Audio       string      `json:"audio,omitempty"`
	ClientID    ClientID    `json:"clientId"`
	Error       string      `json:"error,omitempty"`
	Stage       string      `json:"stage,omitempty"`
}

// PreviewEnvelope is always addressed to the requester, hence always "self".
func PreviewEnvelope(clientID ClientID, original, translation string, audio []byte) Envelope {
	return Envelope{
		Speaker:     SpeakerSelf,
		Original:    original,
		Translation: translation,
		Audio:       EncodeAudio(audio),
		ClientID:    clientID,
	}
}

// FinalEnvelope is the copy of msg delivered to recipient.
func FinalEnvelope(msg FinalMessage, recipient ClientID) Envelope {
	return Envelope{
		Speaker:     RoleFor(msg.ClientID, recipient),
		Original:    msg.Original,
		Translation: msg.Translation,
		Audio:       msg.Audio,
		ClientID:    msg.ClientID,
	}
}

func ErrorEnvelope(clientID ClientID, code, stage string) Envelope {
	return Envelope{
		Speaker:  SpeakerSelf,
		ClientID: clientID,
		Error:    code,
		Stage:    stage,
	}
}

func EncodeAudio(audio []byte) string {
	if len(audio) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(audio)
}

// TranslateResponse is the body of the stateless re-translation endpoint.
type TranslateResponse struct {
	Translation string `json:"translation"`
	Audio       string `json:"audio,omitempty"`
}
