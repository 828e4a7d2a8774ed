// Package domain contains entities without logic, just meta-data
package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxClientIDLen = 64
	MaxRoomIDLen   = 64
	MaxLangLen     = 16
)

var (
	ErrClientIDTooLong = errors.New("client id too long")
	ErrRoomIDTooLong   = errors.New("room id too long")
	ErrLangTooLong     = errors.New("language tag too long")
)

type ClientID string

// Lang is a target language tag such as "es" or "pt-BR".
type Lang string

const DefaultLang Lang = "es"

// NewClientID generates an identity for callers that did not supply one.
func NewClientID() ClientID {
	return ClientID(uuid.NewString())
}

// ParseClientID returns "" for an empty value so the caller can pick a fallback.
func ParseClientID(raw string) (ClientID, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > MaxClientIDLen {
		return "", ErrClientIDTooLong
	}
	return ClientID(raw), nil
}

func ParseRoomID(raw string, fallback RoomID) (RoomID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if len(raw) > MaxRoomIDLen {
		return "", ErrRoomIDTooLong
	}
	return RoomID(raw), nil
}

func ParseLang(raw string, fallback Lang) (Lang, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if len(raw) > MaxLangLen {
		return "", ErrLangTooLong
	}
	return Lang(raw), nil
}
