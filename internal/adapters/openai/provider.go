// Package openai implements the transcription, translation and speech
// collaborators on top of the OpenAI API.
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/dkeye/Polyglot/internal/config"
	"github.com/dkeye/Polyglot/internal/domain"
)

var ErrNoChoices = errors.New("completion returned no choices")

// clipName only gives the upload a filename; the API sniffs the container
// from it, and browsers record webm.
const clipName = "clip.webm"

type Provider struct {
	client *goopenai.Client
	cfg    config.OpenAIConfig
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	c := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.APIKey == "" {
		log.Warn().Str("module", "openai").Msg("no API key configured, conversions will fail")
	}
	return &Provider{client: goopenai.NewClientWithConfig(c), cfg: cfg}
}

func (p *Provider) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    p.cfg.TranscribeModel,
		FilePath: clipName,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (p *Provider) Translate(ctx context.Context, text string, lang domain.Lang) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.cfg.TranslateModel,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:    goopenai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("Translate the following to %s (preserve meaning). Reply with the translation only.", lang),
			},
			{Role: goopenai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai translation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Synthesize returns MP3 bytes.
func (p *Provider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := p.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(p.cfg.SpeechModel),
		Input:          text,
		Voice:          goopenai.SpeechVoice(p.cfg.Voice),
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("openai speech read: %w", err)
	}
	return audio, nil
}
