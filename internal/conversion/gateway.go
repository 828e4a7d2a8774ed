// Package conversion turns recorded audio and edited text into translated
// results by calling the speech-to-text, translation and text-to-speech
// collaborators in sequence.
package conversion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/dkeye/Polyglot/internal/domain"
)

//go:generate mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, text string, lang domain.Lang) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Result is empty in Original for re-translations. Audio is nil when
// synthesis failed.
type Result struct {
	Original    string
	Translation string
	Audio       []byte
}

type Options struct {
	// Timeout bounds every collaborator call separately.
	Timeout time.Duration
	// MaxConcurrent caps conversions in flight across all connections.
	MaxConcurrent int64
	// QueueWait bounds the wait for a free slot. Defaults to Timeout.
	QueueWait time.Duration
}

const (
	defaultTimeout       = 30 * time.Second
	defaultMaxConcurrent = 16
)

type Gateway struct {
	stt Transcriber
	mt  Translator
	tts Synthesizer

	timeout   time.Duration
	queueWait time.Duration
	sem       *semaphore.Weighted
}

func NewGateway(stt Transcriber, mt Translator, tts Synthesizer, opts Options) *Gateway {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if opts.QueueWait <= 0 {
		opts.QueueWait = opts.Timeout
	}
	return &Gateway{
		stt:       stt,
		mt:        mt,
		tts:       tts,
		timeout:   opts.Timeout,
		queueWait: opts.QueueWait,
		sem:       semaphore.NewWeighted(opts.MaxConcurrent),
	}
}

// PreviewResult transcribes, translates, then synthesizes. Only the first two
// stages can fail the result.
func (g *Gateway) PreviewResult(ctx context.Context, audio []byte, lang domain.Lang) (Result, error) {
	if len(audio) == 0 {
		return Result{}, &StageError{Stage: StageTranscribe, Err: ErrEmptyAudio}
	}
	release, err := g.acquire(ctx)
	if err != nil {
		return Result{}, err
	}
	defer release()

	original, err := call(ctx, g.timeout, func(ctx context.Context) (string, error) {
		return g.stt.Transcribe(ctx, audio)
	})
	if err != nil {
		return Result{}, &StageError{Stage: StageTranscribe, Err: err}
	}
	original = strings.TrimSpace(original)
	if original == "" {
		return Result{}, &StageError{Stage: StageTranscribe, Err: ErrEmptyTranscript}
	}

	translation, speech, err := g.translateAndSpeak(ctx, original, lang)
	if err != nil {
		return Result{}, err
	}
	return Result{Original: original, Translation: translation, Audio: speech}, nil
}

// Retranslate is used for text the user edited after the preview.
func (g *Gateway) Retranslate(ctx context.Context, text string, lang domain.Lang) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, &StageError{Stage: StageTranslate, Err: ErrEmptyText}
	}
	release, err := g.acquire(ctx)
	if err != nil {
		return Result{}, err
	}
	defer release()

	translation, speech, err := g.translateAndSpeak(ctx, text, lang)
	if err != nil {
		return Result{}, err
	}
	return Result{Translation: translation, Audio: speech}, nil
}

func (g *Gateway) translateAndSpeak(ctx context.Context, text string, lang domain.Lang) (string, []byte, error) {
	translation, err := call(ctx, g.timeout, func(ctx context.Context) (string, error) {
		return g.mt.Translate(ctx, text, lang)
	})
	if err != nil {
		return "", nil, &StageError{Stage: StageTranslate, Err: err}
	}
	translation = strings.TrimSpace(translation)
	if translation == "" {
		return "", nil, &StageError{Stage: StageTranslate, Err: ErrEmptyTranslation}
	}

	speech, err := call(ctx, g.timeout, func(ctx context.Context) ([]byte, error) {
		return g.tts.Synthesize(ctx, translation)
	})
	if err != nil {
		log.Ctx(ctx).Warn().
			Err(err).
			Str("module", "conversion").
			Str("stage", string(StageSynthesize)).
			Msg("synthesis failed, returning text only")
		speech = nil
	}
	return translation, speech, nil
}

// acquire waits at most queueWait for a conversion slot.
func (g *Gateway) acquire(ctx context.Context) (func(), error) {
	wctx, cancel := context.WithTimeout(ctx, g.queueWait)
	defer cancel()
	if err := g.sem.Acquire(wctx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrBusy, err)
	}
	return func() { g.sem.Release(1) }, nil
}

// call bounds fn by timeout even when fn ignores its context; a late result is
// discarded.
func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
