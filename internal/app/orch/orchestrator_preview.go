package orch

import (
	"context"
	"errors"

	"github.com/dkeye/Polyglot/internal/conversion"
	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/domain"
)

func (o *Orchestrator) handlePreview(ctx context.Context, sess core.MemberSession, audio []byte) {
	clientID := sess.Meta().ClientID
	logger := sessionLogger(sess)

	if o.Limiter != nil && !o.Limiter.Allow(clientID) {
		logger.Warn().Msg("preview rate limited")
		o.reply(sess, domain.ErrorEnvelope(clientID, domain.CodeRateLimited, ""))
		return
	}

	sess.SetPreviewState(core.PreviewAwaiting)
	ctx = logger.WithContext(ctx)

	res, err := o.Gateway.PreviewResult(ctx, audio, sess.TargetLang())
	if err != nil {
		sess.SetPreviewState(core.PreviewIdle)
		if ctx.Err() != nil {
			logger.Debug().Err(err).Msg("preview abandoned, connection gone")
			return
		}
		stage := conversion.StageOf(err)
		code := domain.CodeConversionFailed
		if errors.Is(err, conversion.ErrBusy) {
			code = domain.CodeBusy
		}
		logger.Error().Err(err).Str("stage", stage).Int("bytes", len(audio)).Msg("preview failed")
		o.reply(sess, domain.ErrorEnvelope(clientID, code, stage))
		return
	}

	sess.SetPreviewState(core.PreviewReady)
	logger.Debug().
		Str("lang", string(sess.TargetLang())).
		Bool("audio", len(res.Audio) > 0).
		Msg("preview ready")
	o.reply(sess, domain.PreviewEnvelope(clientID, res.Original, res.Translation, res.Audio))
}

// Retranslate serves edited text outside of any connection.
func (o *Orchestrator) Retranslate(ctx context.Context, text string, lang domain.Lang) (domain.TranslateResponse, error) {
	res, err := o.Gateway.Retranslate(ctx, text, lang)
	if err != nil {
		return domain.TranslateResponse{}, err
	}
	return domain.TranslateResponse{
		Translation: res.Translation,
		Audio:       domain.EncodeAudio(res.Audio),
	}, nil
}
