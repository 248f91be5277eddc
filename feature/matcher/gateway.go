package matcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boardgame-sync/core/metrics"
	"boardgame-sync/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway asks an external completion service to pair residual items.
// It implements reconcile.Matcher.
type Gateway struct {
	completer Completer
	recorder  Recorder
	cfg       Config
	logger    *zap.Logger
}

// NewGateway creates a gateway. recorder may be nil.
func NewGateway(completer Completer, recorder Recorder, cfg Config, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{completer: completer, recorder: recorder, cfg: cfg, logger: logger}
}

// FindMatches returns candidate pairs between the two residual lists.
//
// Either list empty returns nothing without calling the service. A failed call
// or an unusable answer returns no candidates and a diagnostic error; the
// caller is expected to continue without fuzzy matches.
func (g *Gateway) FindMatches(ctx context.Context, onlyInA, onlyInB []reconcile.GameRecord) ([]reconcile.Candidate, error) {
	if len(onlyInA) == 0 || len(onlyInB) == 0 {
		return nil, nil
	}

	prompt := BuildPrompt(onlyInA, onlyInB, g.cfg.maxNames())
	ex := Exchange{
		ID:     uuid.NewString(),
		Time:   time.Now().UTC(),
		Model:  g.cfg.Model,
		ItemsA: len(prompt.A),
		ItemsB: len(prompt.B),
		Prompt: prompt.User,
		Method: MethodNone,
	}
	defer func() { g.record(ctx, ex) }()

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout())
	defer cancel()

	start := time.Now()
	response, err := g.completer.Complete(callCtx, prompt.System, prompt.User)
	if err != nil {
		metrics.RecordExtraction("error")
		ex.Error = err.Error()
		return nil, fmt.Errorf("matcher call failed: %w", err)
	}
	ex.Response = response

	extraction, err := Extract(response)
	ex.Method = extraction.Method
	metrics.RecordExtraction(string(extraction.Method))
	if err != nil {
		ex.Error = err.Error()
		g.logger.Warn("Matcher response has no usable structure",
			zap.Int("response_length", len(response)),
			zap.Error(err),
		)
		return nil, err
	}

	candidates := make([]reconcile.Candidate, 0, len(extraction.Pairs))
	for _, p := range extraction.Pairs {
		aID, aVariant := ParsePromptID(p.AID)
		candidates = append(candidates, reconcile.Candidate{
			AProviderID: aID,
			AVariantID:  aVariant,
			AName:       p.AName,
			BProviderID: p.BID,
			BName:       p.BName,
			Confidence:  p.Confidence,
			MatchType:   reconcile.MatchAISuggested,
		})
	}
	ex.Candidates = len(candidates)

	g.logger.Info("Matcher answered",
		zap.String("method", string(extraction.Method)),
		zap.Int("candidates", len(candidates)),
		zap.Int("items_a", len(prompt.A)),
		zap.Int("items_b", len(prompt.B)),
		zap.Duration("duration", time.Since(start)),
	)
	return candidates, nil
}

func (g *Gateway) record(ctx context.Context, ex Exchange) {
	if g.recorder == nil {
		return
	}
	// The exchange is kept even when the run context was cancelled.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := g.recorder.Record(ctx, ex); err != nil && !errors.Is(err, context.Canceled) {
		g.logger.Warn("Failed to store matcher audit record", zap.String("id", ex.ID), zap.Error(err))
	}
}
