// Package classifier provides intent classification for worker messages.
//
// Classification flow:
// 1. Model-assisted path, when an endpoint is configured
// 2. Rule-based pattern scoring, when the model is absent, fails, or is
//    not confident enough
package classifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/workhub-ai/workhub-agent/internal/errors"
	"github.com/workhub-ai/workhub-agent/internal/model"
	"github.com/workhub-ai/workhub-agent/internal/prompt"
)

// Source identifies which path produced a Result.
type Source string

const (
	SourceModel Source = "model"
	SourceRules Source = "rules"
)

// Result is an immutable classification result.
type Result struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// Classifier classifies worker message intents.
type Classifier struct {
	patterns []*IntentPattern
	model    model.Model
	accept   float64
	logger   *zap.Logger
}

// Config for the classifier.
type Config struct {
	// Model is the optional external endpoint. Nil means rules only.
	Model model.Model

	// AcceptThreshold is the minimum model confidence accepted outright.
	AcceptThreshold float64

	Logger *zap.Logger
}

// New creates a classifier.
func New(cfg Config) *Classifier {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		patterns: defaultPatterns(),
		model:    cfg.Model,
		accept:   cfg.AcceptThreshold,
		logger:   logger,
	}
}

// Classify determines the intent of a worker message. It never fails: a
// model error or a low-confidence model result selects the rule-based
// path, and a message matching nothing resolves to (general, 0.5).
func (c *Classifier) Classify(ctx context.Context, message string) Result {
	if c.model != nil && c.model.IsAvailable() {
		res, err := c.classifyWithModel(ctx, message)
		switch {
		case err != nil:
			c.logger.Debug("model classification failed, using rules", zap.Error(err))
		case res.Confidence > c.accept:
			return res
		default:
			c.logger.Debug("model confidence below threshold, using rules",
				zap.Float64("confidence", res.Confidence),
				zap.Float64("threshold", c.accept))
		}
	}

	return c.classifyRuleBased(message)
}

// classifyWithModel makes at most one call to the external model and
// parses its "label|confidence" reply strictly.
func (c *Classifier) classifyWithModel(ctx context.Context, message string) (Result, error) {
	resp, err := c.model.Generate(ctx, &model.Request{
		Prompt:      prompt.Classification(message),
		Temperature: 0.1,
		MaxTokens:   20,
	})
	if err != nil {
		return Result{}, err
	}
	return parseLabelConfidence(resp.Text)
}

// parseLabelConfidence parses a reply of the form "label|confidence".
// Anything else is a malformed reply, handled as model unavailability.
func parseLabelConfidence(text string) (Result, error) {
	parts := strings.Split(strings.TrimSpace(text), "|")
	if len(parts) != 2 {
		return Result{}, errors.MalformedReply(fmt.Errorf("expected label|confidence, got %q", text))
	}

	intent, ok := ParseIntent(strings.ToLower(strings.TrimSpace(parts[0])))
	if !ok {
		return Result{}, errors.MalformedReply(fmt.Errorf("unknown intent label %q", parts[0]))
	}

	confidence, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Result{}, errors.MalformedReply(fmt.Errorf("bad confidence %q", parts[1]))
	}
	if confidence < 0 || confidence > 1 {
		return Result{}, errors.MalformedReply(fmt.Errorf("confidence %v out of range", confidence))
	}

	return Result{Intent: intent, Confidence: confidence, Source: SourceModel}, nil
}

// classifyRuleBased scores every intent's pattern groups against the
// message. Ties resolve to the earlier intent in the fixed pattern order
// (severity first), so the outcome is deterministic.
func (c *Classifier) classifyRuleBased(message string) Result {
	msg := strings.ToLower(message)

	best := Result{Intent: IntentGeneral, Confidence: noMatchConfidence, Source: SourceRules}
	bestScore := 0.0
	for _, p := range c.patterns {
		if score := p.Score(msg); score > bestScore {
			bestScore = score
			best = Result{Intent: p.Intent, Confidence: score, Source: SourceRules}
		}
	}
	return best
}
