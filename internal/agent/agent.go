// Package agent runs the message understanding pipeline.
//
// One invocation is a fixed linear sequence: extract entities, classify
// intent, route to a database action, compose the reply. Stages only
// consume the outputs of prior stages plus the original message; there is
// no shared mutable state between invocations.
package agent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/workhub-ai/workhub-agent/internal/classifier"
	"github.com/workhub-ai/workhub-agent/internal/composer"
	"github.com/workhub-ai/workhub-agent/internal/config"
	"github.com/workhub-ai/workhub-agent/internal/model"
	"github.com/workhub-ai/workhub-agent/internal/routing"
	"github.com/workhub-ai/workhub-agent/internal/stats"
)

// Outcome is the pipeline's final artifact, the sole value handed back to
// the intake layer.
type Outcome struct {
	ID             string                `json:"id"`
	SenderID       string                `json:"sender_id"`
	Message        string                `json:"message"`
	ReceivedAt     time.Time             `json:"received_at"`
	Classification classifier.Result     `json:"classification"`
	Entities       classifier.EntitySet  `json:"entities"`
	Decision       routing.Decision      `json:"decision"`
	Response       string                `json:"response"`
}

// Agent is the pipeline orchestrator.
type Agent struct {
	classifier *classifier.Classifier
	composer   *composer.Composer
	router     routing.Router
	stats      *stats.Collector
	logger     *zap.Logger
}

// Config for the agent.
type Config struct {
	// Model is the optional external endpoint shared by the classifier
	// and composer stages. Nil disables the model-assisted paths.
	Model model.Model

	Policy config.PolicyConfig

	Stats  *stats.Collector
	Logger *zap.Logger
}

// New constructs the pipeline. The configuration is captured here and
// never mutated afterward.
func New(cfg Config) *Agent {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		classifier: classifier.New(classifier.Config{
			Model:           cfg.Model,
			AcceptThreshold: cfg.Policy.AcceptThreshold,
			Logger:          logger,
		}),
		composer: composer.New(composer.Config{
			Model:           cfg.Model,
			ReviewThreshold: cfg.Policy.ReviewThreshold,
			Logger:          logger,
		}),
		router: routing.Router{
			ReviewThreshold:      cfg.Policy.ReviewThreshold,
			AutoProcessThreshold: cfg.Policy.AutoProcessThreshold,
		},
		stats:  cfg.Stats,
		logger: logger,
	}
}

// Process runs one message through the pipeline and returns the complete
// Outcome. The only error it returns is context cancellation; every model
// failure is recovered inside its stage. A cancelled invocation returns no
// partial outcome.
func (a *Agent) Process(ctx context.Context, text, senderID string) (*Outcome, error) {
	start := time.Now()
	receivedAt := start.UTC()

	entities := classifier.Extract(text)
	result := a.classifier.Classify(ctx, text)
	decision := a.router.Decide(result, entities)
	response := a.composer.Compose(ctx, text, result, entities)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome := &Outcome{
		ID:             uuid.NewString(),
		SenderID:       senderID,
		Message:        text,
		ReceivedAt:     receivedAt,
		Classification: result,
		Entities:       entities,
		Decision:       decision,
		Response:       response,
	}

	a.logger.Info("message processed",
		zap.String("id", outcome.ID),
		zap.String("sender_id", senderID),
		zap.String("intent", string(result.Intent)),
		zap.Float64("confidence", result.Confidence),
		zap.String("action", string(decision.Action)),
		zap.Bool("manager_attention", decision.RequiresManagerAttention),
	)

	if a.stats != nil {
		a.stats.RecordMessage(string(result.Intent),
			result.Source == classifier.SourceModel,
			decision.RequiresManagerAttention,
			time.Since(start))
	}

	return outcome, nil
}
