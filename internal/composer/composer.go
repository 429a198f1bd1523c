// Package composer produces the reply text shown to the worker.
//
// Two paths mirror the classifier: a model-assisted contextual reply, and
// a deterministic keyword ladder per intent. The composer cannot fail;
// its output is non-empty under every failure combination.
package composer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/workhub-ai/workhub-agent/internal/classifier"
	"github.com/workhub-ai/workhub-agent/internal/model"
	"github.com/workhub-ai/workhub-agent/internal/prompt"
)

// reviewDisclaimer is appended when the final confidence was below the
// review threshold.
const reviewDisclaimer = "\n\n(I'm not 100% sure what you meant, so I've flagged this for manager review.)"

// Composer generates worker-facing responses.
type Composer struct {
	model  model.Model
	review float64
	logger *zap.Logger
}

// Config for the composer.
type Config struct {
	// Model is the optional external endpoint. Nil means deterministic
	// replies only.
	Model model.Model

	// ReviewThreshold is the confidence below which the disclaimer is
	// appended.
	ReviewThreshold float64

	Logger *zap.Logger
}

// New creates a composer.
func New(cfg Config) *Composer {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		model:  cfg.Model,
		review: cfg.ReviewThreshold,
		logger: logger,
	}
}

// Compose returns the reply for a classified message. A model failure
// silently selects the deterministic path.
func (c *Composer) Compose(ctx context.Context, message string, res classifier.Result, entities classifier.EntitySet) string {
	text := ""
	if c.model != nil && c.model.IsAvailable() {
		reply, err := c.composeWithModel(ctx, message, res, entities)
		if err != nil {
			c.logger.Debug("model response generation failed, using fallback", zap.Error(err))
		} else {
			text = reply
		}
	}
	if text == "" {
		text = fallbackResponse(message, res.Intent, entities)
	}

	if res.Confidence < c.review {
		text += reviewDisclaimer
	}
	return text
}

// composeWithModel makes at most one call to the external model and
// accepts any non-empty reply.
func (c *Composer) composeWithModel(ctx context.Context, message string, res classifier.Result, entities classifier.EntitySet) (string, error) {
	resp, err := c.model.Generate(ctx, &model.Request{
		Prompt:      prompt.Response(message, string(res.Intent), res.Confidence, entities),
		Temperature: 0.4,
		MaxTokens:   120,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// fallbackResponse applies ordered keyword checks within the classified
// intent before falling to a generic per-intent message.
func fallbackResponse(message string, intent classifier.Intent, entities classifier.EntitySet) string {
	msg := strings.ToLower(message)

	switch intent {
	case classifier.IntentIncidentReport:
		switch {
		case strings.Contains(msg, "leak"):
			return "Leak reported. Manager and safety team notified immediately. Please evacuate the area and ensure your safety first."
		case strings.Contains(msg, "fire"):
			return "Fire emergency logged. Emergency services and management alerted. Please follow evacuation procedures."
		case strings.Contains(msg, "injury") || strings.Contains(msg, "hurt"):
			return "Injury incident recorded. First aid team and manager notified. Please seek immediate medical attention if needed."
		case strings.Contains(msg, "broken") || strings.Contains(msg, "damaged"):
			return "Equipment damage reported. Maintenance team alerted and the area marked for safety - please avoid using damaged equipment."
		default:
			return "Incident documented and manager immediately notified. Please prioritize your safety and follow proper protocols."
		}

	case classifier.IntentTaskUpdate:
		switch {
		case strings.Contains(msg, "finished") || strings.Contains(msg, "completed") || strings.Contains(msg, "done"):
			return "Excellent work completing your task. Progress logged and team updated."
		case strings.Contains(msg, "started") || strings.Contains(msg, "beginning"):
			return "Task start logged. Good luck with the work, and let me know if you need any assistance."
		case strings.Contains(msg, "need") && (strings.Contains(msg, "material") || strings.Contains(msg, "tool")):
			return "Material request noted and forwarded to the procurement team. You should receive an update on availability soon."
		case strings.Contains(msg, "delayed") || strings.Contains(msg, "behind"):
			return "Delay reported and logged. Manager notified to help resolve any issues."
		default:
			return "Task update received and logged. Your progress is noted and the team informed."
		}

	case classifier.IntentPermissionRequest:
		switch {
		case strings.Contains(msg, "overtime"):
			return "Overtime request submitted to your manager. You should receive approval status within a few hours."
		case strings.Contains(msg, "access") || strings.Contains(msg, "restricted"):
			return "Access request forwarded to security and your manager for approval. Please wait for clearance before proceeding."
		case strings.Contains(msg, "budget") || strings.Contains(msg, "purchase"):
			return "Budget approval request sent to management. The finance team will review and respond soon."
		default:
			return "Permission request submitted and forwarded to the appropriate approvers. You'll receive an update shortly."
		}

	case classifier.IntentAttendance:
		switch {
		case strings.Contains(msg, "check in") || strings.Contains(msg, "arrived"):
			if locs := entities[classifier.CategoryLocations]; len(locs) > 0 {
				return "Successfully checked in at " + locs[0] + ". Have a productive and safe day."
			}
			return "Successfully checked in. Have a productive and safe day."
		case strings.Contains(msg, "check out") || strings.Contains(msg, "leaving"):
			return "Check-out recorded. Thank you for your hard work today, travel safely."
		case strings.Contains(msg, "break") || strings.Contains(msg, "lunch"):
			return "Break time logged. Enjoy your rest."
		default:
			return "Attendance update recorded. Your time tracking is up to date."
		}

	case classifier.IntentQuestion:
		switch {
		case strings.Contains(msg, "how") && (strings.Contains(msg, "operate") || strings.Contains(msg, "use")):
			if eq := entities[classifier.CategoryEquipment]; len(eq) > 0 {
				return "Equipment operation question noted for the " + eq[0] + ". Connecting you with a technical expert or finding the manual."
			}
			return "Equipment operation question noted. Connecting you with a technical expert or finding the manual."
		case strings.Contains(msg, "procedure") || strings.Contains(msg, "protocol"):
			return "Procedure question logged. Sending you the relevant guidelines or connecting you with a supervisor."
		case strings.Contains(msg, "safety"):
			return "Safety question forwarded to the safety officer for immediate guidance. Safety first."
		default:
			return "Question received. Getting you the right information or connecting you with someone who can help."
		}

	default:
		if entities.Urgent() {
			return "Message marked as urgent and immediately forwarded to your manager. You should receive a response soon."
		}
		return "Message received and logged. The appropriate team members have been notified."
	}
}
