// Package prompt builds the prompts sent to the model collaborator.
package prompt

import (
	"fmt"
	"sort"
	"strings"
)

const classificationTemplate = `You are a WorkHub assistant analyzing field worker messages. Classify this message into the MOST APPROPRIATE category:

CATEGORIES:
- task_update: Work progress, completion, repairs, installations, material needs
- incident_report: Safety issues, accidents, equipment failures, emergencies, broken items
- permission_request: Requests for access, approval, authorization, overtime, leave
- attendance: Check-in/out, breaks, location updates, shift changes
- question: Asking for help, instructions, clarification, how-to questions
- general: Casual conversation or unclear intent

EXAMPLES:
"pipe is broken" -> incident_report|0.9
"finished the repair" -> task_update|0.9
"need overtime approval" -> permission_request|0.9
"checked in at site" -> attendance|0.9
"how do I use this?" -> question|0.9

Message: %q

Respond ONLY with: CATEGORY|CONFIDENCE (0.0-1.0)`

// Classification renders the intent classification prompt for a message.
// The model is expected to reply with a single "label|confidence" line.
func Classification(message string) string {
	return fmt.Sprintf(classificationTemplate, message)
}

const responseTemplate = `You are the WorkHub assistant helping field workers. Generate a helpful, professional response.

WORKER MESSAGE: %q
DETECTED INTENT: %s (confidence: %.2f)
CONTEXT: %s

GUIDELINES:
- Be specific to their actual message content
- Acknowledge what action you're taking based on intent
- Be encouraging and supportive
- Keep it concise (1-2 sentences max)`

// Response renders the reply-generation prompt from the classification
// outcome and the extracted entities.
func Response(message, intent string, confidence float64, entities map[string][]string) string {
	return fmt.Sprintf(responseTemplate, message, intent, confidence, entityContext(entities))
}

// entityContext compacts the extracted entities into one context line.
// Categories are rendered in a fixed order so the prompt is stable.
func entityContext(entities map[string][]string) string {
	if len(entities) == 0 {
		return "Standard message"
	}

	labels := map[string]string{
		"urgency":       "Urgency detected",
		"equipment":     "Equipment mentioned",
		"locations":     "Location",
		"time_mentions": "Time mentioned",
	}

	keys := make([]string, 0, len(entities))
	for k := range entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		label := labels[k]
		if label == "" {
			label = k
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, strings.Join(entities[k], ", ")))
	}
	return strings.Join(parts, " | ")
}
