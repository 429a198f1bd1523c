// Package routing maps classification results to database actions.
package routing

import (
	"github.com/workhub-ai/workhub-agent/internal/classifier"
)

// Action names the downstream persistence operation for a message.
type Action string

const (
	ActionUpdateTaskProgress      Action = "update_task_progress"
	ActionCreateIncidentRecord    Action = "create_incident_record"
	ActionCreatePermissionRequest Action = "create_permission_request"
	ActionUpdateAttendanceRecord  Action = "update_attendance_record"
	ActionRouteToSupport          Action = "route_to_support"
	ActionLogGeneralMessage       Action = "log_general_message"
)

// Decision is the routing outcome for one message.
type Decision struct {
	Action                   Action `json:"action"`
	RequiresManagerAttention bool   `json:"requires_manager_attention"`

	// AutoProcess reports whether the classification was confident
	// enough to execute the action without operator review.
	AutoProcess bool `json:"auto_process"`
}

// Router derives routing decisions. ReviewThreshold is the confidence
// below which a message is flagged for manager review;
// AutoProcessThreshold is the confidence above which the action may be
// executed without review.
type Router struct {
	ReviewThreshold      float64
	AutoProcessThreshold float64
}

// Decide maps a classification result and entity set to a decision. It is
// a pure total function: every intent has exactly one action, and the
// same inputs always produce the same decision.
func (r Router) Decide(res classifier.Result, entities classifier.EntitySet) Decision {
	var action Action
	switch res.Intent {
	case classifier.IntentTaskUpdate:
		action = ActionUpdateTaskProgress
	case classifier.IntentIncidentReport:
		action = ActionCreateIncidentRecord
	case classifier.IntentPermissionRequest:
		action = ActionCreatePermissionRequest
	case classifier.IntentAttendance:
		action = ActionUpdateAttendanceRecord
	case classifier.IntentQuestion:
		action = ActionRouteToSupport
	default:
		action = ActionLogGeneralMessage
	}

	attention := res.Intent == classifier.IntentIncidentReport ||
		res.Intent == classifier.IntentPermissionRequest ||
		res.Confidence < r.ReviewThreshold ||
		entities.Urgent()

	return Decision{
		Action:                   action,
		RequiresManagerAttention: attention,
		AutoProcess:              res.Confidence > r.AutoProcessThreshold,
	}
}
