package classifier

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhub-ai/workhub-agent/internal/errors"
	"github.com/workhub-ai/workhub-agent/internal/model"
)

type fakeModel struct {
	text      string
	err       error
	available bool
	calls     int
}

func (f *fakeModel) Generate(_ context.Context, _ *model.Request) (*model.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &model.Response{Text: f.text}, nil
}

func (f *fakeModel) IsAvailable() bool { return f.available }
func (f *fakeModel) Name() string      { return "fake" }

func rulesOnly() *Classifier {
	return New(Config{AcceptThreshold: 0.4})
}

func TestClassifyRuleBasedScenarios(t *testing.T) {
	tests := []struct {
		message string
		intent  Intent
	}{
		{"There's a gas leak in the basement - urgent!", IntentIncidentReport},
		{"Just finished the plumbing repair in Building A", IntentTaskUpdate},
		{"Can I get approval for overtime this weekend?", IntentPermissionRequest},
		{"Checked in at the construction site", IntentAttendance},
		{"How do I operate this new equipment?", IntentQuestion},
	}

	c := rulesOnly()
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			res := c.Classify(context.Background(), tt.message)
			assert.Equal(t, tt.intent, res.Intent)
			assert.Equal(t, SourceRules, res.Source)
			assert.GreaterOrEqual(t, res.Confidence, 0.0)
			assert.LessOrEqual(t, res.Confidence, 1.0)
		})
	}
}

func TestClassifyEmptyMessage(t *testing.T) {
	res := rulesOnly().Classify(context.Background(), "")
	assert.Equal(t, IntentGeneral, res.Intent)
	assert.Equal(t, 0.5, res.Confidence)
}

func TestClassifyNoMatch(t *testing.T) {
	res := rulesOnly().Classify(context.Background(), "lorem ipsum dolor")
	assert.Equal(t, IntentGeneral, res.Intent)
	assert.Equal(t, 0.5, res.Confidence)
}

func TestClassifyNonASCII(t *testing.T) {
	for _, msg := range []string{"テスト メッセージ", "¡fuga de gas, urgente!", "\x00\xff"} {
		res := rulesOnly().Classify(context.Background(), msg)
		_, ok := ParseIntent(string(res.Intent))
		assert.True(t, ok)
		assert.GreaterOrEqual(t, res.Confidence, 0.0)
		assert.LessOrEqual(t, res.Confidence, 1.0)
	}
}

func TestClassifyConfidenceCapped(t *testing.T) {
	// Stacks enough incident groups to exceed the cap without it.
	msg := "urgent emergency: fire and gas leak, broken pipe, injury, unsafe, power out, unauthorized access"
	res := rulesOnly().Classify(context.Background(), msg)
	assert.Equal(t, IntentIncidentReport, res.Intent)
	assert.LessOrEqual(t, res.Confidence, 0.95)
}

func TestClassifyModelAccepted(t *testing.T) {
	m := &fakeModel{text: "attendance|0.85", available: true}
	c := New(Config{Model: m, AcceptThreshold: 0.4})

	res := c.Classify(context.Background(), "There's a gas leak in the basement - urgent!")
	assert.Equal(t, IntentAttendance, res.Intent)
	assert.Equal(t, 0.85, res.Confidence)
	assert.Equal(t, SourceModel, res.Source)
	assert.Equal(t, 1, m.calls)
}

func TestClassifyModelLowConfidenceDiscarded(t *testing.T) {
	// At or below the threshold the model result is discarded entirely.
	m := &fakeModel{text: "attendance|0.3", available: true}
	c := New(Config{Model: m, AcceptThreshold: 0.4})

	res := c.Classify(context.Background(), "There's a gas leak in the basement - urgent!")
	assert.Equal(t, IntentIncidentReport, res.Intent)
	assert.Equal(t, SourceRules, res.Source)
	assert.Equal(t, 1, m.calls)
}

func TestClassifyModelFailureFallsBack(t *testing.T) {
	failures := map[string]error{
		"timeout":     errors.ModelTimeout(fmt.Errorf("deadline exceeded")),
		"unavailable": errors.ModelUnavailable(fmt.Errorf("connection refused")),
		"status":      errors.ModelStatus(fmt.Errorf("status 500")),
	}

	baseline := rulesOnly().Classify(context.Background(), "Can I get approval for overtime this weekend?")

	for name, err := range failures {
		t.Run(name, func(t *testing.T) {
			m := &fakeModel{err: err, available: true}
			c := New(Config{Model: m, AcceptThreshold: 0.4})
			res := c.Classify(context.Background(), "Can I get approval for overtime this weekend?")
			assert.Equal(t, baseline, res)
		})
	}
}

func TestClassifyModelNotConfigured(t *testing.T) {
	m := &fakeModel{text: "attendance|0.9", available: false}
	c := New(Config{Model: m, AcceptThreshold: 0.4})

	res := c.Classify(context.Background(), "Just finished the plumbing repair in Building A")
	assert.Equal(t, IntentTaskUpdate, res.Intent)
	assert.Zero(t, m.calls)
}

func TestParseLabelConfidence(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		intent  Intent
	}{
		{"valid", "task_update|0.9", false, IntentTaskUpdate},
		{"padded", "  incident_report | 0.75 ", false, IntentIncidentReport},
		{"uppercase label", "ATTENDANCE|0.6", false, IntentAttendance},
		{"missing separator", "task_update 0.9", true, ""},
		{"too many fields", "task_update|0.9|extra", true, ""},
		{"unknown label", "gossip|0.9", true, ""},
		{"bad confidence", "task_update|high", true, ""},
		{"confidence above one", "task_update|1.4", true, ""},
		{"negative confidence", "task_update|-0.1", true, ""},
		{"free text", "I think this is a task update.", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseLabelConfidence(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsModelFailure(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.intent, res.Intent)
		})
	}
}

func TestTieBreakDeterministic(t *testing.T) {
	// Same message, many runs, identical outcome.
	c := rulesOnly()
	first := c.Classify(context.Background(), "work break")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, c.Classify(context.Background(), "work break"))
	}
}
