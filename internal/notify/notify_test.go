package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alert(sender string) Alert {
	return Alert{
		Intent:     "incident_report",
		SenderID:   sender,
		Message:    "gas leak",
		Confidence: 0.52,
		Action:     "create_incident_record",
		Timestamp:  time.Now().UTC(),
	}
}

func TestChannelNotifier(t *testing.T) {
	n := NewChannelNotifier(2)

	require.NoError(t, n.Notify(context.Background(), alert("w1")))
	require.NoError(t, n.Notify(context.Background(), alert("w2")))

	got := <-n.Alerts()
	assert.Equal(t, "w1", got.SenderID)
}

func TestChannelNotifierFullBufferDrops(t *testing.T) {
	n := NewChannelNotifier(1)

	require.NoError(t, n.Notify(context.Background(), alert("w1")))
	err := n.Notify(context.Background(), alert("w2"))
	assert.ErrorIs(t, err, ErrBufferFull)
}

func TestLogNotifierNilLogger(t *testing.T) {
	n := NewLogNotifier(nil)
	assert.NoError(t, n.Notify(context.Background(), alert("w1")))
}
