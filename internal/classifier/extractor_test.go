package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCategories(t *testing.T) {
	entities := Extract("There's a gas leak in the basement - urgent!")

	require.Contains(t, entities, CategoryLocations)
	assert.Equal(t, []string{"basement"}, entities[CategoryLocations])

	require.Contains(t, entities, CategoryUrgency)
	assert.Equal(t, []string{"urgent"}, entities[CategoryUrgency])

	assert.NotContains(t, entities, CategoryTimeMentions)
}

func TestExtractLocationGroups(t *testing.T) {
	entities := Extract("Just finished the plumbing repair in Building A")

	require.Contains(t, entities, CategoryLocations)
	assert.Equal(t, []string{"building a"}, entities[CategoryLocations])

	require.Contains(t, entities, CategoryEquipment)
	assert.Equal(t, []string{"plumbing"}, entities[CategoryEquipment])
}

func TestExtractTextualOrder(t *testing.T) {
	// "tomorrow" comes from a later alternative than "monday" but appears
	// first in the text; textual order wins.
	entities := Extract("tomorrow morning at 09:30, then monday")

	require.Contains(t, entities, CategoryTimeMentions)
	assert.Equal(t, []string{"tomorrow", "morning", "09:30", "monday"}, entities[CategoryTimeMentions])
}

func TestExtractKeepsDuplicates(t *testing.T) {
	entities := Extract("the pump, I repeat, the pump is down")

	require.Contains(t, entities, CategoryEquipment)
	assert.Equal(t, []string{"pump", "pump"}, entities[CategoryEquipment])
}

func TestExtractEmptyMessage(t *testing.T) {
	entities := Extract("")
	assert.Empty(t, entities)
}

func TestExtractIdempotent(t *testing.T) {
	msg := "Generator broken in warehouse, urgent, need it by tomorrow morning"
	first := Extract(msg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Extract(msg))
	}
}

func TestUrgent(t *testing.T) {
	assert.True(t, Extract("this is URGENT").Urgent())
	assert.False(t, Extract("no rush on this one").Urgent())
	assert.False(t, EntitySet{}.Urgent())
}
