// Package classifier provides entity extraction from worker messages.
package classifier

import (
	"regexp"
	"sort"
	"strings"
)

// EntitySet maps an entity category to its matched strings, in
// first-to-last textual order. Categories with no matches are absent.
type EntitySet map[string][]string

// Entity category names.
const (
	CategoryTimeMentions = "time_mentions"
	CategoryLocations    = "locations"
	CategoryEquipment    = "equipment"
	CategoryUrgency      = "urgency"
)

// Urgent reports whether the urgency entities flag the message as urgent.
func (e EntitySet) Urgent() bool {
	for _, v := range e[CategoryUrgency] {
		if strings.Contains(strings.ToLower(v), "urgent") {
			return true
		}
	}
	return false
}

var (
	timePatterns = compileAll(
		`(\d{1,2}:\d{2})`,
		`(morning|afternoon|evening|night)`,
		`(today|tomorrow|yesterday)`,
		`(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`,
	)

	locationPatterns = compileAll(
		`(building|floor|room|site|area|zone)\s*([a-z0-9]+)`,
		`(basement|roof|office|warehouse|factory)`,
	)

	equipmentPatterns = compileAll(
		`(generator|pump|valve|motor|machine|equipment|tool)`,
		`(electrical|plumbing|hvac|mechanical)`,
	)

	urgencyPatterns = compileAll(
		`(urgent|emergency|asap|immediately|critical)`,
		`(low priority|when possible|no rush)`,
	)
)

// Extract runs the four extraction passes over the message. Matching is
// case-insensitive; repeated invocation on the same text yields an
// identical EntitySet.
func Extract(message string) EntitySet {
	msg := strings.ToLower(message)

	entities := EntitySet{}
	addPass(entities, CategoryTimeMentions, msg, timePatterns)
	addPass(entities, CategoryLocations, msg, locationPatterns)
	addPass(entities, CategoryEquipment, msg, equipmentPatterns)
	addPass(entities, CategoryUrgency, msg, urgencyPatterns)
	return entities
}

type span struct {
	pos  int
	text string
}

// addPass contributes one category to the set if at least one alternative
// matches. Matches from all alternatives are merged and ordered by their
// position in the text; duplicates are kept.
func addPass(entities EntitySet, category, msg string, patterns []*regexp.Regexp) {
	var spans []span
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatchIndex(msg, -1) {
			spans = append(spans, span{pos: m[0], text: renderMatch(msg, m)})
		}
	}
	if len(spans) == 0 {
		return
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].pos < spans[j].pos })

	values := make([]string, len(spans))
	for i, s := range spans {
		values[i] = s.text
	}
	entities[category] = values
}

// renderMatch joins the non-empty capture groups of one match, so a
// two-group location like "building a" comes out as a single value.
func renderMatch(msg string, m []int) string {
	var parts []string
	for g := 1; g*2 < len(m); g++ {
		start, end := m[g*2], m[g*2+1]
		if start < 0 {
			continue
		}
		parts = append(parts, msg[start:end])
	}
	if len(parts) == 0 {
		return msg[m[0]:m[1]]
	}
	return strings.Join(parts, " ")
}
