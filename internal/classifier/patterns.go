// Package classifier provides rule-based intent pattern matching.
package classifier

import "regexp"

// Intent is the closed-set category describing what a worker's message is
// asking for or reporting.
type Intent string

const (
	IntentTaskUpdate        Intent = "task_update"
	IntentIncidentReport    Intent = "incident_report"
	IntentPermissionRequest Intent = "permission_request"
	IntentAttendance        Intent = "attendance"
	IntentQuestion          Intent = "question"
	IntentGeneral           Intent = "general"
)

// ParseIntent returns the Intent for s, or false if s is not one of the
// six known intents.
func ParseIntent(s string) (Intent, bool) {
	switch Intent(s) {
	case IntentTaskUpdate, IntentIncidentReport, IntentPermissionRequest,
		IntentAttendance, IntentQuestion, IntentGeneral:
		return Intent(s), true
	}
	return "", false
}

// IntentPattern holds the weighted pattern groups for one intent.
type IntentPattern struct {
	Intent Intent

	// Groups are the pattern alternatives scored against the message.
	Groups []*regexp.Regexp

	// Specific are high-specificity sub-patterns that add a flat
	// confidence bonus when any of them matches.
	Specific []*regexp.Regexp
}

const (
	// specificBonus is added when a high-specificity sub-pattern matches.
	specificBonus = 0.3

	// maxRuleConfidence caps the rule-based score.
	maxRuleConfidence = 0.95

	// noMatchConfidence is returned when no intent matches at all.
	noMatchConfidence = 0.5
)

// Score returns the weighted match score for the message, or 0 when no
// pattern group matches.
func (p *IntentPattern) Score(message string) float64 {
	matched := 0
	for _, re := range p.Groups {
		if re.MatchString(message) {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	score := float64(matched) / float64(len(p.Groups))
	for _, re := range p.Specific {
		if re.MatchString(message) {
			score += specificBonus
			break
		}
	}

	if score > maxRuleConfidence {
		return maxRuleConfidence
	}
	return score
}

func compileAll(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		res[i] = regexp.MustCompile(expr)
	}
	return res
}

// defaultPatterns returns the pattern table in tie-break priority order:
// severity first, so an incident beats any equally-scored intent.
// IntentGeneral has no patterns; it is the no-match fallback.
func defaultPatterns() []*IntentPattern {
	return []*IntentPattern{
		{
			Intent: IntentIncidentReport,
			Groups: compileAll(
				`(incident|accident|emergency|problem|issue|trouble)`,
				`(safety|danger|hazard|risk|unsafe)`,
				`(broken|damaged|malfunction|fault|failure|not working)`,
				`(injury|hurt|injured|medical|first aid)`,
				`(leak|spill|fire|gas|smoke|explosion)`,
				`(urgent|emergency|critical|serious|help)`,
				`(pipe.*broken|pipe.*leak|water.*damage)`,
				`(electrical.*problem|power.*out|short circuit)`,
				`(security.*breach|unauthorized.*access)`,
			),
			Specific: compileAll(
				`gas leak`, `pipe.*broken`, `emergency`, `urgent`, `safety`, `injury`, `broken`,
			),
		},
		{
			Intent: IntentPermissionRequest,
			Groups: compileAll(
				`(permission|access|authorize|authorization|approval)`,
				`(overtime|extra hours|weekend work|holiday work)`,
				`(restricted|locked|secure|private|blocked)`,
				`(can i|may i|allowed to|permit|let me)`,
				`(approve|clearance|sign off)`,
				`(budget|purchase|expense|cost)`,
				`(leave|time off|vacation|sick day)`,
			),
			Specific: compileAll(
				`permission`, `approval`, `overtime`, `access`, `authorize`,
			),
		},
		{
			Intent: IntentAttendance,
			Groups: compileAll(
				`(check in|checked in|arrived|here|present|on site)`,
				`(check out|checking out|leaving|finished|going home)`,
				`(break|lunch|rest|meal)`,
				`(sick|ill|absent|leave|not coming)`,
				`(at location|reached|on site|at work)`,
				`(clocking in|clocking out|time card)`,
				`(shift.*start|shift.*end)`,
			),
			Specific: compileAll(
				`check in`, `check out`, `arrived`, `leaving`, `on site`,
			),
		},
		{
			Intent: IntentTaskUpdate,
			Groups: compileAll(
				`(completed|finished|done|complete|completing)`,
				`(started|starting|beginning|begin|working on)`,
				`(progress|update|status|advancement)`,
				`(task|work|job|assignment|project)`,
				`(material|tool|equipment|resource).*(need|require|want)`,
				`(delayed|behind|late|slow|stuck)`,
				`(on schedule|on time|ahead|early)`,
				`(almost done|nearly finished|halfway)`,
				`(repair|fix|install|build|construct)`,
			),
			Specific: compileAll(
				`finished`, `completed`, `started`, `progress`, `need.*material`,
			),
		},
		{
			Intent: IntentQuestion,
			Groups: compileAll(
				`(how|what|when|where|why|help|assist)`,
				`(instruction|procedure|guideline|manual)`,
				`(don't know|not sure|confused|unclear|unsure)`,
				`(explain|clarify|understand|learn|show me)`,
				`(\?|help me|need help|assistance)`,
				`(new.*equipment|operate|use.*machine)`,
			),
			Specific: compileAll(
				`how.*`, `what.*`, `help`, `procedure`, `unclear`,
			),
		},
	}
}
