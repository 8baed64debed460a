package risk

// Severity tags how acute a single signal is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Signal type constants - each corresponds to one collector check.
const (
	SignalMissedCheckins       = "missed_checkins"
	SignalChatInactivity       = "chat_inactivity"
	SignalJournalInactivity    = "journal_inactivity"
	SignalDecliningMood        = "declining_mood"
	SignalHighUrges            = "high_urges"
	SignalPoorSleep            = "poor_sleep"
	SignalHighStress           = "high_stress"
	SignalMilestoneApproaching = "milestone_approaching"
)

// Signal is one weighted, severity-tagged observation about user behavior.
// Signals are transient: recomputed fresh on every evaluation cycle from
// live data, never persisted on their own.
type Signal struct {
	Type        string
	Severity    Severity
	Description string
	Weight      float64 // in [0,1]
}

// IsAcute reports whether this signal alone should trigger an intervention
// regardless of the aggregate score.
func (s Signal) IsAcute() bool {
	return s.Severity == SeverityHigh || s.Severity == SeverityCritical
}
