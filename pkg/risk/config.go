package risk

import "time"

// Config names every tuning constant of the risk engine. All values are
// hand-tuned and provisional pending product validation; they are exposed
// here (and through env overrides in internal/config) instead of being
// buried as inline literals.
type Config struct {
	// Aggregate score at or above which an intervention is triggered.
	InterventionThreshold float64

	// Per-signal weights, each in [0,1].
	WeightMissedCheckins       float64
	WeightChatInactivity       float64
	WeightJournalInactivity    float64
	WeightDecliningMood        float64
	WeightHighUrges            float64
	WeightPoorSleep            float64
	WeightHighStress           float64
	WeightMilestoneApproaching float64

	// Lookback windows.
	ActivityLookback  time.Duration // check-ins, chat, journals, biometrics
	MoodTrendLookback time.Duration

	// Check thresholds.
	MoodDeclineThreshold float64 // avg of recent mood entries below this
	MoodTrendSamples     int     // how many recent entries the average uses
	UrgeThreshold        float64 // avg urge intensity at/above this (0-10)
	StressThreshold      float64 // avg stress level at/above this (0-10)
	MinSleepHours        float64 // avg nightly sleep below this
	MilestoneWindowDays  int     // days-before a milestone counts as "approaching"
}

// DefaultConfig returns the provisional defaults.
func DefaultConfig() Config {
	return Config{
		InterventionThreshold: 0.4,

		WeightMissedCheckins:       0.3,
		WeightChatInactivity:       0.2,
		WeightJournalInactivity:    0.2,
		WeightDecliningMood:        0.4,
		WeightHighUrges:            0.5,
		WeightPoorSleep:            0.3,
		WeightHighStress:           0.3,
		WeightMilestoneApproaching: 0.1,

		ActivityLookback:  48 * time.Hour,
		MoodTrendLookback: 7 * 24 * time.Hour,

		MoodDeclineThreshold: 4.0,
		MoodTrendSamples:     3,
		UrgeThreshold:        6.0,
		StressThreshold:      7.0,
		MinSleepHours:        5.5,
		MilestoneWindowDays:  3,
	}
}
