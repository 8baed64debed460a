package risk

import (
	"fmt"
	"time"
)

// Snapshot is the behavioral data one evaluation cycle runs against,
// already windowed by the loader. Keeping it a plain value makes every
// check a pure function.
type Snapshot struct {
	LastCheckIn *time.Time
	LastChat    *time.Time
	LastJournal *time.Time

	// RecentMoodScores are the newest mood ratings first, limited to
	// Config.MoodTrendSamples within the mood lookback window. Scale 0-10.
	RecentMoodScores []float64

	// Urge intensity stats over the activity lookback window. Scale 0-10.
	AvgUrgeIntensity float64
	UrgeSamples      int

	// Biometric stats over the activity lookback window.
	AvgStressLevel   float64
	AvgSleepHours    float64
	BiometricSamples int

	// SobrietyDate anchors milestone computation.
	SobrietyDate *time.Time
}

// Milestone day boundaries, in recovery-day counts.
var milestoneDays = []int{7, 30, 60, 90, 180, 365, 730}

// Collector evaluates a fixed, ordered battery of independent checks.
// Checks never depend on each other's outcomes; each yields zero or one
// signal. Order matters only because the first triggered signal frames the
// intervention message, so the most acute checks run first.
type Collector struct {
	cfg Config
}

func NewCollector(cfg Config) *Collector {
	return &Collector{cfg: cfg}
}

// Collect runs every check against the snapshot at the given instant.
func (c *Collector) Collect(snap Snapshot, now time.Time) []Signal {
	checks := []func(Snapshot, time.Time) *Signal{
		c.checkHighUrges,
		c.checkDecliningMood,
		c.checkHighStress,
		c.checkPoorSleep,
		c.checkMissedCheckins,
		c.checkChatInactivity,
		c.checkJournalInactivity,
		c.checkMilestoneApproaching,
	}

	var signals []Signal
	for _, check := range checks {
		if s := check(snap, now); s != nil {
			signals = append(signals, *s)
		}
	}
	return signals
}

func (c *Collector) checkMissedCheckins(snap Snapshot, now time.Time) *Signal {
	if snap.LastCheckIn != nil && now.Sub(*snap.LastCheckIn) < c.cfg.ActivityLookback {
		return nil
	}
	return &Signal{
		Type:        SignalMissedCheckins,
		Severity:    SeverityMedium,
		Description: fmt.Sprintf("no check-in within the last %s", c.cfg.ActivityLookback),
		Weight:      c.cfg.WeightMissedCheckins,
	}
}

func (c *Collector) checkChatInactivity(snap Snapshot, now time.Time) *Signal {
	if snap.LastChat != nil && now.Sub(*snap.LastChat) < c.cfg.ActivityLookback {
		return nil
	}
	return &Signal{
		Type:        SignalChatInactivity,
		Severity:    SeverityLow,
		Description: fmt.Sprintf("no coaching conversation within the last %s", c.cfg.ActivityLookback),
		Weight:      c.cfg.WeightChatInactivity,
	}
}

func (c *Collector) checkJournalInactivity(snap Snapshot, now time.Time) *Signal {
	if snap.LastJournal != nil && now.Sub(*snap.LastJournal) < c.cfg.ActivityLookback {
		return nil
	}
	return &Signal{
		Type:        SignalJournalInactivity,
		Severity:    SeverityLow,
		Description: fmt.Sprintf("no journal entry within the last %s", c.cfg.ActivityLookback),
		Weight:      c.cfg.WeightJournalInactivity,
	}
}

func (c *Collector) checkDecliningMood(snap Snapshot, now time.Time) *Signal {
	if len(snap.RecentMoodScores) < c.cfg.MoodTrendSamples {
		return nil
	}
	sum := 0.0
	for _, score := range snap.RecentMoodScores[:c.cfg.MoodTrendSamples] {
		sum += score
	}
	avg := sum / float64(c.cfg.MoodTrendSamples)
	if avg >= c.cfg.MoodDeclineThreshold {
		return nil
	}
	return &Signal{
		Type:        SignalDecliningMood,
		Severity:    SeverityHigh,
		Description: fmt.Sprintf("average mood %.1f over the last %d entries, below %.1f", avg, c.cfg.MoodTrendSamples, c.cfg.MoodDeclineThreshold),
		Weight:      c.cfg.WeightDecliningMood,
	}
}

func (c *Collector) checkHighUrges(snap Snapshot, now time.Time) *Signal {
	if snap.UrgeSamples == 0 || snap.AvgUrgeIntensity < c.cfg.UrgeThreshold {
		return nil
	}
	return &Signal{
		Type:        SignalHighUrges,
		Severity:    SeverityHigh,
		Description: fmt.Sprintf("average urge intensity %.1f across %d reports", snap.AvgUrgeIntensity, snap.UrgeSamples),
		Weight:      c.cfg.WeightHighUrges,
	}
}

func (c *Collector) checkHighStress(snap Snapshot, now time.Time) *Signal {
	if snap.BiometricSamples == 0 || snap.AvgStressLevel < c.cfg.StressThreshold {
		return nil
	}
	return &Signal{
		Type:        SignalHighStress,
		Severity:    SeverityMedium,
		Description: fmt.Sprintf("average stress level %.1f over the last %s", snap.AvgStressLevel, c.cfg.ActivityLookback),
		Weight:      c.cfg.WeightHighStress,
	}
}

func (c *Collector) checkPoorSleep(snap Snapshot, now time.Time) *Signal {
	if snap.BiometricSamples == 0 || snap.AvgSleepHours >= c.cfg.MinSleepHours {
		return nil
	}
	return &Signal{
		Type:        SignalPoorSleep,
		Severity:    SeverityMedium,
		Description: fmt.Sprintf("average sleep %.1fh over the last %s", snap.AvgSleepHours, c.cfg.ActivityLookback),
		Weight:      c.cfg.WeightPoorSleep,
	}
}

// checkMilestoneApproaching is the one positive signal: nearing a recovery
// milestone is an opportunity for encouragement, not a warning.
func (c *Collector) checkMilestoneApproaching(snap Snapshot, now time.Time) *Signal {
	if snap.SobrietyDate == nil {
		return nil
	}
	days := int(now.Sub(*snap.SobrietyDate).Hours() / 24)
	if days < 0 {
		return nil
	}
	for _, boundary := range milestoneDays {
		remaining := boundary - days
		if remaining > 0 && remaining <= c.cfg.MilestoneWindowDays {
			return &Signal{
				Type:        SignalMilestoneApproaching,
				Severity:    SeverityLow,
				Description: fmt.Sprintf("%d days until the %d-day milestone", remaining, boundary),
				Weight:      c.cfg.WeightMilestoneApproaching,
			}
		}
	}
	return nil
}
