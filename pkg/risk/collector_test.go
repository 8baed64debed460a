package risk

import (
	"testing"
	"time"
)

func ts(t time.Time) *time.Time { return &t }

func hasSignal(signals []Signal, typ string) bool {
	for _, s := range signals {
		if s.Type == typ {
			return true
		}
	}
	return false
}

// activeSnapshot is a user with healthy, recent activity everywhere.
func activeSnapshot(now time.Time) Snapshot {
	sobriety := now.AddDate(0, 0, -45)
	return Snapshot{
		LastCheckIn:      ts(now.Add(-6 * time.Hour)),
		LastChat:         ts(now.Add(-3 * time.Hour)),
		LastJournal:      ts(now.Add(-12 * time.Hour)),
		RecentMoodScores: []float64{7, 6, 8},
		AvgUrgeIntensity: 2.0,
		UrgeSamples:      4,
		AvgStressLevel:   3.0,
		AvgSleepHours:    7.5,
		BiometricSamples: 2,
		SobrietyDate:     &sobriety,
	}
}

func TestCollectHealthyUserNoSignals(t *testing.T) {
	now := time.Now()
	signals := NewCollector(DefaultConfig()).Collect(activeSnapshot(now), now)
	if len(signals) != 0 {
		t.Errorf("expected no signals for a healthy snapshot, got %v", signals)
	}
}

func TestCollectInactivitySignals(t *testing.T) {
	now := time.Now()
	snap := activeSnapshot(now)
	snap.LastCheckIn = ts(now.Add(-72 * time.Hour))
	snap.LastChat = nil
	snap.LastJournal = nil

	signals := NewCollector(DefaultConfig()).Collect(snap, now)

	for _, want := range []string{SignalMissedCheckins, SignalChatInactivity, SignalJournalInactivity} {
		if !hasSignal(signals, want) {
			t.Errorf("missing %s", want)
		}
	}
}

func TestCollectDecliningMood(t *testing.T) {
	now := time.Now()
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		scores []float64
		want   bool
	}{
		{"low average triggers", []float64{3, 2, 4}, true},
		{"healthy average does not", []float64{6, 7, 5}, false},
		{"too few samples does not", []float64{1, 2}, false},
		{"boundary average does not", []float64{4, 4, 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := activeSnapshot(now)
			snap.RecentMoodScores = tt.scores
			signals := NewCollector(cfg).Collect(snap, now)
			if got := hasSignal(signals, SignalDecliningMood); got != tt.want {
				t.Errorf("declining mood = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectDecliningMoodIsAcute(t *testing.T) {
	now := time.Now()
	snap := activeSnapshot(now)
	snap.RecentMoodScores = []float64{2, 3, 2}

	signals := NewCollector(DefaultConfig()).Collect(snap, now)
	for _, s := range signals {
		if s.Type == SignalDecliningMood && !s.IsAcute() {
			t.Error("declining mood must be high severity so it cannot be diluted away")
		}
	}
}

func TestCollectUrgesAndBiometrics(t *testing.T) {
	now := time.Now()
	snap := activeSnapshot(now)
	snap.AvgUrgeIntensity = 7.5
	snap.AvgStressLevel = 8.0
	snap.AvgSleepHours = 4.0

	signals := NewCollector(DefaultConfig()).Collect(snap, now)

	for _, want := range []string{SignalHighUrges, SignalHighStress, SignalPoorSleep} {
		if !hasSignal(signals, want) {
			t.Errorf("missing %s", want)
		}
	}

	// High urges frames the intervention, so it must come first.
	if signals[0].Type != SignalHighUrges {
		t.Errorf("first signal = %s, want %s", signals[0].Type, SignalHighUrges)
	}
}

func TestCollectNoBiometricDataNoBiometricSignals(t *testing.T) {
	now := time.Now()
	snap := activeSnapshot(now)
	snap.BiometricSamples = 0
	snap.AvgStressLevel = 0
	snap.AvgSleepHours = 0

	signals := NewCollector(DefaultConfig()).Collect(snap, now)
	if hasSignal(signals, SignalPoorSleep) || hasSignal(signals, SignalHighStress) {
		t.Error("absent biometric data must not be read as poor sleep or stress")
	}
}

func TestCollectMilestoneApproaching(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		daysIn   int
		want     bool
	}{
		{"two days before 30-day milestone", 28, true},
		{"day after milestone", 31, false},
		{"mid-stretch", 45, false},
		{"two days before a week", 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := activeSnapshot(now)
			snap.SobrietyDate = ts(now.AddDate(0, 0, -tt.daysIn))
			signals := NewCollector(DefaultConfig()).Collect(snap, now)
			if got := hasSignal(signals, SignalMilestoneApproaching); got != tt.want {
				t.Errorf("milestone = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectChecksAreIndependent(t *testing.T) {
	// A snapshot that trips everything at once yields one signal per check,
	// no interference.
	now := time.Now()
	sobriety := now.AddDate(0, 0, -29)
	snap := Snapshot{
		RecentMoodScores: []float64{2, 2, 3},
		AvgUrgeIntensity: 8,
		UrgeSamples:      3,
		AvgStressLevel:   9,
		AvgSleepHours:    3,
		BiometricSamples: 4,
		SobrietyDate:     &sobriety,
	}

	signals := NewCollector(DefaultConfig()).Collect(snap, now)
	if len(signals) != 8 {
		t.Errorf("got %d signals, want all 8: %v", len(signals), signals)
	}
}
