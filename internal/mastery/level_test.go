package mastery

import (
	"testing"

	"github.com/abhisek/studyquest/internal/knowledge"
)

func TestLevelMultiplier(t *testing.T) {
	tests := []struct {
		level Level
		want  float64
	}{
		{LevelStandard, 1.0},
		{LevelProficient, 1.25},
		{LevelMastery, 1.50},
		{"unknown", 1.0},
	}
	for _, tt := range tests {
		if got := tt.level.Multiplier(); got != tt.want {
			t.Errorf("%q.Multiplier() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestEffectiveMultiplier(t *testing.T) {
	tests := []struct {
		remasters int
		level     Level
		want      float64
	}{
		{0, LevelStandard, 1.0},
		{0, LevelMastery, 1.5},
		{1, LevelStandard, 1.25},
		{2, LevelProficient, 1.875},
		{4, LevelMastery, 3.0},
	}
	for _, tt := range tests {
		if got := EffectiveMultiplier(tt.remasters, tt.level); got != tt.want {
			t.Errorf("EffectiveMultiplier(%d, %s) = %v, want %v", tt.remasters, tt.level, got, tt.want)
		}
	}
}

func TestThresholdsRemasteredProficient(t *testing.T) {
	topic := &knowledge.Topic{XPRequired: 1000, MissionsRequired: 5, TimeRequired: 3600}
	branch := &knowledge.Branch{RemasterCount: 2}

	th := Thresholds(topic, branch, LevelProficient)
	if th.XP != 1875 {
		t.Errorf("XP threshold = %v, want 1875", th.XP)
	}
	// 5 * 1.875 = 9.375 rounds up.
	if th.Missions != 10 {
		t.Errorf("Missions threshold = %d, want 10", th.Missions)
	}
	if th.Time != 6750 {
		t.Errorf("Time threshold = %v, want 6750", th.Time)
	}
}

func TestThresholdMet(t *testing.T) {
	th := Threshold{XP: 100, Missions: 2, Time: 600}
	tests := []struct {
		name string
		b    knowledge.Branch
		want bool
	}{
		{"all met exactly", knowledge.Branch{CurrentXP: 100, MissionsCompleted: 2, TotalTimeSpent: 600}, true},
		{"xp short", knowledge.Branch{CurrentXP: 99.9, MissionsCompleted: 2, TotalTimeSpent: 600}, false},
		{"missions short", knowledge.Branch{CurrentXP: 500, MissionsCompleted: 1, TotalTimeSpent: 600}, false},
		{"time short", knowledge.Branch{CurrentXP: 500, MissionsCompleted: 5, TotalTimeSpent: 599}, false},
	}
	for _, tt := range tests {
		if got := th.Met(&tt.b); got != tt.want {
			t.Errorf("%s: Met = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestScaledTotals(t *testing.T) {
	b := &knowledge.Branch{TotalXPRequired: 600, TotalMissionsRequired: 10, TotalTimeRequired: 18000, RemasterCount: 1}
	got := ScaledTotals(b, LevelMastery)
	if got.XP != 1125 || got.Missions != 19 || got.Time != 33750 {
		t.Errorf("ScaledTotals = %+v, want {1125 19 33750}", got)
	}
}

func TestLevelValid(t *testing.T) {
	for _, l := range AllLevels() {
		if !l.Valid() {
			t.Errorf("%q should be valid", l)
		}
	}
	for _, l := range []Level{"", "expert", "Standard"} {
		if l.Valid() {
			t.Errorf("%q should be invalid", l)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("proficient"); err != nil || l != LevelProficient {
		t.Errorf("ParseLevel(proficient) = %q, %v", l, err)
	}
	if _, err := ParseLevel("legendary"); err == nil {
		t.Error("expected error for unknown level")
	}
}
