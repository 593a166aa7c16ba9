package progress

import (
	"slices"
	"testing"
	"time"

	"github.com/felixgeelhaar/wolong/internal/achievement"
	"github.com/felixgeelhaar/wolong/internal/domain"
)

func TestDecode_OnlyTotalStars(t *testing.T) {
	p, err := Decode([]byte(`{"totalStars":10}`), testNow)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if p.TotalStars != 10 {
		t.Errorf("TotalStars = %d, want 10", p.TotalStars)
	}
	for _, mode := range domain.AllModes() {
		levels, ok := p.CompletedLevels[mode]
		if !ok || levels == nil || len(levels) != 0 {
			t.Errorf("CompletedLevels[%s] = %v, want empty", mode, levels)
		}
	}
	if len(p.Achievements) != len(domain.DefaultAchievements()) {
		t.Errorf("len(Achievements) = %d, want full default list", len(p.Achievements))
	}
	if p.CurrentLevel != domain.RankNovice {
		t.Errorf("CurrentLevel = %v, want default", p.CurrentLevel)
	}
	if !p.LastPlayed.Equal(testNow) {
		t.Errorf("LastPlayed = %v, want %v", p.LastPlayed, testNow)
	}
}

func TestDecode_PartialAchievementsNotBackfilled(t *testing.T) {
	blob := `{"achievements":[{"id":"first-steps","name":"初出茅庐","description":"完成第一个关卡","icon":"🌱","unlocked":true,"unlockedAt":"2026-05-01T08:00:00Z"}]}`

	p, err := Decode([]byte(blob), testNow)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(p.Achievements) != 1 {
		t.Fatalf("len(Achievements) = %d, want exactly 1", len(p.Achievements))
	}
	a := p.Achievements[0]
	if a.ID != domain.AchievementFirstSteps || !a.Unlocked || a.UnlockedAt == nil {
		t.Errorf("Achievements[0] = %+v", a)
	}
}

func TestDecode_EmptyAchievementListKept(t *testing.T) {
	p, err := Decode([]byte(`{"achievements":[]}`), testNow)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(p.Achievements) != 0 {
		t.Errorf("len(Achievements) = %d, want 0", len(p.Achievements))
	}
}

func TestDecode_CompletedLevelsMergedPerMode(t *testing.T) {
	blob := `{"completedLevels":{"round-up":[1,2,2,0],"chess":[1]}}`

	p, err := Decode([]byte(blob), testNow)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got := p.CompletedLevels[domain.ModeRoundUp]; !slices.Equal(got, []int{1, 2}) {
		t.Errorf("CompletedLevels[round-up] = %v, want [1 2]", got)
	}
	if got := p.CompletedLevels[domain.ModeBalance]; got == nil || len(got) != 0 {
		t.Errorf("CompletedLevels[balance] = %v, want empty default", got)
	}
	if _, ok := p.CompletedLevels["chess"]; ok {
		t.Error("unknown mode should be ignored")
	}
}

func TestDecode_MalformedFieldsFallBack(t *testing.T) {
	blob := `{"totalStars":"lots","completedLevels":{"balance":"x","multiplication":[3]},"achievements":{"bad":true},"currentLevel":"emperor","lastPlayed":42,"extra":true}`

	p, err := Decode([]byte(blob), testNow)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if p.TotalStars != 0 {
		t.Errorf("TotalStars = %d, want 0", p.TotalStars)
	}
	if got := p.CompletedLevels[domain.ModeMultiplication]; !slices.Equal(got, []int{3}) {
		t.Errorf("CompletedLevels[multiplication] = %v, want [3]", got)
	}
	if got := p.CompletedLevels[domain.ModeBalance]; len(got) != 0 {
		t.Errorf("CompletedLevels[balance] = %v, want empty", got)
	}
	if len(p.Achievements) != len(domain.DefaultAchievements()) {
		t.Errorf("len(Achievements) = %d, want defaults", len(p.Achievements))
	}
	if p.CurrentLevel != domain.RankNovice {
		t.Errorf("CurrentLevel = %v, want default", p.CurrentLevel)
	}
}

func TestDecode_RecomputesCurrentLevel(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want domain.Rank
	}{
		{"missing with high stars", `{"totalStars":150}`, domain.RankSleepingDragon},
		{"stale lower rank", `{"totalStars":60,"currentLevel":"书童"}`, domain.RankTactician},
		{"stale higher rank", `{"totalStars":5,"currentLevel":"卧龙"}`, domain.RankNovice},
		{"threshold", `{"totalStars":20,"currentLevel":"书童"}`, domain.RankStrategist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode([]byte(tt.blob), testNow)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if p.CurrentLevel != tt.want {
				t.Errorf("CurrentLevel = %v, want %v", p.CurrentLevel, tt.want)
			}
		})
	}
}

func TestDecode_HighStarsThenRoundKeepsTopRankLocked(t *testing.T) {
	p, err := Decode([]byte(`{"totalStars":150}`), testNow)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	p.TotalStars++
	p.CompletedLevels[domain.ModeRoundUp] = append(p.CompletedLevels[domain.ModeRoundUp], 1)
	after := achievement.CheckAndUnlock(p, achievement.Round{
		Mode:           domain.ModeRoundUp,
		StarsEarned:    1,
		ElapsedSeconds: 120,
	}, testNow)

	if a, _ := after.Achievement(domain.AchievementMasterStrategist); a.Unlocked {
		t.Error("master-strategist unlocked without a rank transition")
	}
	if after.CurrentLevel != domain.RankSleepingDragon {
		t.Errorf("CurrentLevel = %v, want %v", after.CurrentLevel, domain.RankSleepingDragon)
	}
}

func TestDecode_NotAnObject(t *testing.T) {
	for _, blob := range []string{`not json`, `[1,2]`, `"text"`} {
		p, err := Decode([]byte(blob), testNow)
		if err == nil {
			t.Errorf("Decode(%q) should fail", blob)
		}
		if p.TotalStars != 0 || len(p.Achievements) != len(domain.DefaultAchievements()) {
			t.Errorf("Decode(%q) should return defaults, got %+v", blob, p)
		}
	}
}

func TestEncodeDecode_PreservesRecord(t *testing.T) {
	p := Defaults(testNow)
	p.TotalStars = 42
	p.CompletedLevels[domain.ModeBalance] = []int{1, 2, 3}
	p.CurrentLevel = domain.RankStrategist
	at := testNow.Add(-24*time.Hour)
	p.Achievements[0].Unlocked = true
	p.Achievements[0].UnlockedAt = &at

	data, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(data, testNow.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got.TotalStars != 42 || got.CurrentLevel != domain.RankStrategist {
		t.Errorf("got stars %d rank %v", got.TotalStars, got.CurrentLevel)
	}
	if !slices.Equal(got.CompletedLevels[domain.ModeBalance], []int{1, 2, 3}) {
		t.Errorf("CompletedLevels[balance] = %v", got.CompletedLevels[domain.ModeBalance])
	}
	if !got.LastPlayed.Equal(testNow) {
		t.Errorf("LastPlayed = %v, want persisted %v", got.LastPlayed, testNow)
	}
	if got.Achievements[0].UnlockedAt == nil || !got.Achievements[0].UnlockedAt.Equal(at) {
		t.Errorf("UnlockedAt = %v, want %v", got.Achievements[0].UnlockedAt, at)
	}
}
