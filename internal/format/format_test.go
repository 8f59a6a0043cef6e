package format

import (
	"strings"
	"testing"
)

func TestClampCount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"negative clamps to zero", -5, "000"},
		{"over range clamps to 999", 1000, "999"},
		{"missing defaults to zero", nil, "000"},
		{"plain int", 42, "042"},
		{"float rounds", 41.6, "042"},
		{"numeric string", "7", "007"},
		{"garbage string", "not a number", "000"},
		{"boolean is not a number", true, "000"},
		{"boundary low", 0, "000"},
		{"boundary high", 999, "999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampCount(tt.input); got != tt.want {
				t.Errorf("ClampCount(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClampCount_Idempotent(t *testing.T) {
	for _, v := range []any{-5, 0, 7, 500, 1000, "12"} {
		once := ClampCount(v)
		if again := ClampCount(once); again != once {
			t.Errorf("ClampCount not idempotent: %q -> %q", once, again)
		}
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		input any
		want  int
	}{
		{-1, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{101, 100},
		{999, 100},
		{nil, 0},
		{"83", 83},
		{"bogus", 0},
	}

	for _, tt := range tests {
		if got := ClampPercent(tt.input); got != tt.want {
			t.Errorf("ClampPercent(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestLevelBar(t *testing.T) {
	if got := LevelBar(0, 10); strings.ContainsRune(got, '█') {
		t.Errorf("LevelBar(0) should be empty, got %q", got)
	}
	if got := LevelBar(100, 10); strings.ContainsRune(got, '░') {
		t.Errorf("LevelBar(100) should be full, got %q", got)
	}
	if got := LevelBar(50, 10); strings.Count(got, "█") != 5 {
		t.Errorf("LevelBar(50, 10) = %q, want 5 filled cells", got)
	}
	if LevelBar(50, 0) != "" {
		t.Error("zero width should render empty")
	}
	// Out-of-range input clamps rather than panics.
	if got := LevelBar(250, 4); strings.Count(got, "█") != 4 {
		t.Errorf("LevelBar(250, 4) = %q, want full bar", got)
	}
}

func TestDB(t *testing.T) {
	if got := DB(nil); got != "--.- dB" {
		t.Errorf("DB(nil) = %q", got)
	}
	v := -42.35
	if got := DB(&v); got != "-42.3 dB" && got != "-42.4 dB" {
		t.Errorf("DB(-42.35) = %q", got)
	}
}
