package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{60, 16, false},
		{59, 24, true},
		{80, 15, true},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeaderShowsGoldAndStreak(t *testing.T) {
	out := RenderHeader("Focus", 42, 3, 80)
	if !strings.Contains(out, "42") || !strings.Contains(out, "3 day") {
		t.Errorf("header missing gold or streak: %q", out)
	}
}

func TestRenderFrameHeight(t *testing.T) {
	h := RenderHeader("Focus", 0, 0, 70)
	f := RenderFooter([]KeyHint{{Key: "q", Description: "quit"}}, 70)
	out := RenderFrame(h, "body", f, 70, 20)
	if got := lipgloss.Height(out); got != 20 {
		t.Errorf("frame height = %d, want 20", got)
	}
}
