package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a percentage in [0, 100] as a bar like [████░░░░]  45%.
// Green above 66%, yellow from 33%, red below.
func RenderProgress(pct float64, width int) string {
	pct = clampPct(pct)
	if width < 2 {
		width = 2
	}

	filled := int(pct / 100 * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 33 {
		style = StyleRed
	} else if pct < 66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct)
}

// RenderScoreBar renders a 0-10 score as a bare bar of the given width,
// used for trend sparklines.
func RenderScoreBar(score *float64, width int) string {
	if score == nil {
		return Dim(strings.Repeat("·", width))
	}
	filled := int(clampPct(*score*10) / 100 * float64(width))
	return StylePurple.Render(strings.Repeat(filledBlock, filled)) + Dim(strings.Repeat(emptyBlock, width-filled))
}

func clampPct(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
