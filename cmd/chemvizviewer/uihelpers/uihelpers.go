package uihelpers

import "path/filepath"

// Records table column order.
const (
	ColName = iota
	ColType
	ColFlowrate
	ColFlowGauge
	ColPressure
	ColTemperature
	NumColumns
)

// ComputeTableColumnWidths returns the records table column widths for a window width.
// A zero width hides the column. Order: Name, Type, Flowrate, Flow gauge, Pressure, Temperature.
func ComputeTableColumnWidths(winW float32) [NumColumns]int {
	const compactBreakpoint = 900
	const ultraCompactBreakpoint = 520
	if winW < ultraCompactBreakpoint {
		return [NumColumns]int{120, 0, 80, 0, 0, 100}
	}
	if winW < compactBreakpoint {
		if winW < 700 {
			return [NumColumns]int{140, 100, 90, 0, 80, 110}
		}
		return [NumColumns]int{150, 110, 90, 110, 90, 110}
	}
	return [NumColumns]int{220, 160, 130, 160, 120, 140}
}

// ComputeGridColumns picks how many chart panels sit side by side. A single panel always
// takes the full width.
func ComputeGridColumns(winW float32, panels int) int {
	if panels >= 2 && winW >= 1500 {
		return 2
	}
	return 1
}

// ComputePanelDimensions sizes one chart panel for a grid of cols columns. A single column
// follows the full-width chart rules (at least 800 wide, a third as high, clamped to
// [280,520]); grid panels are at least 480 wide and half as high, clamped to [240,420].
func ComputePanelDimensions(winW float32, cols int) (int, int) {
	if cols < 1 {
		cols = 1
	}
	usable := int(winW*0.95) - 12
	w := (usable - (cols-1)*8) / cols
	if cols == 1 {
		if w < 800 {
			w = 800
		}
		return w, clamp(int(float32(w)*0.33), 280, 520)
	}
	if w < 480 {
		w = 480
	}
	return w, clamp(int(float32(w)*0.5), 240, 420)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TruncatePath shortens p to about n characters, keeping the base name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
