// Package uihelpers holds pure helpers for the viewer so they can be tested
// without a running UI.
package uihelpers

import (
	"fmt"
	"path/filepath"
)

// ComputeChartDimensions applies the width/height clamp rules used for the
// plot surface. Input: desired raw width (e.g. available canvas width).
// Returns clamped width and a 4:3 height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 640 {
		w = 640
	}
	if w > 1600 {
		w = 1600
	}
	h := w * 3 / 4
	return w, h
}

// TruncatePath shortens a file path to at most n characters, keeping the
// base name readable.
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
	if left <= 0 {
		return "..." + base
	}
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}

// FormatShape renders a "Rows: n, Columns: m" status fragment.
func FormatShape(rows, cols int) string {
	return fmt.Sprintf("Rows: %d, Columns: %d", rows, cols)
}
