package plot

import (
	"fmt"
	"html"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/Hellyhoken/helly-plot/src/data"
)

// DefaultExportDPI is the resolution used when callers pass zero.
const DefaultExportDPI = 150

// ExportError reports an I/O or encoding failure while writing an image
// file. Unlike render failures it propagates to the caller.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Export writes the current surface contents to path, PNG or SVG by
// extension, scaled to the requested resolution. A file partially written
// before a failure is removed so no truncated image is left behind.
func (r *Renderer) Export(path string, dpi int) error {
	if dpi <= 0 {
		dpi = DefaultExportDPI
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".svg" {
		return &ExportError{Path: path, Err: fmt.Errorf("unsupported format %q", ext)}
	}
	f, err := os.Create(path)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	werr := r.ExportTo(f, strings.TrimPrefix(ext, "."), dpi)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(path)
		return &ExportError{Path: path, Err: werr}
	}
	data.Infof("exported %s at %d dpi", path, dpi)
	return nil
}

// ExportTo writes the surface to w in the named format ("png" or "svg") at
// the given resolution. Callers that own the destination (save dialogs)
// use this directly; Export wraps it with file handling.
func (r *Renderer) ExportTo(w io.Writer, format string, dpi int) error {
	if dpi <= 0 {
		dpi = DefaultExportDPI
	}
	scale := float64(dpi) / float64(baseDPI)
	width := int(float64(r.width) * scale)
	height := int(float64(r.height) * scale)

	switch format {
	case "png", "svg":
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	if r.ch != nil {
		// Re-render the retained chart at the export resolution.
		ch := *r.ch
		ch.Width = width
		ch.Height = height
		provider := chart.PNG
		if format == "svg" {
			provider = chart.SVG
		}
		return ch.Render(provider, w)
	}

	// Placeholder or cleared surface.
	if format == "png" {
		return png.Encode(w, r.img)
	}
	return writeMessageSVG(w, width, height, r.note, r.noteColor)
}

// writeMessageSVG emits a minimal standalone SVG holding the surface's
// centered message, for exporting placeholder states.
func writeMessageSVG(w io.Writer, width, height int, text string, col color.Color) error {
	fill := "#000000"
	if col != nil {
		cr, cg, cb, _ := col.RGBA()
		fill = fmt.Sprintf("#%02x%02x%02x", uint8(cr>>8), uint8(cg>>8), uint8(cb>>8))
	}
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="%d" height="%d" fill="#ffffff"/>`+
			`<text x="50%%" y="50%%" text-anchor="middle" dominant-baseline="middle" `+
			`font-family="monospace" font-size="14" fill="%s">%s</text></svg>`+"\n",
		width, height, width, height, width, height, fill, html.EscapeString(text))
	return err
}
