package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/timefmt"
)

// SnapshotOptions controls Gantt snapshot export behaviour.
type SnapshotOptions struct {
	Path      string            // Output path; format inferred from extension when Format empty
	Format    string            // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title     string            // Optional title rendered in the header
	Intervals []*model.Interval // Displayed set, already filtered
	Unit      model.Unit
	MinTime   int64 // Visible range; trace extent or custom window
	MaxTime   int64
}

// SaveSnapshot renders a static Gantt snapshot. The canvas is created,
// written and released inside this call; a failed render leaves no retained
// drawing resource behind.
func SaveSnapshot(opts SnapshotOptions) error {
	if len(opts.Intervals) == 0 {
		return fmt.Errorf("no intervals to export")
	}
	if opts.MaxTime <= opts.MinTime {
		return fmt.Errorf("empty visible range")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildLayout(opts)
	if format == "svg" {
		return renderSVG(opts.Path, layout)
	}
	return renderPNG(opts.Path, layout)
}

// SaveSnapshotBoth exports the same snapshot as SVG and PNG side by side,
// rendering both formats concurrently. basePath gets the format extensions
// appended.
func SaveSnapshotBoth(basePath string, opts SnapshotOptions) error {
	var g errgroup.Group
	for _, format := range []string{"svg", "png"} {
		o := opts
		o.Format = format
		o.Path = basePath + "." + format
		g.Go(func() error { return SaveSnapshot(o) })
	}
	return g.Wait()
}

// --- layout ---------------------------------------------------------------

const (
	rowHeight   = 26
	barHeight   = 18
	labelWidth  = 260
	plotWidth   = 900
	headerH     = 48
	axisH       = 28
	marginRight = 24
	tickCount   = 6
)

type layoutBar struct {
	Label       string
	X, W        float64
	Y           float64
	Fill        color.Color
	Border      color.Color
	FillHex     string
	BorderHex   string
	Ongoing     bool
	DurationLbl string
}

type layoutTick struct {
	X     float64
	Label string
}

type layoutResult struct {
	Width, Height int
	Title         string
	Bars          []layoutBar
	Ticks         []layoutTick
}

func buildLayout(opts SnapshotOptions) layoutResult {
	span := opts.MaxTime - opts.MinTime
	scale := float64(plotWidth) / float64(span)

	layout := layoutResult{
		Width:  labelWidth + plotWidth + marginRight,
		Height: headerH + axisH + rowHeight*len(opts.Intervals) + 16,
		Title:  opts.Title,
		Bars:   make([]layoutBar, 0, len(opts.Intervals)),
	}

	for i, iv := range opts.Intervals {
		x := float64(labelWidth) + float64(iv.Start-opts.MinTime)*scale
		w := float64(iv.Duration) * scale
		if w < 1 {
			w = 1 // zero-duration tasks still get a visible sliver
		}
		layout.Bars = append(layout.Bars, layoutBar{
			Label:       iv.DisplayName,
			X:           x,
			W:           w,
			Y:           float64(headerH + axisH + i*rowHeight),
			Fill:        mustHex(iv.Colors.Primary),
			Border:      mustHex(iv.Colors.Border),
			FillHex:     iv.Colors.Primary,
			BorderHex:   iv.Colors.Border,
			Ongoing:     iv.Ongoing,
			DurationLbl: timefmt.Adaptive(iv.Duration, opts.Unit),
		})
	}

	for i := 0; i <= tickCount; i++ {
		t := opts.MinTime + span*int64(i)/tickCount
		layout.Ticks = append(layout.Ticks, layoutTick{
			X:     float64(labelWidth) + float64(t-opts.MinTime)*scale,
			Label: timefmt.Fixed(t, opts.Unit, timefmt.TargetMinutes, span) + " " + timefmt.TargetMinutes.Suffix(),
		})
	}
	return layout
}

func mustHex(hex string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.Gray{Y: 128}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

var (
	colorBackdrop = color.RGBA{R: 0x1c, G: 0x1c, B: 0x22, A: 255}
	colorText     = color.RGBA{R: 0xe6, G: 0xe6, B: 0xea, A: 255}
	colorSubtle   = color.RGBA{R: 0x9a, G: 0x9a, B: 0xa4, A: 255}
	colorGrid     = color.RGBA{R: 0x3a, G: 0x3a, B: 0x44, A: 255}
)

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// --- SVG ------------------------------------------------------------------

func renderSVG(path string, layout layoutResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return renderSVGToWriter(file, layout)
}

func renderSVGToWriter(w io.Writer, layout layoutResult) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	if layout.Title != "" {
		canvas.Text(16, 30, layout.Title,
			fmt.Sprintf("fill:%s;font-size:15px;font-family:monospace;font-weight:bold", css(colorText)))
	}

	for _, tick := range layout.Ticks {
		x := int(tick.X)
		canvas.Line(x, headerH+axisH-6, x, layout.Height-8,
			fmt.Sprintf("stroke:%s;stroke-width:1", css(colorGrid)))
		canvas.Text(x+3, headerH+16, tick.Label,
			fmt.Sprintf("fill:%s;font-size:10px;font-family:monospace", css(colorSubtle)))
	}

	for _, bar := range layout.Bars {
		canvas.Text(8, int(bar.Y)+barHeight-4, truncateLabel(bar.Label, 36),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorText)))
		style := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", bar.FillHex, bar.BorderHex)
		if bar.Ongoing {
			style += ";fill-opacity:0.5;stroke-dasharray:4 2"
		}
		canvas.Roundrect(int(bar.X), int(bar.Y), int(bar.W), barHeight, 3, 3, style)
		canvas.Text(int(bar.X+bar.W)+5, int(bar.Y)+barHeight-4, bar.DurationLbl,
			fmt.Sprintf("fill:%s;font-size:10px;font-family:monospace", css(colorSubtle)))
	}

	canvas.End()
	return nil
}

// --- PNG ------------------------------------------------------------------

func renderPNG(path string, layout layoutResult) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if layout.Title != "" {
		dc.SetColor(colorText)
		dc.DrawString(layout.Title, 16, 30)
	}

	dc.SetLineWidth(1)
	for _, tick := range layout.Ticks {
		dc.SetColor(colorGrid)
		dc.DrawLine(tick.X, headerH+axisH-6, tick.X, float64(layout.Height-8))
		dc.Stroke()
		dc.SetColor(colorSubtle)
		dc.DrawString(tick.Label, tick.X+3, headerH+16)
	}

	for _, bar := range layout.Bars {
		dc.SetColor(colorText)
		dc.DrawString(truncateLabel(bar.Label, 36), 8, bar.Y+barHeight-4)

		dc.SetColor(bar.Fill)
		dc.DrawRoundedRectangle(bar.X, bar.Y, bar.W, barHeight, 3)
		dc.Fill()
		dc.SetColor(bar.Border)
		dc.DrawRoundedRectangle(bar.X, bar.Y, bar.W, barHeight, 3)
		dc.Stroke()

		dc.SetColor(colorSubtle)
		dc.DrawString(bar.DurationLbl, bar.X+bar.W+5, bar.Y+barHeight-4)
	}

	return dc.SavePNG(path)
}

func truncateLabel(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
