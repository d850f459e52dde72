package export

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/metrics"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

// SnapshotOptions controls board snapshot export.
type SnapshotOptions struct {
	Path      string          // Output path; format inferred from extension when Format empty
	Format    string          // "svg" or "png" (case-insensitive)
	Title     string          // Rendered in the header
	View      model.Board     // The filtered board to draw
	Selection model.Selection // Selected cards get a marker
}

// SaveSnapshot renders the board as a static SVG or PNG image.
func SaveSnapshot(opts SnapshotOptions) error {
	defer metrics.Timer(metrics.Export)()
	format, path, err := resolveFormat(opts.Format, opts.Path)
	if err != nil {
		return err
	}
	opts.Path = path

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildLayout(opts)
	switch format {
	case "svg":
		f, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		return renderSVGToWriter(f, layout)
	default:
		return renderPNG(opts.Path, layout)
	}
}

// SaveSnapshots writes the same board to several paths concurrently.
func SaveSnapshots(ctx context.Context, paths []string, opts SnapshotOptions) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		o := opts
		o.Path = p
		o.Format = ""
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := SaveSnapshot(o); err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// WriteSVG renders the snapshot as SVG to w.
func WriteSVG(w io.Writer, opts SnapshotOptions) error {
	return renderSVGToWriter(w, buildLayout(opts))
}

// ResolveSnapshotPath returns the file SaveSnapshot writes for path and its
// format. A path without an extension gets ".svg" appended.
func ResolveSnapshotPath(path string) (string, string, error) {
	format, resolved, err := resolveFormat("", path)
	if err != nil {
		return "", "", err
	}
	return resolved, format, nil
}

func resolveFormat(format, path string) (string, string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		ext := strings.ToLower(filepath.Ext(path))
		if ext == "" {
			format = "svg"
			if path != "" {
				path += ".svg"
			}
		} else {
			format = strings.TrimPrefix(ext, ".")
		}
	}
	if format != "svg" && format != "png" {
		return "", "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if path == "" {
		return "", "", fmt.Errorf("output path is required")
	}
	return format, path, nil
}

// --- layout computation ----------------------------------------------------

const (
	colWidth   = 240.0
	colGap     = 20.0
	margin     = 24.0
	headerH    = 72.0
	colTitleH  = 40.0
	cardH      = 44.0
	cardGap    = 10.0
	cardPad    = 10.0
	maxCardLen = 30
)

type layoutCard struct {
	Text      string
	Completed bool
	Selected  bool
	X, Y      float64
	W, H      float64
}

type layoutColumn struct {
	Title string
	Count int
	X, Y  float64
	W, H  float64
	Cards []layoutCard
}

type layoutResult struct {
	Title   string
	Summary string
	Columns []layoutColumn
	Width   int
	Height  int
}

func buildLayout(opts SnapshotOptions) layoutResult {
	title := opts.Title
	if title == "" {
		title = "dragtodo"
	}
	res := layoutResult{Title: title}

	tallest := 0
	for _, c := range opts.View {
		tallest = max(tallest, len(c.Tasks))
	}
	colH := colTitleH + float64(tallest)*(cardH+cardGap) + cardGap
	total, done := 0, 0

	for i, c := range opts.View {
		x := margin + float64(i)*(colWidth+colGap)
		y := headerH + margin
		lc := layoutColumn{Title: truncate(c.Title, maxCardLen), Count: len(c.Tasks), X: x, Y: y, W: colWidth, H: colH}
		for j, t := range c.Tasks {
			total++
			if t.IsCompleted {
				done++
			}
			lc.Cards = append(lc.Cards, layoutCard{
				Text:      truncate(t.Description, maxCardLen),
				Completed: t.IsCompleted,
				Selected:  opts.Selection.Contains(t.ID, c.ID),
				X:         x + cardPad,
				Y:         y + colTitleH + float64(j)*(cardH+cardGap),
				W:         colWidth - 2*cardPad,
				H:         cardH,
			})
		}
		res.Columns = append(res.Columns, lc)
	}

	res.Summary = fmt.Sprintf("columns: %d  tasks: %d  done: %d  selected: %d", len(opts.View), total, done, len(opts.Selection))
	n := max(len(opts.View), 1)
	res.Width = int(2*margin + float64(n)*colWidth + float64(n-1)*colGap)
	res.Height = int(headerH + 2*margin + colH)
	return res
}

var (
	colorOpen     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorDone     = color.RGBA{0xc8, 0xe6, 0xc9, 0xff}
	colorSelected = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorColumnBG = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
)

func cardColor(c layoutCard) color.RGBA {
	if c.Completed {
		return colorDone
	}
	return colorOpen
}

func renderPNG(path string, layout layoutResult) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, headerH-16, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Title, 32, 36, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(layout.Summary, 32, 56, 0, 0.5)

	for _, col := range layout.Columns {
		dc.SetColor(colorColumnBG)
		dc.DrawRoundedRectangle(col.X, col.Y, col.W, col.H, 10)
		dc.Fill()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(fmt.Sprintf("%s (%d)", col.Title, col.Count), col.X+12, col.Y+20, 0, 0.5)
		for _, card := range col.Cards {
			drawCard(dc, card)
		}
	}

	return dc.SavePNG(path)
}

func drawCard(dc *gg.Context, c layoutCard) {
	dc.SetColor(cardColor(c))
	dc.DrawRoundedRectangle(c.X, c.Y, c.W, c.H, 6)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1.2)
	if c.Selected {
		dc.SetColor(colorSelected)
		dc.SetLineWidth(3)
	}
	dc.DrawRoundedRectangle(c.X, c.Y, c.W, c.H, 6)
	dc.Stroke()

	dc.SetColor(colorText)
	if c.Completed {
		dc.SetColor(colorSubtle)
	}
	dc.DrawStringAnchored(c.Text, c.X+10, c.Y+c.H/2, 0, 0.5)
	if c.Completed {
		w, _ := dc.MeasureString(c.Text)
		dc.DrawLine(c.X+10, c.Y+c.H/2, c.X+10+w, c.Y+c.H/2)
		dc.Stroke()
	}
}

func renderSVGToWriter(w io.Writer, layout layoutResult) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(headerH-16), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(32, 40, layout.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 60, layout.Summary, fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))

	for _, col := range layout.Columns {
		canvas.Roundrect(int(col.X), int(col.Y), int(col.W), int(col.H), 10, 10, fmt.Sprintf("fill:%s", css(colorColumnBG)))
		canvas.Text(int(col.X)+12, int(col.Y)+24, fmt.Sprintf("%s (%d)", col.Title, col.Count),
			fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;font-weight:bold", css(colorText)))
		for _, c := range col.Cards {
			stroke := fmt.Sprintf("stroke:%s;stroke-width:1.2", css(colorStroke))
			if c.Selected {
				stroke = fmt.Sprintf("stroke:%s;stroke-width:3", css(colorSelected))
			}
			canvas.Roundrect(int(c.X), int(c.Y), int(c.W), int(c.H), 6, 6, fmt.Sprintf("fill:%s;%s", css(cardColor(c)), stroke))
			style := fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorText))
			if c.Completed {
				style = fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;text-decoration:line-through", css(colorSubtle))
			}
			canvas.Text(int(c.X)+10, int(c.Y+c.H/2)+4, c.Text, style)
		}
	}

	canvas.End()
	return nil
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
