// Package output renders backend records as styled terminal tables.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"vittlify/internal/domain/entity"
)

// NoDataMessage is printed instead of an empty table.
const NoDataMessage = "No data found."

// TableOptions controls a single table.
type TableOptions struct {
	Title string
	// Quiet drops the title and every border so output is easy to post-process.
	Quiet bool
}

// Renderer writes tables and messages. Tables and confirmations go to out,
// error text goes to errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	lg     *lipgloss.Renderer
	styles Styles
	width  int
}

// RendererOption customizes a Renderer.
type RendererOption func(*rendererSettings)

type rendererSettings struct {
	profile    *termenv.Profile
	width      int
	background *bool
}

// WithColorProfile forces a color profile instead of detecting one from out.
func WithColorProfile(profile termenv.Profile) RendererOption {
	return func(s *rendererSettings) {
		s.profile = &profile
	}
}

// WithWidth forces the terminal width used for column sizing.
func WithWidth(width int) RendererOption {
	return func(s *rendererSettings) {
		s.width = width
	}
}

// WithDarkBackground skips background detection.
func WithDarkBackground(dark bool) RendererOption {
	return func(s *rendererSettings) {
		s.background = &dark
	}
}

// NewRenderer returns a renderer writing to out and errOut.
func NewRenderer(out, errOut io.Writer, opts ...RendererOption) *Renderer {
	var settings rendererSettings
	for _, opt := range opts {
		opt(&settings)
	}

	lg := lipgloss.NewRenderer(out)
	if settings.profile != nil {
		lg.SetColorProfile(*settings.profile)
	}
	if settings.background != nil {
		lg.SetHasDarkBackground(*settings.background)
	}

	width := settings.width
	if width <= 0 {
		f, _ := out.(*os.File)
		width = TerminalWidth(f)
	}

	return &Renderer{
		out:    out,
		errOut: errOut,
		lg:     lg,
		styles: NewStyles(lg),
		width:  width,
	}
}

// Width returns the terminal width used for column sizing.
func (r *Renderer) Width() int {
	return r.width
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Row formats record for this renderer's width.
func (r *Renderer) Row(record entity.Record, opts RowOptions) Row {
	return FormatRow(record, opts, r.width)
}

// Render writes rows as a table, or NoDataMessage when there are none.
func (r *Renderer) Render(rows []Row, opts TableOptions) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.out, r.styles.Error.Render(NoDataMessage))
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.lg.NewStyle()).
		BorderHeader(false).
		BorderRow(false).
		StyleFunc(func(int, int) lipgloss.Style { return r.styles.Cell })

	if opts.Quiet {
		t = t.Border(lipgloss.HiddenBorder())
	}

	for _, row := range rows {
		t = t.Row(r.renderCells(row)...)
	}

	if opts.Title != "" && !opts.Quiet {
		if _, err := fmt.Fprintln(r.out, r.styles.Title.Render(opts.Title)); err != nil {
			return err
		}
	}

	rendered := t.Render()
	if opts.Quiet {
		rendered = trimHiddenEdges(rendered)
	}

	_, err := fmt.Fprintln(r.out, rendered)
	return err
}

// trimHiddenEdges drops the blank lines a hidden border leaves above and below
// the rows, and the trailing padding of every line.
func trimHiddenEdges(rendered string) string {
	lines := strings.Split(rendered, "\n")
	if len(lines) > 2 {
		lines = lines[1 : len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderCells(row Row) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = r.styles.For(cell.Role, cell.Muted).Render(cell.Text)
	}
	return cells
}

// Write writes p to out unchanged.
func (r *Renderer) Write(p []byte) (int, error) {
	return r.out.Write(p)
}

// Println writes a plain line to out.
func (r *Renderer) Println(text string) error {
	_, err := fmt.Fprintln(r.out, text)
	return err
}

// Errorln writes text to errOut in the error color.
func (r *Renderer) Errorln(text string) error {
	_, err := fmt.Fprintln(r.errOut, r.styles.Error.Render(text))
	return err
}

// Plainln writes text to errOut without styling.
func (r *Renderer) Plainln(text string) error {
	_, err := fmt.Fprintln(r.errOut, text)
	return err
}
