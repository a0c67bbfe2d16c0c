package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/pylight/internal/editor"
	"github.com/dshills/pylight/internal/renderer/core"
	"github.com/dshills/pylight/internal/renderer/highlight"
	"github.com/dshills/pylight/internal/renderer/style"
)

// Color modes for the highlight command.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

func newHighlightCmd(a *app) *cobra.Command {
	var (
		theme     string
		colorMode string
		noNumbers bool
	)
	cmd := &cobra.Command{
		Use:   "highlight FILE",
		Short: "Print a source file with syntax highlighting",
		Long: `Print a source file with syntax highlighting and line numbers.

The language is chosen by file extension. Colors are used when standard
output is a terminal, unless --color says otherwise.

Examples:
  pylight highlight main.py
  pylight highlight --theme Dracula src/main.cpp
  pylight highlight --color never app.js | less`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.openDocument(args[0], theme)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var color bool
			switch colorMode {
			case colorAlways:
				color = true
			case colorNever:
				color = false
			case colorAuto:
				color = a.isTTY(out)
			default:
				return fmt.Errorf("invalid --color %q (must be auto, always, or never)", colorMode)
			}

			p := &printer{
				doc:     doc,
				numbers: !noNumbers,
				render:  newRenderer(out, color),
			}
			return p.print(out)
		},
	}
	cmd.Flags().StringVarP(&theme, "theme", "t", "", "color theme: Dark, Light or Dracula (default: settings theme)")
	cmd.Flags().StringVar(&colorMode, "color", colorAuto, "use colors: auto, always or never")
	cmd.Flags().BoolVarP(&noNumbers, "no-line-numbers", "N", false, "omit the line number gutter")
	return cmd
}

func newRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printer writes a document as ANSI-styled text.
type printer struct {
	doc     *editor.Document
	numbers bool
	render  *lipgloss.Renderer
}

func (p *printer) print(w io.Writer) error {
	pal := p.doc.Palette()
	number := p.render.NewStyle().Foreground(lipColor(pal.LineNumbers))
	roles := make(map[highlight.StyleID]lipgloss.Style)
	for _, id := range highlight.Styles() {
		roles[id] = lipStyle(p.render, pal.Role(id))
	}
	plain := p.render.NewStyle().Foreground(lipColor(pal.Text))

	// A trailing newline does not start a line of its own.
	n := p.doc.LineCount()
	if n > 1 && p.doc.LineText(n-1) == "" {
		n--
	}

	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.Reset()
		if p.numbers {
			sb.WriteString(number.Render(p.doc.Gutter().RenderString(i, true)))
		}
		lw := lineWriter{sb: &sb, line: []rune(p.doc.LineText(i)), tab: p.doc.TabWidth()}
		for _, sp := range p.doc.Highlights(i) {
			lw.emit(sp.Start, plain)
			st, ok := roles[sp.Style]
			if !ok {
				st = plain
			}
			lw.emit(sp.End(), st)
		}
		lw.emit(len(lw.line), plain)
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// lineWriter renders consecutive codepoint ranges of one line. Tabs are
// expanded to the next tab stop after styling, so span offsets stay in
// codepoints.
type lineWriter struct {
	sb   *strings.Builder
	line []rune
	tab  int
	pos  int
	col  int
}

func (lw *lineWriter) emit(end int, st lipgloss.Style) {
	end = min(end, len(lw.line))
	if end <= lw.pos {
		return
	}
	var seg strings.Builder
	for _, r := range lw.line[lw.pos:end] {
		if r == '\t' && lw.tab > 0 {
			n := lw.tab - lw.col%lw.tab
			seg.WriteString(strings.Repeat(" ", n))
			lw.col += n
			continue
		}
		seg.WriteRune(r)
		lw.col += core.RuneWidth(r)
	}
	lw.sb.WriteString(st.Render(seg.String()))
	lw.pos = end
}

func lipColor(c core.Color) lipgloss.TerminalColor {
	if hex := c.ToHex(); hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.NoColor{}
}

func lipStyle(r *lipgloss.Renderer, rs style.RenderStyle) lipgloss.Style {
	return r.NewStyle().
		Foreground(lipColor(rs.Foreground)).
		Bold(rs.Bold).
		Italic(rs.Italic)
}
