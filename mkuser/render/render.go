// Package render maps semantic message classes to terminal styles. It
// degrades to plain text when the output is not an interactive
// terminal, NO_COLOR is set, or the terminal type is "dumb".
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Class identifies the semantic kind of a terminal message.
type Class int

const (
	Info Class = iota
	Success
	Warning
	Error
	Debug
	Highlight
	Critical
)

// Renderer writes styled messages to a terminal stream. It never
// returns an error; output is best-effort.
type Renderer struct {
	out    io.Writer
	styles map[Class]*color.Color
	plain  bool
}

// New builds a Renderer for the given stream, detecting whether
// styling should be suppressed.
func New(out *os.File) *Renderer {
	plain := !term.IsTerminal(int(out.Fd())) ||
		os.Getenv("NO_COLOR") != "" ||
		os.Getenv("TERM") == "dumb"
	return newRenderer(out, plain)
}

func newRenderer(out io.Writer, plain bool) *Renderer {
	return &Renderer{
		out:   out,
		plain: plain,
		styles: map[Class]*color.Color{
			Info:      color.New(color.Reset),
			Success:   color.New(color.FgGreen),
			Warning:   color.New(color.FgYellow),
			Error:     color.New(color.FgRed, color.Bold),
			Debug:     color.New(color.Faint),
			Highlight: color.New(color.FgCyan, color.Bold),
			Critical:  color.New(color.FgWhite, color.BgRed, color.Bold),
		},
	}
}

func (r *Renderer) Print(c Class, text string) {
	r.write(c, text, false)
}

// PrintNoNewline renders without the trailing newline, for prompts.
func (r *Renderer) PrintNoNewline(c Class, text string) {
	r.write(c, text, true)
}

func (r *Renderer) Printf(c Class, format string, args ...interface{}) {
	r.write(c, fmt.Sprintf(format, args...), false)
}

func (r *Renderer) write(c Class, text string, suppressNewline bool) {
	if !suppressNewline {
		text += "\n"
	}
	style, ok := r.styles[c]
	if r.plain || !ok {
		fmt.Fprint(r.out, text)
		return
	}
	style.Fprint(r.out, text)
}
