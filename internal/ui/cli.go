package ui

import (
	"fmt"
	"io"
	"strings"
)

const (
	wrapWidth = 78
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"
)

// CLI is the terminal Renderer: wrapped rationale text, with every anchor
// numbered the first time it's seen and that number reused on repeats.
type CLI struct {
	w          io.Writer
	anchors    map[Location]int
	nextAnchor int
}

// NewCLI builds a CLI renderer writing to w.
func NewCLI(w io.Writer) *CLI {
	return &CLI{w: w, anchors: make(map[Location]int)}
}

func (c *CLI) Prolog() error {
	_, err := fmt.Fprintln(c.w, "aardwolf fault localization")
	return err
}

func (c *CLI) Plugin(name string) error {
	_, err := fmt.Fprintf(c.w, "\n== %s ==\n", name)
	return err
}

func (c *CLI) Result(item RenderItem) error {
	num := c.anchorNumber(item.Location)
	if _, err := fmt.Fprintf(c.w, "[%d] %s suspiciousness=%.4f\n",
		num, formatLoc(item.Location), item.Suspiciousness); err != nil {
		return err
	}
	text := c.rationaleText(item.Rationale)
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(c.w, wrap(text, wrapWidth))
	return err
}

func (c *CLI) Error(err error) error {
	_, werr := fmt.Fprintf(c.w, "%s%s%s\n", ansiRed, err.Error(), ansiReset)
	return werr
}

func (c *CLI) Epilog() error {
	_, err := fmt.Fprintln(c.w, "\ndone")
	return err
}

// anchorNumber assigns the next sequential number to loc the first time
// it's seen, and returns the same number on every later call with an
// equal Location.
func (c *CLI) anchorNumber(loc Location) int {
	if n, ok := c.anchors[loc]; ok {
		return n
	}
	c.nextAnchor++
	c.anchors[loc] = c.nextAnchor
	return c.nextAnchor
}

func (c *CLI) rationaleText(chunks []RationaleChunk) string {
	var b strings.Builder
	for _, ch := range chunks {
		if ch.Anchor != nil {
			fmt.Fprintf(&b, "[%d %s]", c.anchorNumber(*ch.Anchor), formatLoc(*ch.Anchor))
		} else {
			b.WriteString(ch.Text)
		}
	}
	return b.String()
}

func formatLoc(l Location) string {
	if l.LineBegin == l.LineEnd {
		return fmt.Sprintf("%s:%d", l.File, l.LineBegin)
	}
	return fmt.Sprintf("%s:%d-%d", l.File, l.LineBegin, l.LineEnd)
}

// wrap greedily fills lines up to width, treating existing newlines in s as
// hard paragraph breaks.
func wrap(s string, width int) string {
	paragraphs := strings.Split(s, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wrapLine(p, width)
	}
	return strings.Join(paragraphs, "\n")
}

func wrapLine(line string, width int) string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if i > 0 {
			if lineLen+1+len(w) > width {
				b.WriteString("\n")
				lineLen = 0
			} else {
				b.WriteString(" ")
				lineLen++
			}
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}
