package deck

import (
	"fmt"
	"io"
	"strings"
)

// wrapWidth is the column limit for deck lines; fixed-format input readers
// discard text beyond it.
const wrapWidth = 80

// Write assembles card fragments into a deck with a generated comment header
// and writes it to w. The caller owns the destination; card emission itself
// never performs I/O.
func Write(w io.Writer, title string, cards ...string) error {
	var b strings.Builder
	for _, line := range wrap("c "+title, wrapWidth) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("c generated by nucdeck\n")
	for _, card := range cards {
		b.WriteString(card)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write deck: %w", err)
	}
	return nil
}

// wrap splits a line into chunks no wider than width. Card continuations are
// indented five spaces; comment continuations keep the "c" prefix so a
// fixed-format reader does not mistake them for card data.
func wrap(line string, width int) []string {
	if len(line) <= width {
		return []string{line}
	}
	indent := "     "
	if strings.HasPrefix(line, "c ") {
		indent = "c    "
	}
	chunks := []string{line[:width]}
	rest := line[width:]
	for len(rest) > 0 {
		n := min(len(rest), width-len(indent))
		chunks = append(chunks, indent+rest[:n])
		rest = rest[n:]
	}
	return chunks
}
