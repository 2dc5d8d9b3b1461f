package breakpoint

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Title is printed above every rendered table
const Title = "Breakpoints"

// Widths returns the widest cell of each column
func Widths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

// Render writes the title and rows, each cell right-justified to its
// column width and separated by two spaces.
func Render(w io.Writer, rows [][]string) error {
	widths := Widths(rows)

	if _, err := fmt.Fprintln(w, Title); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%*s", widths[i], cell)
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}
	return nil
}
