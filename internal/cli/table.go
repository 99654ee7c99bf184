package cli

import (
	"strings"
)

// columnGap is the spacing between table columns.
const columnGap = "  "

// Table renders rows under a header with aligned columns. Columns given a
// wrap width break long cells across lines at word boundaries.
type Table struct {
	headers []string
	rows    [][]string
	wrap    map[int]int
}

// NewTable creates a table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		wrap:    make(map[int]int),
	}
}

// WrapColumn wraps cells of column col at width characters.
func (t *Table) WrapColumn(col, width int) {
	t.wrap[col] = width
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Render formats the table. An empty header set renders nothing.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}

	// Split every cell into its display lines up front.
	cells := make([][][]string, len(t.rows))
	for r, row := range t.rows {
		cells[r] = make([][]string, len(row))
		for c, cell := range row {
			lines := wrapText(cell, t.wrap[c])
			for _, line := range lines {
				widths[c] = max(widths[c], len(line))
			}
			cells[r][c] = lines
		}
	}

	var b strings.Builder
	writeLine := func(parts []string) {
		for i, p := range parts {
			parts[i] = padRight(p, widths[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, columnGap), " "))
		b.WriteString("\n")
	}

	writeLine(append([]string(nil), t.headers...))

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeLine(sep)

	for _, row := range cells {
		height := 1
		for _, lines := range row {
			height = max(height, len(lines))
		}
		for l := 0; l < height; l++ {
			parts := make([]string, len(row))
			for c, lines := range row {
				if l < len(lines) {
					parts[c] = lines[l]
				}
			}
			writeLine(parts)
		}
	}

	return b.String()
}

// padRight pads s with spaces to width. Longer strings are returned as is.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// wrapText breaks text into lines of at most width characters at word
// boundaries. Words longer than width are split. A width of zero or less
// disables wrapping.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if width <= 0 || len(text) <= width || len(words) == 0 {
		return []string{text}
	}

	var lines []string
	line := ""
	for _, word := range words {
		for len(word) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}

		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
