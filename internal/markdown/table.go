package markdown

import "strings"

// tableStartsAt reports whether lines[index] is a header row confirmed by a
// separator row on the following line. It never consumes anything.
func tableStartsAt(lines []string, index int) bool {
	if index+1 >= len(lines) {
		return false
	}
	if !strings.Contains(lines[index], "|") {
		return false
	}
	return isTableSeparator(lines[index+1])
}

// isTableSeparator matches rows such as "|---|:--:|". Once the line is
// trimmed and one bordering pipe is stripped from each side, something must
// remain and it may hold only dashes, colons, pipes and whitespace. A row of
// blank cells like "| | |" therefore counts as a separator.
func isTableSeparator(line string) bool {
	inner := trimPipes(strings.TrimSpace(line))
	if inner == "" {
		return false
	}
	return strings.IndexFunc(inner, func(r rune) bool {
		switch r {
		case '-', ':', '|', ' ', '\t':
			return false
		}
		return true
	}) == -1
}

// splitTableRow splits a row on '|' and trims every cell. The empty cells a
// bordering pipe would produce are dropped; inner empty cells are kept.
func splitTableRow(line string) []string {
	cells := strings.Split(trimPipes(strings.TrimSpace(line)), "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func trimPipes(s string) string {
	s = strings.TrimPrefix(s, "|")
	return strings.TrimSuffix(s, "|")
}
