package markdown

import (
	"regexp"
	"strings"
)

// RunKind is the formatting applied to a Run.
type RunKind int

const (
	RunPlain RunKind = iota
	RunBold
	RunItalic
	RunCode
)

func (k RunKind) String() string {
	switch k {
	case RunPlain:
		return "plain"
	case RunBold:
		return "bold"
	case RunItalic:
		return "italic"
	case RunCode:
		return "code"
	default:
		return "unknown"
	}
}

// Marker returns the delimiter that brackets a run of this kind.
func (k RunKind) Marker() string {
	switch k {
	case RunBold:
		return "**"
	case RunItalic:
		return "*"
	case RunCode:
		return "`"
	default:
		return ""
	}
}

// Run is a span of inline text. Text has its markers stripped.
type Run struct {
	Kind RunKind
	Text string
}

// Raw returns the run as it appeared in the source, markers included.
func (r Run) Raw() string {
	marker := r.Kind.Marker()
	if marker == "" {
		return r.Text
	}
	return marker + r.Text + marker
}

// Alternation order matters: "**" must win over "*" at the same offset.
// There is no escape syntax; a backslash is an ordinary character.
var inlinePattern = regexp.MustCompile("\\*\\*[^*]+\\*\\*|`[^`]+`|\\*[^*]+\\*")

// Tokenize splits text into non-overlapping runs covering all of it.
// Unmatched markers stay in Plain runs. Empty input yields no runs.
func Tokenize(text string) []Run {
	if text == "" {
		return nil
	}
	var runs []Run
	last := 0
	for _, loc := range inlinePattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			runs = append(runs, Run{Kind: RunPlain, Text: text[last:loc[0]]})
		}
		runs = append(runs, classify(text[loc[0]:loc[1]]))
		last = loc[1]
	}
	if last < len(text) {
		runs = append(runs, Run{Kind: RunPlain, Text: text[last:]})
	}
	return runs
}

func classify(fragment string) Run {
	switch {
	case strings.HasPrefix(fragment, "**"):
		return Run{Kind: RunBold, Text: fragment[2 : len(fragment)-2]}
	case strings.HasPrefix(fragment, "`"):
		return Run{Kind: RunCode, Text: fragment[1 : len(fragment)-1]}
	default:
		return Run{Kind: RunItalic, Text: fragment[1 : len(fragment)-1]}
	}
}

// PlainText joins the marker-stripped text of runs.
func PlainText(runs []Run) string {
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

// RawText joins runs with their markers restored.
func RawText(runs []Run) string {
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.Raw())
	}
	return b.String()
}
