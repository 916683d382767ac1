// Package markdown parses the small Markdown dialect used for internal
// documentation: ATX headings, paragraphs, fenced code blocks, pipe tables,
// and **bold**, *italic* and `code` spans.
//
// Parsing never fails. Input that does not fit a construct falls back to its
// most literal reading: an unclosed fence runs to the end of the document, a
// stray '|' is paragraph text, and an unmatched marker stays in a plain run.
// Lists, blockquotes, links and backslash escapes are not recognised.
package markdown
