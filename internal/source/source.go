package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/mdconv/internal/markdown"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxBytes bounds the size of a document accepted by Load.
const DefaultMaxBytes = 4 << 20

const (
	textDetectionSampleSize      = 4096
	nonPrintableThresholdPercent = 30
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrUnreadable  = errors.New("file unreadable")
	ErrNotMarkdown = errors.New("not a markdown file")
	ErrTooLarge    = errors.New("file too large")
	ErrBinary      = errors.New("binary content")
)

// PathError ties a loader failure to the file it happened on. Err is one of
// the sentinel errors above; Cause holds the underlying OS error, if any.
type PathError struct {
	Path  string
	Err   error
	Cause error
}

func (e *PathError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.Path, e.Err, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

var markdownExts = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".mdown":    {},
	".mkd":      {},
	".mkdown":   {},
	".mdwn":     {},
}

// IsMarkdownPath reports whether path carries a markdown extension.
func IsMarkdownPath(path string) bool {
	_, ok := markdownExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Document is a loaded markdown file split into lines.
type Document struct {
	Path  string
	Name  string
	Lines []string
}

// Loader reads markdown documents from disk.
type Loader struct {
	// MaxBytes rejects larger files. Zero uses DefaultMaxBytes.
	MaxBytes int64
}

// Load reads path with the default Loader.
func Load(path string) (*Document, error) {
	return Loader{}.Load(path)
}

// Load validates and reads path, decodes it to UTF-8 and splits it into lines.
func (l Loader) Load(path string) (*Document, error) {
	if !IsMarkdownPath(path) {
		return nil, &PathError{Path: path, Err: ErrNotMarkdown}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PathError{Path: path, Err: ErrNotFound}
		}
		return nil, &PathError{Path: path, Err: ErrUnreadable, Cause: err}
	}
	if info.IsDir() {
		return nil, &PathError{Path: path, Err: ErrUnreadable, Cause: errors.New("is a directory")}
	}

	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if info.Size() > limit {
		return nil, &PathError{Path: path, Err: ErrTooLarge, Cause: fmt.Errorf("%d bytes exceeds %d", info.Size(), limit)}
	}

	content, err := readFileHead(path, limit+1)
	if err != nil {
		return nil, &PathError{Path: path, Err: ErrUnreadable, Cause: err}
	}
	if int64(len(content)) > limit {
		return nil, &PathError{Path: path, Err: ErrTooLarge}
	}
	if !IsText(content) {
		return nil, &PathError{Path: path, Err: ErrBinary}
	}

	return &Document{
		Path:  path,
		Name:  filepath.Base(path),
		Lines: markdown.SplitLines(NormalizeText(content)),
	}, nil
}

// Glob lists the markdown files directly inside dir, sorted by name.
func Glob(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PathError{Path: dir, Err: ErrNotFound}
		}
		return nil, &PathError{Path: dir, Err: ErrUnreadable, Cause: err}
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsMarkdownPath(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func readFileHead(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(io.LimitReader(f, limit))
}

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	switch {
	case bytes.HasPrefix(sample, []byte{0xEF, 0xBB, 0xBF}):
		return encodingUTF8BOM
	case bytes.HasPrefix(sample, []byte{0xFF, 0xFE}):
		return encodingUTF16LE
	case bytes.HasPrefix(sample, []byte{0xFE, 0xFF}):
		return encodingUTF16BE
	}
	return encodingUnknown
}

// IsText reports whether content looks like text rather than binary data.
func IsText(content []byte) bool {
	if len(content) == 0 {
		return true
	}
	sample := content[:min(len(content), textDetectionSampleSize)]
	if detectUnicodeEncoding(sample) != encodingUnknown {
		return true
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}

	nonPrintable := 0
	for _, b := range sample {
		if !isCommonTextByte(b) {
			nonPrintable++
		}
	}
	return nonPrintable*100/len(sample) < nonPrintableThresholdPercent
}

func isCommonTextByte(b byte) bool {
	switch {
	case b == 0x09 || b == 0x0A || b == 0x0D:
		return true
	case b >= 0x20 && b != 0x7F:
		return true
	}
	return false
}

// NormalizeText decodes BOM-marked UTF-8 and UTF-16 content to a UTF-8
// string in NFC form. Content without a BOM is taken as UTF-8.
func NormalizeText(content []byte) string {
	var text []byte
	switch detectUnicodeEncoding(content) {
	case encodingUTF8BOM:
		text = content[3:]
	case encodingUTF16LE:
		text = decodeUTF16(content, unicode.LittleEndian)
	case encodingUTF16BE:
		text = decodeUTF16(content, unicode.BigEndian)
	default:
		text = content
	}
	return string(norm.NFC.Bytes(text))
}

func decodeUTF16(content []byte, endian unicode.Endianness) []byte {
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, err := decoder.Bytes(content)
	if err != nil {
		return content
	}
	return out
}
