package text

import (
	"errors"
	"strings"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

const byteOrderMark = "\uFEFF"

// Clean drops a leading byte order mark and rejects empty or
// whitespace-only input. Everything else, line endings included, is kept.
func Clean(s string) (string, error) {
	s = strings.TrimPrefix(s, byteOrderMark)
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyText
	}
	return s, nil
}

// Normalize is Clean plus line ending normalization: CRLF and bare CR
// become \n. Surrounding whitespace is kept so converted output lines up
// with the input.
func Normalize(s string) (string, error) {
	s, err := Clean(s)
	if err != nil {
		return "", err
	}

	// CRLF → LF, then bare CR → LF.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n"), nil
}
