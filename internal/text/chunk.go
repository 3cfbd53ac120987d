package text

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Chunk splits text into pieces of roughly maxBytes that concatenate back to
// the original text exactly.
//
// Cuts are only made directly after a whitespace word segment, so no chunk
// ends inside a word or syllable. A word longer than maxBytes stays intact.
// If maxBytes is 0 or less, no splitting is performed.
func Chunk(text string, maxBytes int) []string {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return []string{text}
	}

	var (
		chunks []string
		start  int // beginning of the current chunk
		safe   int // last position directly after whitespace
		pos    int
		word   string
		state  = -1
	)
	for rest := text; len(rest) > 0; {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		pos += len(word)
		if pos-start > maxBytes && safe > start {
			chunks = append(chunks, text[start:safe])
			start = safe
		}
		if strings.TrimSpace(word) == "" {
			safe = pos
		}
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}

	return chunks
}
