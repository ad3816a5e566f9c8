// Package chunker splits extracted text into overlapping windows sized
// for embedding. Pure and deterministic: no I/O, no API calls.
package chunker

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultSize    = 1000
	defaultOverlap = 200
)

// Piece is one chunk of text with its character offsets into the input.
// Start is inclusive, End exclusive.
type Piece struct {
	Start   int
	End     int
	Content string
}

// Chunker splits text into overlapping character windows, preferring
// sentence or word boundaries near the end of each window.
type Chunker struct {
	size    int
	overlap int
}

// New returns a chunker with the given window size and overlap in
// characters. Non-positive size falls back to the default; an overlap
// at or above size is coerced to size/2.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = defaultSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return &Chunker{size: size, overlap: overlap}
}

// Chunk splits text into ordered, overlapping pieces. Consecutive
// pieces share at least the configured overlap, so their union covers
// the input with no gaps. Text at or under the window size comes back
// as a single piece. Whitespace-only input yields nothing.
func (c *Chunker) Chunk(text string) []Piece {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	n := len(text)
	if n <= c.size {
		return []Piece{{Start: 0, End: n, Content: text}}
	}

	var pieces []Piece
	start := 0
	for start < n {
		end := start + c.size
		if end >= n {
			end = n
		} else {
			// Boundaries land on rune starts so multi-byte text is
			// never split mid-rune.
			end = snapToRune(text, breakPoint(text, start, end))
			if end <= start {
				_, w := utf8.DecodeRuneInString(text[start:])
				end = start + w
			}
		}

		pieces = append(pieces, Piece{Start: start, End: end, Content: text[start:end]})
		if end >= n {
			break
		}

		// Next window starts overlap characters before this one ended,
		// never moving backwards past the current start.
		next := snapToRune(text, end-c.overlap)
		if next <= start {
			_, w := utf8.DecodeRuneInString(text[start:])
			next = start + w
		}
		start = next
	}
	return pieces
}

// breakPoint walks back from end looking for a space, newline or
// sentence end within the last tenth of the window, so chunks avoid
// splitting words where possible.
func breakPoint(text string, start, end int) int {
	lookBack := (end - start) / 10
	for i := end - 1; i >= end-lookBack && i > start; i-- {
		switch text[i] {
		case ' ', '\n', '.':
			return i + 1
		}
	}
	return end
}

// snapToRune moves i back to the start of the rune it falls inside.
func snapToRune(text string, i int) int {
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

// Size returns the configured window size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }
