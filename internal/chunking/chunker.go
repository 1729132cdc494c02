package chunking

import (
	"fmt"
	"strings"
)

// Default policy values.
const (
	DefaultChunkSize = 4000
	DefaultOverlap   = 200
	DefaultMaxChunks = 15
)

// Policy controls how text is split. Overlap must be strictly smaller than
// ChunkSize; use NewPolicy to get that checked.
type Policy struct {
	ChunkSize int
	Overlap   int
	MaxChunks int
}

// DefaultPolicy returns the 4000/200/15 policy.
func DefaultPolicy() Policy {
	return Policy{ChunkSize: DefaultChunkSize, Overlap: DefaultOverlap, MaxChunks: DefaultMaxChunks}
}

// NewPolicy builds a validated policy.
func NewPolicy(chunkSize, overlap, maxChunks int) (Policy, error) {
	p := Policy{ChunkSize: chunkSize, Overlap: overlap, MaxChunks: maxChunks}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate checks the policy invariants.
func (p Policy) Validate() error {
	switch {
	case p.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidPolicy, p.ChunkSize)
	case p.Overlap < 0:
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidPolicy, p.Overlap)
	case p.Overlap >= p.ChunkSize:
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			ErrInvalidPolicy, p.Overlap, p.ChunkSize)
	case p.MaxChunks <= 0:
		return fmt.Errorf("%w: max chunks must be positive, got %d", ErrInvalidPolicy, p.MaxChunks)
	}
	return nil
}

// Stride is the distance between the starts of consecutive windows.
func (p Policy) Stride() int {
	return p.ChunkSize - p.Overlap
}

// MaxLength is the longest text the policy splits without truncation.
func (p Policy) MaxLength() int {
	return p.MaxChunks*p.Stride() + p.Overlap
}

// Chunk is one window of text. Index is contiguous from zero.
type Chunk struct {
	Index   int
	Text    string
	IsFirst bool
	IsLast  bool
}

// Result is the output of Split.
type Result struct {
	Chunks []Chunk
	// Truncated is set when the input was cut to MaxLength before splitting.
	Truncated bool
	// InputLength and NaiveCount describe the input before truncation.
	InputLength int
	NaiveCount  int
}

// Split cuts text into overlapping windows of p.ChunkSize characters, each
// starting p.Stride() after the previous one. When the naive window count
// exceeds p.MaxChunks the text is first truncated to p.MaxLength().
//
// Windows that contain only whitespace are dropped and the remaining chunks
// are renumbered. Splitting stops once a window reaches the end of the text.
// A policy whose stride is not positive yields a single chunk.
func Split(text string, p Policy) (Result, error) {
	if text == "" {
		return Result{}, ErrInvalidInput
	}

	runes := []rune(text)
	res := Result{InputLength: len(runes)}

	stride := p.Stride()
	if stride <= 0 || p.ChunkSize <= 0 {
		res.NaiveCount = 1
		res.Chunks = finish([]string{text})
		if len(res.Chunks) == 0 {
			return Result{}, ErrInvalidInput
		}
		return res, nil
	}

	res.NaiveCount = ceilDiv(len(runes), stride)
	if p.MaxChunks > 0 && res.NaiveCount > p.MaxChunks {
		if limit := p.MaxLength(); limit < len(runes) {
			runes = runes[:limit]
			res.Truncated = true
		}
	}

	var windows []string
	for start := 0; start < len(runes); start += stride {
		end := min(start+p.ChunkSize, len(runes))
		windows = append(windows, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	res.Chunks = finish(windows)
	if len(res.Chunks) == 0 {
		return Result{}, ErrInvalidInput
	}
	return res, nil
}

// ChunkText is Split without the metadata.
func ChunkText(text string, p Policy) ([]Chunk, error) {
	res, err := Split(text, p)
	if err != nil {
		return nil, err
	}
	return res.Chunks, nil
}

// finish drops blank windows and assigns indices and first/last flags.
func finish(windows []string) []Chunk {
	chunks := make([]Chunk, 0, len(windows))
	for _, w := range windows {
		if strings.TrimSpace(w) == "" {
			continue
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Text: w})
	}
	if len(chunks) > 0 {
		chunks[0].IsFirst = true
		chunks[len(chunks)-1].IsLast = true
	}
	return chunks
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
