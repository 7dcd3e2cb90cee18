package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for candidates and cached vectors.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Confidence is the binary acceptance flag attached to a match.
type Confidence int

const (
	// ConfidenceLow means the closest candidate is farther than the threshold.
	ConfidenceLow Confidence = 0
	// ConfidenceHigh means the closest candidate is within the threshold.
	ConfidenceHigh Confidence = 1
)

// String returns "0" or "1", the form the match command prints.
func (c Confidence) String() string {
	if c == ConfidenceHigh {
		return "1"
	}
	return "0"
}

// ConfidenceFor classifies a distance against a threshold. The boundary is inclusive.
func ConfidenceFor(distance, threshold float64) Confidence {
	if distance <= threshold {
		return ConfidenceHigh
	}
	return ConfidenceLow
}

// Candidate is one (question, answer) row of the candidate database.
// Question and answer travel together so the two columns cannot drift apart.
type Candidate struct {
	Index    int    // Position in the source file, zero based
	ID       ID     // IDFromContent(Question)
	Question string
	Answer   string
}

// NewCandidate builds a candidate at the given position.
func NewCandidate(index int, question, answer string) Candidate {
	return Candidate{
		Index:    index,
		ID:       IDFromContent(question),
		Question: question,
		Answer:   answer,
	}
}

// MatchResult is the answer to a query.
type MatchResult struct {
	Confidence Confidence
	Question   string
	Answer     string
	Index      int     // Index of the matched candidate
	Distance   float64 // Euclidean distance between query and matched question
}

// ScoredCandidate pairs a candidate with its distance to a query.
type ScoredCandidate struct {
	Candidate Candidate
	Distance  float64
}

// CachedVector is a persisted sentence vector for a candidate question.
type CachedVector struct {
	ID        ID
	Vector    []float32
	CreatedAt time.Time
}
