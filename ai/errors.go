package ai

import "errors"

var (
	// ErrInputTooLong is returned when an input exceeds MaxSequenceLength
	// under TruncationReject.
	ErrInputTooLong = errors.New("input exceeds maximum sequence length")

	// ErrEmptyResponse is returned when the encoder answers without embeddings.
	ErrEmptyResponse = errors.New("encoder returned no embeddings")

	// ErrUnexpectedDimension is returned when the encoder answers with vectors
	// of the wrong width.
	ErrUnexpectedDimension = errors.New("encoder returned unexpected dimension")

	// ErrUnexpectedResponseLength is returned when a batch response does not
	// have one entry per input.
	ErrUnexpectedResponseLength = errors.New("encoder returned wrong number of embeddings")
)
