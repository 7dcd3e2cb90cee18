// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import "errors"

// Error taxonomy shared by every package. Callers test with errors.Is; the
// concrete error usually wraps one of these with context.
var (
	// ErrInvalidQuery indicates an empty or malformed query string.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrDataLoad indicates the candidate database is missing, malformed or empty.
	ErrDataLoad = errors.New("candidate database could not be loaded")

	// ErrModelLoad indicates the encoder or the fine-tuned head weights are unavailable or corrupt.
	ErrModelLoad = errors.New("model could not be loaded")

	// ErrEncoding indicates the external encoder rejected or mishandled an input.
	ErrEncoding = errors.New("encoding failed")

	// ErrNoCandidates indicates there is nothing to match against.
	ErrNoCandidates = errors.New("no candidates")

	// ErrEmptySequence indicates a token sequence of length zero.
	ErrEmptySequence = errors.New("token sequence is empty")

	// ErrInvalidTokens indicates a token embedding batch with an inconsistent shape.
	ErrInvalidTokens = errors.New("invalid token embeddings")

	// ErrEmptyQuestion indicates a candidate row without a question.
	ErrEmptyQuestion = errors.New("question cannot be empty")
)
