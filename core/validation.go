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

import (
	"fmt"
	"strings"
)

// ValidateQuery checks that a query string has something to encode.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: query is empty", ErrInvalidQuery)
	}
	return nil
}

// ValidateCandidate validates a Candidate according to domain rules.
//
// Validation rules:
//   - Question must not be blank
//   - ID must match the question content
//
// The answer may be empty; some databases map a question to an empty reply.
func ValidateCandidate(candidate *Candidate) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrDataLoad)
	}

	if strings.TrimSpace(candidate.Question) == "" {
		return fmt.Errorf("%w: row %d: %w", ErrDataLoad, candidate.Index, ErrEmptyQuestion)
	}

	if candidate.ID != IDFromContent(candidate.Question) {
		return fmt.Errorf("%w: row %d: id does not match question", ErrDataLoad, candidate.Index)
	}

	return nil
}

// ValidateCandidates validates every candidate and the index alignment of the list.
// An empty list is an error.
func ValidateCandidates(candidates []Candidate) error {
	if len(candidates) == 0 {
		return ErrNoCandidates
	}
	for i := range candidates {
		if candidates[i].Index != i {
			return fmt.Errorf("%w: row %d carries index %d", ErrDataLoad, i, candidates[i].Index)
		}
		if err := ValidateCandidate(&candidates[i]); err != nil {
			return err
		}
	}
	return nil
}
