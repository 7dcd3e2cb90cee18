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

package match

import "errors"

var (
	// ErrEmbedderRequired is returned when a sentence embedder is not provided.
	ErrEmbedderRequired = errors.New("sentence embedder required")

	// ErrInvalidThreshold is returned for a negative or non-finite threshold.
	ErrInvalidThreshold = errors.New("threshold must be a finite non-negative number")

	// ErrInvalidPoolSize is returned for a worker pool size below one.
	ErrInvalidPoolSize = errors.New("pool size must be at least 1")

	// ErrInvalidBatchSize is returned for a warm-up batch size below one.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")
)
