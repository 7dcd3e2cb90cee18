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

package head

import "errors"

var (
	// ErrWeightsRequired is returned when no weights are provided.
	ErrWeightsRequired = errors.New("head weights required")

	// ErrShapeMismatch indicates a parameter with the wrong shape.
	ErrShapeMismatch = errors.New("parameter shape mismatch")

	// ErrMissingParameter indicates a state dict without a required entry.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrTokenEmbedderRequired is returned when no token embedder is provided.
	ErrTokenEmbedderRequired = errors.New("token embedder required")
)
