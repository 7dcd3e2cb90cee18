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

// Package qamatch answers free-text questions by finding the closest
// question in a fixed question/answer database.
//
// Questions are encoded into sentence vectors, either by a bidirectional
// LSTM head over contextual token embeddings (package head, fed by ai/tei)
// or by an OpenAI-compatible pooled embedding service (ai/openai). The
// closest candidate by Euclidean distance wins, and the match carries
// confidence 1 when its distance is within the threshold (0.8 by default).
//
// Basic usage:
//
//	m, err := qamatch.NewMatcher(ctx,
//	    qamatch.WithDatasetPath("db.csv"),
//	    qamatch.WithWeightsPath("model.pt"),
//	    qamatch.WithCachePath(".qamatch/cache"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	result, err := m.GetBestMatch(ctx, "what are the symptoms of covid?")
//
// Candidate vectors are computed once at startup and can be persisted in a
// badger-backed cache keyed by the embedder fingerprint.
package qamatch
