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

// Package match selects the stored question closest to a user query.
//
// A Selector holds the candidate list and one sentence vector per candidate
// question. Vectors are computed once by Warm, on a worker pool, and
// optionally persisted in a storage.VectorCache so later processes start
// faster. BestMatch embeds the query, measures the Euclidean distance to
// every candidate and returns the closest one together with a binary
// confidence flag:
//
//	confidence = 1 if distance <= threshold, else 0
//
// Ties on distance go to the earliest candidate in the list. A low
// confidence result still carries the closest question and answer; callers
// decide whether to show it.
package match
