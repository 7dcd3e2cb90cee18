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

// Package ai provides abstractions over the external encoder used by qamatch.
//
// The matcher needs two things from the outside world: contextual token
// embeddings for arbitrary strings, and (built on top of those) one fixed-size
// vector per string. The package defines both contracts so the matching logic
// depends on interfaces rather than on a particular model server.
//
// # Interfaces
//
//   - TokenEmbedder: string -> one embedding per token
//   - SentenceEmbedder: string -> one sentence vector
//
// The fine-tuned head (package head) turns a TokenEmbedder into a
// SentenceEmbedder. A pooled OpenAI-compatible service can serve as a
// SentenceEmbedder directly.
//
// # Implementation Packages
//
//   - ai/tei: token embeddings from a text-embeddings-inference server
//   - ai/openai: pooled sentence embeddings from an OpenAI-compatible API
//   - ai/mock: deterministic test doubles
//
// # Sequence Limits
//
// Contextual encoders have a hard token limit (512 for BERT-family models).
// Config.Truncation makes the behavior for longer inputs explicit:
// TruncationReject fails the request with ErrInputTooLong, TruncationTruncate
// keeps the leading tokens. Nothing is shortened silently.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithEmbeddingHost("http://localhost:8080"))
//	tokens, err := tei.NewTokenEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rows, err := tokens.EmbedTokens(ctx, "What is COVID-19?")
package ai
