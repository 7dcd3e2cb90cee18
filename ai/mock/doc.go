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

// Package mock provides test double implementations of the encoder interfaces.
//
// MockTokenEmbedder and MockSentenceEmbedder stand in for ai.TokenEmbedder and
// ai.SentenceEmbedder so the head, scorer and selector can be tested without a
// model server. Both are safe for concurrent use, which matters because the
// selector warms candidates on a worker pool.
//
// # Usage in Tests
//
//	tokens := mock.NewMockTokenEmbedder(8)
//	rows, err := tokens.EmbedTokens(ctx, "what is covid")  // 5 rows: [CLS] 3 words [SEP]
//
//	sentences := mock.NewMockSentenceEmbedder(4).
//	    WithVector("What is COVID-19?", []float32{0, 0, 0, 0})
//	sentences.EmbedSentenceFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("boom")
//	}
//	count := sentences.CallCount()
package mock
