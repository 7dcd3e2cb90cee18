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

// Package openai provides a pooled ai.SentenceEmbedder over OpenAI-compatible APIs.
//
// This backend uses the langchaingo library to talk to OpenAI or an
// OpenAI-compatible server (Ollama, LocalAI, vLLM). It skips the fine-tuned head
// entirely: the service already returns one vector per text. Use it when no head
// weights are available; distances are still Euclidean, but the confidence
// threshold usually needs retuning for the pooled space.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithBackend(ai.BackendOpenAI),
//	    ai.WithEmbeddingHost("http://localhost:11434"),  // /v1 added automatically
//	    ai.WithEmbeddingModel("nomic-embed-text"),
//	)
//
//	embedder, err := openai.NewSentenceEmbedder(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedSentence(ctx, "What is COVID-19?")
package openai
