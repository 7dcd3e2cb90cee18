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

// Package storage defines the persistence abstraction for candidate vectors.
//
// Embedding every candidate question is the slowest part of startup. A
// VectorCache keeps the sentence vector of each question between runs so a
// restarted process only pays for questions it has not seen before.
//
// # Constructor Return Type Pattern
//
// Public constructors return the interface, not the concrete type:
//
//	cache, err := badger.NewVectorCache(path)  // returns storage.VectorCache
//
// Internal constructors (newVectorCache, OpenBackend) may return concrete
// types since they are only used within the implementation package.
//
// # Keys
//
// A Key pairs a namespace with a candidate ID. The namespace is the
// fingerprint of the sentence embedder, so vectors produced by a different
// encoder or a different head never collide with current ones. Purge drops
// every vector of a namespace at once.
//
// # Usage
//
//	cache, err := badger.NewVectorCache("/var/lib/qamatch/cache")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
// Use in tests with in-memory storage:
//
//	cache, err := badger.NewMemoryVectorCache()
//
// # Thread Safety
//
// All implementations must be safe for concurrent use.
package storage
