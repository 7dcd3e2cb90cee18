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

// Package config reads the qamatch.yaml file.
//
// Every field has a default, so a missing file is not an error. Command
// line flags override file values after loading.
//
//	dataset:
//	  path: db.csv
//	  encoding: windows-1252
//	model:
//	  weights: model.pt
//	embedding:
//	  backend: tei
//	  host: http://localhost:8080
//	  model: gsarti/biobert-nli
//	match:
//	  threshold: 0.8
//	cache:
//	  path: .qamatch/cache
package config
