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

// Package dataset loads the candidate database: a two-column CSV file of
// (question, answer) rows.
//
// Files are read as Windows-1252 by default, the encoding the curated
// question sets are distributed in. UTF-8 is available with
// WithEncoding(EncodingUTF8). A leading UTF-8 byte order mark is dropped in
// both modes. The first row is a header and is skipped unless
// WithHeader(false) says otherwise; WithHeaderDetection skips it only when
// its cells read "Question" and "Answer" (any case).
//
// Row order is preserved: the candidate at position i of the result has
// Index i, and a match reports that index.
package dataset
