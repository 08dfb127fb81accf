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


// Package tokenizer provides multilingual text normalization shared by
// indexing and search.
//
// The same Tokenize function runs at index time and query time over the
// same stopword set; BM25 scoring depends on that identity. Hyphenated
// terms and numeric identifiers (article and clause numbers) survive
// tokenization intact.
package tokenizer
