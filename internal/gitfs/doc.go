// Copyright 2024 The Isomer Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gitfs implements the local git file-system service: it mirrors
// each site repository onto local disk, one working tree per branch, and
// exposes file and directory operations that are committed to git
// immediately.
//
// Every mutating operation follows the same protocol: capture the branch's
// current commit SHA, validate preconditions, mutate the working tree,
// stage and commit. A failure after the tree has been touched hard-resets
// the branch to the captured SHA and force-cleans untracked files, so the
// tree never stays in a mutated-but-uncommitted state.
//
// Mutating operations are serialized per working tree by an advisory gate;
// reads run ungated and may observe a write's intermediate state. Blob-SHA
// optimistic concurrency on update and delete is what protects correctness
// of subsequent writes.
package gitfs
