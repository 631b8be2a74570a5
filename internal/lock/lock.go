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

// Package lock provides the per-repository concurrency gate. At most one
// mutating operation may run against a working tree at a time; a second
// caller is rejected immediately rather than queued.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/isomerpages/testcms/internal/errors"
)

// Gate is an advisory per-name mutual exclusion. Names are scoped by the
// caller (repo plus branch root), so edits to a site's staging and
// staging-lite trees never serialize behind each other.
type Gate struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGate returns an empty Gate.
func NewGate() *Gate {
	return &Gate{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the advisory lock for name. It never blocks: if the lock is
// already held, a Conflict error is returned and the caller is expected to
// retry later.
func (g *Gate) Lock(name string) error {
	const op errors.Op = "lock.Lock"

	g.mu.Lock()
	m, ok := g.locks[name]
	if !ok {
		m = &sync.Mutex{}
		g.locks[name] = m
	}
	g.mu.Unlock()

	if !m.TryLock() {
		return errors.E(op, errors.Conflict,
			fmt.Errorf("repo %s is locked, please try again later", name))
	}
	return nil
}

// Unlock releases the advisory lock for name. Unlocking a name that was
// never locked panics, same as sync.Mutex.
func (g *Gate) Unlock(name string) {
	g.mu.Lock()
	m, ok := g.locks[name]
	g.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("lock: unlock of unknown name %q", name))
	}
	m.Unlock()
}

// HasGitFileLock reports whether the working tree rooted at root has a
// physical git index lock, the sign of an in-progress low-level git
// operation.
func HasGitFileLock(root string) bool {
	_, err := os.Stat(filepath.Join(root, ".git", "index.lock"))
	return err == nil
}
