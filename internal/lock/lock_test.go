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

package lock_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/isomerpages/testcms/internal/errors"
	"github.com/isomerpages/testcms/internal/lock"
	"github.com/stretchr/testify/assert"
)

func TestGateRejectsSecondHolder(t *testing.T) {
	g := lock.NewGate()

	assert.NoError(t, g.Lock("my-site"))

	err := g.Lock("my-site")
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.True(t, errors.IsKind(err, errors.Conflict))

	// a different name is independent
	assert.NoError(t, g.Lock("other-site"))

	g.Unlock("my-site")
	assert.NoError(t, g.Lock("my-site"))
}

func TestGateUnderContention(t *testing.T) {
	g := lock.NewGate()

	const workers = 32
	var wg sync.WaitGroup
	acquired := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Lock("my-site"); err == nil {
				acquired <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(acquired)

	count := 0
	for range acquired {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestHasGitFileLock(t *testing.T) {
	root := t.TempDir()
	assert.False(t, lock.HasGitFileLock(root))

	if err := os.MkdirAll(filepath.Join(root, ".git"), 0700); err != nil {
		t.FailNow()
	}
	if err := os.WriteFile(filepath.Join(root, ".git", "index.lock"), nil, 0600); err != nil {
		t.FailNow()
	}
	assert.True(t, lock.HasGitFileLock(root))
}
