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

package gitfs_test

import (
	"context"
	"testing"

	"github.com/isomerpages/testcms/internal/gitfs"
	"github.com/isomerpages/testcms/internal/lock"
	"github.com/isomerpages/testcms/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIsValidRepo(t *testing.T) {
	svc, origin := newTestService(t, defaultFiles)
	ctx := context.Background()

	// valid, and idempotent across calls
	for i := 0; i < 3; i++ {
		ok, err := svc.IsValidRepo(ctx, testRepo, gitfs.BranchStaging)
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		assert.True(t, ok)
	}

	ok, err := svc.IsValidRepo(ctx, "never-cloned", gitfs.BranchStaging)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.False(t, ok)

	// wrong origin remote invalidates the tree
	testutil.CorruptOrigin(t, origin.WorktreePath(gitfs.BranchStaging))
	ok, err = svc.IsValidRepo(ctx, testRepo, gitfs.BranchStaging)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.False(t, ok)

	// the lite tree has its own remote and stays valid
	ok, err = svc.IsValidRepo(ctx, testRepo, gitfs.BranchStagingLite)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.True(t, ok)
}

func TestEnsureCorrectBranch(t *testing.T) {
	svc, origin := newTestService(t, defaultFiles)
	ctx := context.Background()

	worktree := origin.WorktreePath(gitfs.BranchStaging)
	testutil.RunGit(t, worktree, "checkout", "-b", "scratch")
	assert.Equal(t, "scratch", testutil.RunGit(t, worktree, "branch", "--show-current"))

	testutil.AssertNoError(t, svc.EnsureCorrectBranch(ctx, testRepo, gitfs.BranchStaging))
	assert.Equal(t, gitfs.BranchStaging, testutil.RunGit(t, worktree, "branch", "--show-current"))

	// already correct is a no-op
	testutil.AssertNoError(t, svc.EnsureCorrectBranch(ctx, testRepo, gitfs.BranchStaging))
}

func TestValidRepoNotADirectory(t *testing.T) {
	origin := testutil.NewTestOrigin(t, testRepo, defaultFiles)
	svc := gitfs.New(origin.Config(), lock.NewGate())

	ok, err := svc.IsValidRepo(context.Background(), testRepo, gitfs.BranchStaging)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.False(t, ok)
}
