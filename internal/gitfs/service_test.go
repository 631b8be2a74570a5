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
	"os"
	"path/filepath"
	"testing"

	"github.com/isomerpages/testcms/internal/gitfs"
	"github.com/isomerpages/testcms/internal/lock"
	"github.com/isomerpages/testcms/internal/testutil"
)

const testRepo = "my-site"

// defaultFiles is the site content every service test starts from.
var defaultFiles = map[string]string{
	"index.md":       "# Home\n",
	"pages/about.md": "about us\n",
	"pages/faq.md":   "faq\n",
}

// newTestService seeds an origin, clones both branches and returns the
// service pointing at them.
func newTestService(t *testing.T, files map[string]string) (*gitfs.Service, *testutil.TestOrigin) {
	t.Helper()
	origin := testutil.NewTestOrigin(t, testRepo, files)
	svc := gitfs.New(origin.Config(), lock.NewGate())
	testutil.AssertNoError(t, svc.Clone(context.Background(), testRepo))
	return svc, origin
}

// breakNextCommit installs a failing pre-commit hook in the branch's
// working tree so the next commit fails after the tree was mutated.
func breakNextCommit(t *testing.T, origin *testutil.TestOrigin, branch string) {
	t.Helper()
	hookDir := filepath.Join(origin.WorktreePath(branch), ".git", "hooks")
	testutil.AssertNoError(t, os.MkdirAll(hookDir, 0755))
	hook := filepath.Join(hookDir, "pre-commit")
	testutil.AssertNoError(t, os.WriteFile(hook, []byte("#!/bin/sh\nexit 1\n"), 0755))
}

// headSHA is the working tree's current head commit.
func headSHA(t *testing.T, origin *testutil.TestOrigin, branch string) string {
	t.Helper()
	return testutil.RunGit(t, origin.WorktreePath(branch), "rev-parse", "HEAD")
}
