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

// Package testutil sets up real git repositories for tests: a bare origin
// seeded with the two site branches, plus the volume roots the service
// clones into.
package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/otiai10/copy"
	assertnow "gotest.tools/assert"

	"github.com/isomerpages/testcms/internal/config"
	"github.com/isomerpages/testcms/internal/gitfs"
)

var AssertNoError = assertnow.NilError

// TestOrigin is a bare git repository standing in for the remote git host,
// seeded with identical staging and staging-lite branches.
type TestOrigin struct {
	// HostDir is the directory of bare repositories acting as the git
	// host; config.GitHost points here.
	HostDir string

	// RepoName is the name of the seeded site repository.
	RepoName string

	cfg config.Config
}

// NewTestOrigin creates the bare origin for repoName and seeds both
// branches with the given files (relative path -> content). It returns the
// origin and a config whose volume roots live under fresh temp dirs.
func NewTestOrigin(t *testing.T, repoName string, files map[string]string) *TestOrigin {
	t.Helper()
	ConfigureGitEnv(t)

	hostDir := t.TempDir()
	bare := filepath.Join(hostDir, repoName+".git")
	RunGit(t, hostDir, "init", "--bare", bare)

	// build the dataset once, then copy it into the seeding worktree
	dataset := filepath.Join(t.TempDir(), "dataset")
	for rel, content := range files {
		p := filepath.Join(dataset, filepath.FromSlash(rel))
		AssertNoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		AssertNoError(t, os.WriteFile(p, []byte(content), 0644))
	}

	seed := filepath.Join(t.TempDir(), "seed")
	RunGit(t, filepath.Dir(seed), "clone", bare, seed)
	RunGit(t, seed, "checkout", "-b", gitfs.BranchStaging)
	if len(files) > 0 {
		AssertNoError(t, copy.Copy(dataset, seed))
	}
	RunGit(t, seed, "add", "-A")
	RunGit(t, seed, "commit", "-m", "initial commit", "--allow-empty")
	RunGit(t, seed, "push", "-u", "origin", gitfs.BranchStaging)
	RunGit(t, seed, "checkout", "-b", gitfs.BranchStagingLite)
	RunGit(t, seed, "push", "-u", "origin", gitfs.BranchStagingLite)

	return &TestOrigin{
		HostDir:  hostDir,
		RepoName: repoName,
		cfg: config.Config{
			ReposRoot:     filepath.Join(t.TempDir(), "full"),
			LiteReposRoot: filepath.Join(t.TempDir(), "lite"),
			GitHost:       hostDir,
			GitOrg:        "isomerpages",
		},
	}
}

// Config returns the service configuration pointing at this origin.
func (o *TestOrigin) Config() config.Config {
	return o.cfg
}

// BranchHead returns the SHA the origin's branch currently points at.
func (o *TestOrigin) BranchHead(t *testing.T, branch string) string {
	t.Helper()
	bare := filepath.Join(o.HostDir, o.RepoName+".git")
	return RunGit(t, bare, "rev-parse", branch)
}

// WorktreePath returns the on-disk working tree root for a branch, the
// same location the service resolves.
func (o *TestOrigin) WorktreePath(branch string) string {
	root := o.cfg.ReposRoot
	if branch == gitfs.BranchStagingLite {
		root = o.cfg.LiteReposRoot
	}
	return filepath.Join(root, o.RepoName)
}

// RunGit runs git in dir and fails the test on error. Returns trimmed
// stdout.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// ConfigureGitEnv gives commits in this test a deterministic identity
// without touching the user's git config.
func ConfigureGitEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "testcms")
	t.Setenv("GIT_AUTHOR_EMAIL", "testcms@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "testcms")
	t.Setenv("GIT_COMMITTER_EMAIL", "testcms@example.com")
	// keep host-level config out of test behavior
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(t.TempDir(), "gitconfig"))
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)
}

// CorruptOrigin rewrites the working tree's origin remote so validation
// fails, simulating a directory that is not the expected clone.
func CorruptOrigin(t *testing.T, worktree string) {
	t.Helper()
	RunGit(t, worktree, "remote", "set-url", "origin", fmt.Sprintf("%s-not-it", worktree))
}
