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

package gitfs

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/isomerpages/testcms/internal/config"
	"github.com/isomerpages/testcms/internal/errors"
	"github.com/isomerpages/testcms/internal/gitrunner"
	"github.com/isomerpages/testcms/internal/lock"
)

// The two fixed branches mirrored per site repository. Each lives in its
// own volume so the pair can be mutated independently.
const (
	BranchStaging     = "staging"
	BranchStagingLite = "staging-lite"
)

// Service is the git file-system service. It is safe for concurrent use;
// mutating operations on the same working tree are serialized by the gate.
type Service struct {
	cfg  config.Config
	gate *lock.Gate
}

// New returns a Service backed by the given configuration and gate.
func New(cfg config.Config, gate *lock.Gate) *Service {
	return &Service{
		cfg:  cfg,
		gate: gate,
	}
}

// runner returns a git runner scoped to the working tree of (repo, branch).
func (s *Service) runner(repoName, branch string) (*gitrunner.GitLocalRunner, error) {
	root, err := s.RepoPath(repoName, branch)
	if err != nil {
		return nil, err
	}
	return gitrunner.NewLocalGitRunner(root.String())
}

// acquire passes the two mutation guards for a working tree: no physical
// git index lock present, and the advisory gate free. The returned release
// func must be called when the operation ends. Both rejections are
// immediate; the caller is never queued.
func (s *Service) acquire(repoName, branch string) (func(), error) {
	const op errors.Op = "gitfs.acquire"
	root, err := s.RepoPath(repoName, branch)
	if err != nil {
		return nil, err
	}
	if lock.HasGitFileLock(root.String()) {
		return nil, errors.E(op, errors.Conflict, root,
			fmt.Errorf("a git operation is already in progress for %s, please try again later", repoName))
	}
	name := gateName(repoName, branch)
	if err := s.gate.Lock(name); err != nil {
		return nil, errors.E(op, err)
	}
	return func() { s.gate.Unlock(name) }, nil
}

// gateName scopes the advisory lock per (repo, branch) so staging-lite
// edits never serialize behind staging edits.
func gateName(repoName, branch string) string {
	return repoName + "@" + branch
}

// latestCommitSHA returns the SHA of the branch's current HEAD commit.
// Mutating operations call this before touching the tree to capture their
// rollback anchor.
func (s *Service) latestCommitSHA(ctx context.Context, runner *gitrunner.GitLocalRunner) (string, error) {
	const op errors.Op = "gitfs.latestCommitSHA"
	sha, err := runner.RunString(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", errors.E(op, err)
	}
	return sha, nil
}

// blobSHA returns the committed blob SHA for a path, or a NotFound-kind
// error when HEAD does not track the path.
func (s *Service) blobSHA(ctx context.Context, runner *gitrunner.GitLocalRunner, relPath string) (string, error) {
	const op errors.Op = "gitfs.blobSHA"
	sha, err := runner.RunString(ctx, "rev-parse", "HEAD:"+relPath)
	if err != nil {
		return "", errors.E(op, errors.NotFound,
			fmt.Errorf("%s is not tracked at HEAD", relPath))
	}
	return sha, nil
}

// commitPathspec stages the given paths and commits them with the message.
// The pathspec is deliberately capped at two entries (a single-file change,
// or a rename/move pair) to guard against committing unrelated uncommitted
// state. Returns the new commit SHA.
func (s *Service) commitPathspec(ctx context.Context, runner *gitrunner.GitLocalRunner, msg CommitMessage, paths ...string) (string, error) {
	const op errors.Op = "gitfs.commitPathspec"
	if len(paths) == 0 || len(paths) > 2 {
		return "", errors.E(op, errors.Internal,
			fmt.Errorf("refusing to commit %d paths, expected 1 or 2", len(paths)))
	}

	addArgs := append([]string{"add", "-A", "--"}, paths...)
	if _, err := runner.Run(ctx, addArgs...); err != nil {
		return "", errors.E(op, err)
	}

	commitArgs := append([]string{"commit", "-m", msg.String(), "--"}, paths...)
	if _, err := runner.Run(ctx, commitArgs...); err != nil {
		return "", errors.E(op, err)
	}

	return s.latestCommitSHA(ctx, runner)
}

// gitrunnerAmendRepoRef attaches repo/branch context to a GitExecError in
// the chain, if any.
func gitrunnerAmendRepoRef(err error, repoName, branch string) {
	gitrunner.AmendGitExecError(err, func(e *gitrunner.GitExecError) {
		e.Repo = repoName
		e.Ref = branch
	})
}

// rollbackAndErr undoes a partially applied mutation and surfaces the
// original failure. If the rollback itself fails, that secondary failure is
// logged and returned instead; it is never swallowed.
func (s *Service) rollbackAndErr(ctx context.Context, repoName, branch, oldSha string, cause error) error {
	const op errors.Op = "gitfs.rollbackAndErr"
	if rbErr := s.Rollback(ctx, repoName, oldSha, branch); rbErr != nil {
		klog.Errorf("rollback of %s (%s) to %s failed after %v: %v",
			repoName, branch, oldSha, cause, rbErr)
		return errors.E(op, errors.Internal,
			fmt.Errorf("operation failed (%v) and rollback to %s also failed: %w", cause, oldSha, rbErr))
	}
	return errors.E(op, cause)
}
