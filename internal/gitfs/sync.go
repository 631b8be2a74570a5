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
	"os"
	"sync"

	"k8s.io/klog/v2"

	"github.com/isomerpages/testcms/internal/errors"
	"github.com/isomerpages/testcms/internal/gitrunner"
)

// Clone mirrors both branches of a site repository into their volume
// roots. The two clones are independent and run in parallel. A directory
// that already exists must validate as the correct working tree; anything
// else there is a fatal setup error, never silently overwritten.
func (s *Service) Clone(ctx context.Context, repoName string) error {
	const op errors.Op = "gitfs.Clone"

	branches := []string{BranchStaging, BranchStagingLite}
	errs := make([]error, len(branches))

	var wg sync.WaitGroup
	for i, branch := range branches {
		wg.Add(1)
		go func(i int, branch string) {
			defer wg.Done()
			errs[i] = s.cloneBranch(ctx, repoName, branch)
		}(i, branch)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return errors.E(op, err)
		}
	}
	return nil
}

func (s *Service) cloneBranch(ctx context.Context, repoName, branch string) error {
	const op errors.Op = "gitfs.cloneBranch"

	root, err := s.RepoPath(repoName, branch)
	if err != nil {
		return errors.E(op, err)
	}

	if _, err := os.Stat(root.String()); err == nil {
		ok, err := s.IsValidRepo(ctx, repoName, branch)
		if err != nil {
			return errors.E(op, err)
		}
		if !ok {
			return errors.E(op, errors.Internal, root,
				fmt.Errorf("%s exists but is not the expected clone of %s", root, repoName))
		}
		return nil
	} else if !os.IsNotExist(err) {
		return errors.E(op, errors.IO, root, err)
	}

	volume, err := s.branchRoot(branch)
	if err != nil {
		return errors.E(op, err)
	}
	if err := os.MkdirAll(volume, 0755); err != nil {
		return errors.E(op, errors.IO, err)
	}

	runner, err := gitrunner.NewLocalGitRunner(volume)
	if err != nil {
		return errors.E(op, err)
	}
	_, err = runner.Run(ctx, "clone", "--branch", branch, s.cfg.RemoteURL(repoName), root.String())
	if err != nil {
		gitrunnerAmendRepoRef(err, repoName, branch)
		return errors.E(op, err)
	}
	return nil
}

// Pull brings the working tree up to date with its remote. Pull outcomes
// that only mean "nothing to fast-forward right now" are swallowed; the
// caller's own flow resolves them.
func (s *Service) Pull(ctx context.Context, repoName, branch string) error {
	const op errors.Op = "gitfs.Pull"

	if err := s.validateRepo(ctx, repoName, branch); err != nil {
		return errors.E(op, err)
	}

	runner, err := s.runner(repoName, branch)
	if err != nil {
		return errors.E(op, err)
	}
	if _, err := runner.Run(ctx, "pull", "origin", branch); err != nil {
		if gitrunner.IsBenignPullError(err) {
			return nil
		}
		gitrunnerAmendRepoRef(err, repoName, branch)
		return errors.E(op, err)
	}
	return nil
}

// Push publishes the branch to its remote, retrying exactly once on
// failure with the same force flag.
func (s *Service) Push(ctx context.Context, repoName, branch string, force bool) error {
	const op errors.Op = "gitfs.Push"

	if err := s.validateRepo(ctx, repoName, branch); err != nil {
		return errors.E(op, err)
	}
	return s.push(ctx, repoName, branch, force)
}

// push runs the push itself, without revalidating the tree. Used by
// UpdateRepoState after it has already validated and reset.
func (s *Service) push(ctx context.Context, repoName, branch string, force bool) error {
	const op errors.Op = "gitfs.push"

	runner, err := s.runner(repoName, branch)
	if err != nil {
		return errors.E(op, err)
	}

	args := []string{"push", "origin", branch}
	if force {
		args = []string{"push", "--force", "origin", branch}
	}
	if _, err := runner.Run(ctx, args...); err != nil {
		klog.Warningf("push of %s (%s) failed, retrying once: %v", repoName, branch, err)
		if _, retryErr := runner.Run(ctx, args...); retryErr != nil {
			gitrunnerAmendRepoRef(retryErr, repoName, branch)
			return errors.E(op, retryErr)
		}
	}
	return nil
}

// Rollback hard-resets the working tree to sha and force-cleans untracked
// files and directories. It takes no gate: the mutating operation that
// needs it is already holding the gate when it calls.
func (s *Service) Rollback(ctx context.Context, repoName, sha, branch string) error {
	const op errors.Op = "gitfs.Rollback"

	runner, err := s.runner(repoName, branch)
	if err != nil {
		return errors.E(op, err)
	}
	if _, err := runner.Run(ctx, "reset", "--hard", sha); err != nil {
		gitrunnerAmendRepoRef(err, repoName, branch)
		return errors.E(op, err)
	}
	if _, err := runner.Run(ctx, "clean", "-fd"); err != nil {
		gitrunnerAmendRepoRef(err, repoName, branch)
		return errors.E(op, err)
	}
	return nil
}

// UpdateRepoState pins the branch to a known commit: it validates that the
// caller-supplied SHA is part of the branch's history, hard-resets to it
// and force-pushes. The SHA is untrusted input; an unknown or foreign SHA
// is a BadRequest, not a git failure.
func (s *Service) UpdateRepoState(ctx context.Context, repoName, sha, branch string) error {
	const op errors.Op = "gitfs.UpdateRepoState"

	release, err := s.acquire(repoName, branch)
	if err != nil {
		return errors.E(op, err)
	}
	defer release()

	if err := s.validateRepo(ctx, repoName, branch); err != nil {
		return errors.E(op, err)
	}

	runner, err := s.runner(repoName, branch)
	if err != nil {
		return errors.E(op, err)
	}
	if _, err := runner.Run(ctx, "merge-base", "--is-ancestor", sha, branch); err != nil {
		return errors.E(op, errors.BadRequest,
			fmt.Errorf("%s is not a commit on %s of %s", sha, branch, repoName))
	}

	if err := s.Rollback(ctx, repoName, sha, branch); err != nil {
		return errors.E(op, err)
	}
	return s.push(ctx, repoName, branch, true)
}
