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

	"github.com/isomerpages/testcms/internal/errors"
)

// IsValidRepo reports whether the working tree for (repo, branch) exists,
// is git-initialized, and has the expected origin remote. Any of those
// checks failing collapses to false; only the inability to run git at all
// surfaces as an error.
func (s *Service) IsValidRepo(ctx context.Context, repoName, branch string) (bool, error) {
	const op errors.Op = "gitfs.IsValidRepo"
	root, err := s.RepoPath(repoName, branch)
	if err != nil {
		return false, errors.E(op, err)
	}

	fi, err := os.Stat(root.String())
	if err != nil || !fi.IsDir() {
		return false, nil
	}

	runner, err := s.runner(repoName, branch)
	if err != nil {
		return false, errors.E(op, err)
	}

	if _, err := runner.Run(ctx, "rev-parse", "--is-inside-work-tree"); err != nil {
		return false, nil
	}

	url, err := runner.RunString(ctx, "remote", "get-url", "origin")
	if err != nil {
		return false, nil
	}
	return url == s.cfg.RemoteURL(repoName), nil
}

// EnsureCorrectBranch checks out the expected branch if the working tree
// currently has a different one checked out. Mutating operations must
// never run against the wrong branch.
func (s *Service) EnsureCorrectBranch(ctx context.Context, repoName, branch string) error {
	const op errors.Op = "gitfs.EnsureCorrectBranch"
	runner, err := s.runner(repoName, branch)
	if err != nil {
		return errors.E(op, err)
	}

	current, err := runner.RunString(ctx, "branch", "--show-current")
	if err != nil {
		return errors.E(op, err)
	}
	if current == branch {
		return nil
	}

	if _, err := runner.Run(ctx, "checkout", branch); err != nil {
		gitrunnerAmendRepoRef(err, repoName, branch)
		return errors.E(op, err)
	}
	return nil
}

// validateRepo is the precondition shared by every operation: the working
// tree must be valid and on the expected branch.
func (s *Service) validateRepo(ctx context.Context, repoName, branch string) error {
	const op errors.Op = "gitfs.validateRepo"
	ok, err := s.IsValidRepo(ctx, repoName, branch)
	if err != nil {
		return errors.E(op, err)
	}
	if !ok {
		return errors.E(op, errors.Internal,
			fmt.Errorf("%s (%s) is not a valid working tree", repoName, branch))
	}
	if err := s.EnsureCorrectBranch(ctx, repoName, branch); err != nil {
		return errors.E(op, err)
	}
	return nil
}
