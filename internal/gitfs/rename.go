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
	"path"

	"github.com/isomerpages/testcms/internal/errors"
)

// RenameInput are the arguments to RenameSinglePath.
type RenameInput struct {
	RepoName string
	OldPath  string
	NewPath  string
	UserID   string
	Branch   string
	// Message overrides the default commit message when set.
	Message string
}

// RenameSinglePath renames a file or directory in one commit, using git's
// rename tracking. The destination must not already exist. The rename is
// atomic from the caller's view: on failure the tree rolls back whole.
func (s *Service) RenameSinglePath(ctx context.Context, in RenameInput) (string, error) {
	const op errors.Op = "gitfs.RenameSinglePath"

	release, err := s.acquire(in.RepoName, in.Branch)
	if err != nil {
		return "", errors.E(op, err)
	}
	defer release()

	if err := s.validateRepo(ctx, in.RepoName, in.Branch); err != nil {
		return "", errors.E(op, err)
	}

	runner, err := s.runner(in.RepoName, in.Branch)
	if err != nil {
		return "", errors.E(op, err)
	}
	oldStateSha, err := s.latestCommitSHA(ctx, runner)
	if err != nil {
		return "", errors.E(op, err)
	}

	if _, err := s.Stats(in.RepoName, in.OldPath, in.Branch); err != nil {
		return "", errors.E(op, err)
	}
	if _, err := s.Stats(in.RepoName, in.NewPath, in.Branch); err == nil {
		return "", errors.E(op, errors.Conflict,
			fmt.Errorf("%s already exists", in.NewPath))
	} else if !errors.IsKind(err, errors.NotFound) {
		return "", errors.E(op, err)
	}

	// disk mutation starts here; git mv moves and stages in one step
	if _, err := runner.Run(ctx, "mv", in.OldPath, in.NewPath); err != nil {
		gitrunnerAmendRepoRef(err, in.RepoName, in.Branch)
		return "", s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha, errors.E(op, err))
	}

	message := in.Message
	if message == "" {
		message = fmt.Sprintf("Renamed %s to %s", in.OldPath, in.NewPath)
	}
	msg := CommitMessage{
		Message:  message,
		FileName: path.Base(in.NewPath),
		UserID:   in.UserID,
	}
	commitSha, err := s.commitPathspec(ctx, runner, msg, in.OldPath, in.NewPath)
	if err != nil {
		return "", s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha, errors.E(op, err))
	}
	return commitSha, nil
}

// MoveInput are the arguments to MoveFiles.
type MoveInput struct {
	RepoName string
	OldPath  string
	NewPath  string
	UserID   string
	// TargetFiles are the file names to move from OldPath to NewPath.
	TargetFiles []string
	Branch      string
	// Message overrides the default commit message when set.
	Message string
}

// MoveFiles moves a batch of named files from one directory to another
// without renaming them, in one commit. The destination directory is
// created if absent; a file already present at a destination is a
// Conflict. The whole batch succeeds or the whole tree rolls back.
func (s *Service) MoveFiles(ctx context.Context, in MoveInput) (string, error) {
	const op errors.Op = "gitfs.MoveFiles"

	if len(in.TargetFiles) == 0 {
		return "", errors.E(op, errors.BadRequest, "no files to move")
	}
	if in.OldPath == "" || in.NewPath == "" {
		return "", errors.E(op, errors.BadRequest, "source and destination directories must be named")
	}

	release, err := s.acquire(in.RepoName, in.Branch)
	if err != nil {
		return "", errors.E(op, err)
	}
	defer release()

	if err := s.validateRepo(ctx, in.RepoName, in.Branch); err != nil {
		return "", errors.E(op, err)
	}

	runner, err := s.runner(in.RepoName, in.Branch)
	if err != nil {
		return "", errors.E(op, err)
	}
	oldStateSha, err := s.latestCommitSHA(ctx, runner)
	if err != nil {
		return "", errors.E(op, err)
	}

	// validate the whole batch before touching the tree so pure
	// precondition failures never need a rollback
	for _, name := range in.TargetFiles {
		if _, err := s.Stats(in.RepoName, path.Join(in.OldPath, name), in.Branch); err != nil {
			return "", errors.E(op, err)
		}
		dest := path.Join(in.NewPath, name)
		if _, err := s.Stats(in.RepoName, dest, in.Branch); err == nil {
			return "", errors.E(op, errors.Conflict,
				fmt.Errorf("%s already exists", dest))
		} else if !errors.IsKind(err, errors.NotFound) {
			return "", errors.E(op, err)
		}
	}

	destDir, err := s.absPath(in.RepoName, in.Branch, in.NewPath)
	if err != nil {
		return "", errors.E(op, err)
	}

	// disk mutation starts here
	if err := os.MkdirAll(destDir.String(), 0755); err != nil {
		return "", s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha,
			errors.E(op, errors.IO, destDir, err))
	}
	for _, name := range in.TargetFiles {
		src := path.Join(in.OldPath, name)
		dest := path.Join(in.NewPath, name)
		if _, err := runner.Run(ctx, "mv", src, dest); err != nil {
			gitrunnerAmendRepoRef(err, in.RepoName, in.Branch)
			return "", s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha, errors.E(op, err))
		}
	}

	message := in.Message
	if message == "" {
		message = fmt.Sprintf("Moved selected files from %s to %s", in.OldPath, in.NewPath)
	}
	msg := CommitMessage{
		Message: message,
		UserID:  in.UserID,
	}
	commitSha, err := s.commitPathspec(ctx, runner, msg, in.OldPath, in.NewPath)
	if err != nil {
		return "", s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha, errors.E(op, err))
	}
	return commitSha, nil
}
