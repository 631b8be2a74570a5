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

// DeleteInput are the arguments to Delete.
type DeleteInput struct {
	RepoName string
	Path     string
	// OldSHA must equal the file's current blob SHA. Ignored when IsDir
	// is set; directory deletes skip the SHA check.
	OldSHA string
	UserID string
	IsDir  bool
	Branch string
}

// Delete removes a file or a directory (recursively) and commits the
// removal. Returns the new commit SHA.
func (s *Service) Delete(ctx context.Context, in DeleteInput) (string, error) {
	const op errors.Op = "gitfs.Delete"

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

	st, err := s.Stats(in.RepoName, in.Path, in.Branch)
	if err != nil {
		return "", errors.E(op, err)
	}

	expectedType := EntryTypeFile
	if in.IsDir {
		expectedType = EntryTypeDir
	}
	if st.Type != expectedType {
		return "", errors.E(op, errors.BadRequest,
			fmt.Errorf("%s is a %s, expected a %s", in.Path, st.Type, expectedType))
	}

	if !in.IsDir {
		currentSha, err := s.blobSHA(ctx, runner, in.Path)
		if err != nil {
			return "", errors.E(op, err)
		}
		if currentSha != in.OldSHA {
			return "", errors.E(op, errors.Conflict,
				fmt.Errorf("%s has changed recently, please refresh and try again", in.Path))
		}
	}

	abs, err := s.absPath(in.RepoName, in.Branch, in.Path)
	if err != nil {
		return "", errors.E(op, err)
	}

	// disk mutation starts here
	if in.IsDir {
		err = os.RemoveAll(abs.String())
	} else {
		err = os.Remove(abs.String())
	}
	if err != nil {
		return "", s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha,
			errors.E(op, errors.IO, abs, err))
	}

	msg := CommitMessage{
		Message: fmt.Sprintf("Delete %s", in.Path),
		UserID:  in.UserID,
	}
	if !in.IsDir {
		msg.FileName = path.Base(in.Path)
	}
	commitSha, err := s.commitPathspec(ctx, runner, msg, in.Path)
	if err != nil {
		return "", s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha, errors.E(op, err))
	}
	return commitSha, nil
}
