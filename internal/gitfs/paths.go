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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/isomerpages/testcms/internal/errors"
	"github.com/isomerpages/testcms/internal/types"
)

// EntryType distinguishes files from directories in listings and stats.
type EntryType string

const (
	EntryTypeFile EntryType = "file"
	EntryTypeDir  EntryType = "dir"
)

// FileStats is the filesystem metadata for a path inside a working tree.
type FileStats struct {
	Type EntryType
	Size int64
}

// branchRoot maps a branch to its volume root.
func (s *Service) branchRoot(branch string) (string, error) {
	const op errors.Op = "gitfs.branchRoot"
	switch branch {
	case BranchStaging:
		return s.cfg.ReposRoot, nil
	case BranchStagingLite:
		return s.cfg.LiteReposRoot, nil
	}
	return "", errors.E(op, errors.BadRequest,
		fmt.Errorf("unknown branch %q, expected %q or %q", branch, BranchStaging, BranchStagingLite))
}

// RepoPath resolves the working tree root for (repo, branch). The location
// is deterministic; no filesystem access happens here.
func (s *Service) RepoPath(repoName, branch string) (types.UniquePath, error) {
	root, err := s.branchRoot(branch)
	if err != nil {
		return "", err
	}
	return types.UniquePath(filepath.Join(root, repoName)), nil
}

// absPath resolves a path relative to the working tree root of (repo, branch).
// The resolved path must stay inside the working tree; a relative path that
// climbs out of it (e.g. via "..") is rejected, otherwise a mutation could
// touch disk the rollback protocol cannot restore.
func (s *Service) absPath(repoName, branch, relPath string) (types.UniquePath, error) {
	const op errors.Op = "gitfs.absPath"
	root, err := s.RepoPath(repoName, branch)
	if err != nil {
		return "", err
	}
	abs := filepath.Join(root.String(), filepath.FromSlash(relPath))
	if abs != root.String() && !strings.HasPrefix(abs, root.String()+string(filepath.Separator)) {
		return "", errors.E(op, errors.BadRequest,
			fmt.Errorf("%s resolves outside the working tree", relPath))
	}
	return types.UniquePath(abs), nil
}

// Stats resolves (repo, path, branch) to an on-disk location and returns
// its metadata. An absent path yields a NotFound-kind error so callers can
// branch on it without treating it as a failure.
func (s *Service) Stats(repoName, relPath, branch string) (FileStats, error) {
	const op errors.Op = "gitfs.Stats"
	abs, err := s.absPath(repoName, branch, relPath)
	if err != nil {
		return FileStats{}, errors.E(op, err)
	}

	fi, err := os.Stat(abs.String())
	if err != nil {
		if os.IsNotExist(err) {
			return FileStats{}, errors.E(op, errors.NotFound, abs,
				fmt.Errorf("%s does not exist", relPath))
		}
		return FileStats{}, errors.E(op, errors.IO, abs, err)
	}

	st := FileStats{Type: EntryTypeFile, Size: fi.Size()}
	if fi.IsDir() {
		st = FileStats{Type: EntryTypeDir}
	}
	return st, nil
}
