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
	"strings"
	"time"

	"github.com/isomerpages/testcms/internal/errors"
)

// ReadResult is a file's content together with its committed blob SHA. The
// SHA serves as the optimistic-concurrency token for a later update or
// delete.
type ReadResult struct {
	Content string
	SHA     string
}

// FileEntry is one tracked file or directory in a listing.
type FileEntry struct {
	Name string
	Path string
	Type EntryType
	SHA  string
	Size int64
}

// CommitRef identifies a commit on a branch.
type CommitRef struct {
	SHA         string
	AuthorName  string
	AuthorEmail string
	Date        time.Time
	Message     string
}

// Read returns the content and blob SHA of a file. Reads are not gated and
// may run concurrently with a write to the same tree.
func (s *Service) Read(ctx context.Context, repoName, relPath, branch string) (ReadResult, error) {
	const op errors.Op = "gitfs.Read"

	st, err := s.Stats(repoName, relPath, branch)
	if err != nil {
		return ReadResult{}, errors.E(op, err)
	}
	if st.Type != EntryTypeFile {
		return ReadResult{}, errors.E(op, errors.BadRequest,
			fmt.Errorf("%s is a directory, not a file", relPath))
	}

	abs, err := s.absPath(repoName, branch, relPath)
	if err != nil {
		return ReadResult{}, errors.E(op, err)
	}
	content, err := os.ReadFile(abs.String())
	if err != nil {
		return ReadResult{}, errors.E(op, errors.IO, abs, err)
	}

	runner, err := s.runner(repoName, branch)
	if err != nil {
		return ReadResult{}, errors.E(op, err)
	}
	sha, err := s.blobSHA(ctx, runner, relPath)
	if err != nil {
		return ReadResult{}, errors.E(op, err)
	}

	return ReadResult{Content: string(content), SHA: sha}, nil
}

// ListDirectoryContents lists the tracked entries of a directory. Entries
// whose blob SHA lookup fails are filesystem artifacts git does not track
// (lock files, build output) and are filtered out.
func (s *Service) ListDirectoryContents(ctx context.Context, repoName, dirPath, branch string) ([]FileEntry, error) {
	const op errors.Op = "gitfs.ListDirectoryContents"

	st, err := s.Stats(repoName, dirPath, branch)
	if err != nil {
		return nil, errors.E(op, err)
	}
	if st.Type != EntryTypeDir {
		return nil, errors.E(op, errors.BadRequest,
			fmt.Errorf("%s is not a directory", dirPath))
	}

	abs, err := s.absPath(repoName, branch, dirPath)
	if err != nil {
		return nil, errors.E(op, err)
	}
	dirEntries, err := os.ReadDir(abs.String())
	if err != nil {
		return nil, errors.E(op, errors.IO, abs, err)
	}

	runner, err := s.runner(repoName, branch)
	if err != nil {
		return nil, errors.E(op, err)
	}

	entries := make([]FileEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.Name() == ".git" {
			continue
		}
		relPath := path.Join(dirPath, de.Name())
		sha, err := s.blobSHA(ctx, runner, relPath)
		if err != nil {
			// untracked artifact, not part of the published tree
			continue
		}

		entry := FileEntry{
			Name: de.Name(),
			Path: relPath,
			Type: EntryTypeFile,
			SHA:  sha,
		}
		if de.IsDir() {
			entry.Type = EntryTypeDir
		} else if fi, err := de.Info(); err == nil {
			entry.Size = fi.Size()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// commitLogFormat renders sha, author name, author email, author date and
// the full message separated by the ASCII unit separator.
const commitLogFormat = "%H%x1f%an%x1f%ae%x1f%aI%x1f%B"

// GetLatestCommitOfBranch returns the branch's current head commit.
func (s *Service) GetLatestCommitOfBranch(ctx context.Context, repoName, branch string) (CommitRef, error) {
	const op errors.Op = "gitfs.GetLatestCommitOfBranch"

	if err := s.validateRepo(ctx, repoName, branch); err != nil {
		return CommitRef{}, errors.E(op, err)
	}

	runner, err := s.runner(repoName, branch)
	if err != nil {
		return CommitRef{}, errors.E(op, err)
	}
	out, err := runner.RunString(ctx, "log", "-1", "--format="+commitLogFormat, branch)
	if err != nil {
		gitrunnerAmendRepoRef(err, repoName, branch)
		return CommitRef{}, errors.E(op, err)
	}

	parts := strings.SplitN(out, "\x1f", 5)
	if len(parts) != 5 {
		return CommitRef{}, errors.E(op, errors.Git,
			fmt.Errorf("unexpected log output %q", out))
	}
	date, err := time.Parse(time.RFC3339, parts[3])
	if err != nil {
		return CommitRef{}, errors.E(op, errors.Git,
			fmt.Errorf("unexpected author date %q: %w", parts[3], err))
	}

	return CommitRef{
		SHA:         parts[0],
		AuthorName:  parts[1],
		AuthorEmail: parts[2],
		Date:        date,
		Message:     strings.TrimSpace(parts[4]),
	}, nil
}
