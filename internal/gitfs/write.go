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
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/isomerpages/testcms/internal/errors"
)

// Content encodings accepted by Create.
const (
	EncodingUTF8   = "utf-8"
	EncodingBase64 = "base64"
)

// CreateInput are the arguments to Create.
type CreateInput struct {
	RepoName      string
	UserID        string
	Content       string
	DirectoryName string
	FileName      string
	// Encoding is utf-8 or base64. Empty means utf-8.
	Encoding string
	Branch   string
}

// CreateResult is the outcome of a successful Create.
type CreateResult struct {
	// NewSHA is the blob SHA of the created file, the token for a later
	// update or delete.
	NewSHA string
}

// Create writes a new file and commits it. The target must not already
// exist; the parent directory is created if absent.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateResult, error) {
	const op errors.Op = "gitfs.Create"

	content, err := decodeContent(in.Content, in.Encoding)
	if err != nil {
		return CreateResult{}, errors.E(op, err)
	}

	release, err := s.acquire(in.RepoName, in.Branch)
	if err != nil {
		return CreateResult{}, errors.E(op, err)
	}
	defer release()

	if err := s.validateRepo(ctx, in.RepoName, in.Branch); err != nil {
		return CreateResult{}, errors.E(op, err)
	}

	runner, err := s.runner(in.RepoName, in.Branch)
	if err != nil {
		return CreateResult{}, errors.E(op, err)
	}
	oldStateSha, err := s.latestCommitSHA(ctx, runner)
	if err != nil {
		return CreateResult{}, errors.E(op, err)
	}

	relPath := path.Join(in.DirectoryName, in.FileName)
	_, err = s.Stats(in.RepoName, relPath, in.Branch)
	if err == nil {
		return CreateResult{}, errors.E(op, errors.Conflict,
			fmt.Errorf("%s already exists", relPath))
	}
	if !errors.IsKind(err, errors.NotFound) {
		return CreateResult{}, errors.E(op, err)
	}

	abs, err := s.absPath(in.RepoName, in.Branch, relPath)
	if err != nil {
		return CreateResult{}, errors.E(op, err)
	}

	// disk mutation starts here; failures below roll back to oldStateSha
	if err := os.MkdirAll(filepath.Dir(abs.String()), 0755); err != nil {
		return CreateResult{}, s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha,
			errors.E(op, errors.IO, abs, err))
	}
	if err := os.WriteFile(abs.String(), content, 0644); err != nil {
		return CreateResult{}, s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha,
			errors.E(op, errors.IO, abs, err))
	}

	msg := CommitMessage{
		Message:  fmt.Sprintf("Create file: %s", relPath),
		FileName: in.FileName,
		UserID:   in.UserID,
	}
	if _, err := s.commitPathspec(ctx, runner, msg, relPath); err != nil {
		return CreateResult{}, s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha, errors.E(op, err))
	}

	newSha, err := s.blobSHA(ctx, runner, relPath)
	if err != nil {
		return CreateResult{}, s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha, errors.E(op, err))
	}
	return CreateResult{NewSHA: newSha}, nil
}

// UpdateInput are the arguments to Update.
type UpdateInput struct {
	RepoName string
	Path     string
	Content  string
	// OldSHA must equal the file's current blob SHA; a stale value is
	// rejected with Conflict.
	OldSHA string
	UserID string
	Branch string
}

// Update overwrites an existing file and commits it, guarded by the blob
// SHA optimistic-concurrency check. Returns the file's new blob SHA.
func (s *Service) Update(ctx context.Context, in UpdateInput) (string, error) {
	const op errors.Op = "gitfs.Update"

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
	if st.Type != EntryTypeFile {
		return "", errors.E(op, errors.BadRequest,
			fmt.Errorf("%s is a directory, not a file", in.Path))
	}

	currentSha, err := s.blobSHA(ctx, runner, in.Path)
	if err != nil {
		return "", errors.E(op, err)
	}
	if currentSha != in.OldSHA {
		return "", errors.E(op, errors.Conflict,
			fmt.Errorf("%s has changed recently, please refresh and try again", in.Path))
	}

	abs, err := s.absPath(in.RepoName, in.Branch, in.Path)
	if err != nil {
		return "", errors.E(op, err)
	}

	// disk mutation starts here
	if err := os.WriteFile(abs.String(), []byte(in.Content), 0644); err != nil {
		return "", s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha,
			errors.E(op, errors.IO, abs, err))
	}

	msg := CommitMessage{
		Message:  fmt.Sprintf("Update file: %s", in.Path),
		FileName: path.Base(in.Path),
		UserID:   in.UserID,
	}
	if _, err := s.commitPathspec(ctx, runner, msg, in.Path); err != nil {
		return "", s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha, errors.E(op, err))
	}

	newSha, err := s.blobSHA(ctx, runner, in.Path)
	if err != nil {
		return "", s.rollbackAndErr(ctx, in.RepoName, in.Branch, oldStateSha, errors.E(op, err))
	}
	return newSha, nil
}

func decodeContent(content, encoding string) ([]byte, error) {
	const op errors.Op = "gitfs.decodeContent"
	switch encoding {
	case "", EncodingUTF8:
		return []byte(content), nil
	case EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, errors.E(op, errors.BadRequest,
				fmt.Errorf("content is not valid base64: %w", err))
		}
		return b, nil
	}
	return nil, errors.E(op, errors.BadRequest,
		fmt.Errorf("unknown encoding %q", encoding))
}
