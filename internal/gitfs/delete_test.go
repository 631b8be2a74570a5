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
	"testing"

	"github.com/isomerpages/testcms/internal/errors"
	"github.com/isomerpages/testcms/internal/gitfs"
	"github.com/stretchr/testify/assert"
)

func TestDeleteFile(t *testing.T) {
	svc, _ := newTestService(t, defaultFiles)
	ctx := context.Background()

	current, err := svc.Read(ctx, testRepo, "pages/about.md", gitfs.BranchStaging)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	// stale SHA is rejected before anything is removed
	_, err = svc.Delete(ctx, gitfs.DeleteInput{
		RepoName: testRepo,
		Path:     "pages/about.md",
		OldSHA:   "0000000000000000000000000000000000000000",
		UserID:   "u1",
		Branch:   gitfs.BranchStaging,
	})
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.True(t, errors.IsKind(err, errors.Conflict))

	commitSha, err := svc.Delete(ctx, gitfs.DeleteInput{
		RepoName: testRepo,
		Path:     "pages/about.md",
		OldSHA:   current.SHA,
		UserID:   "u1",
		Branch:   gitfs.BranchStaging,
	})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.NotEmpty(t, commitSha)

	_, err = svc.Read(ctx, testRepo, "pages/about.md", gitfs.BranchStaging)
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.True(t, errors.IsKind(err, errors.NotFound))
}

func TestDeleteDirectory(t *testing.T) {
	svc, _ := newTestService(t, defaultFiles)
	ctx := context.Background()

	// type mismatch: pages is a directory
	_, err := svc.Delete(ctx, gitfs.DeleteInput{
		RepoName: testRepo,
		Path:     "pages",
		UserID:   "u1",
		IsDir:    false,
		Branch:   gitfs.BranchStaging,
	})
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.True(t, errors.IsKind(err, errors.BadRequest))

	// directory delete is recursive and skips the SHA check
	_, err = svc.Delete(ctx, gitfs.DeleteInput{
		RepoName: testRepo,
		Path:     "pages",
		UserID:   "u1",
		IsDir:    true,
		Branch:   gitfs.BranchStaging,
	})
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	_, err = svc.Stats(testRepo, "pages", gitfs.BranchStaging)
	assert.True(t, errors.IsKind(err, errors.NotFound))

	_, err = svc.Read(ctx, testRepo, "pages/faq.md", gitfs.BranchStaging)
	assert.True(t, errors.IsKind(err, errors.NotFound))
}

func TestDeleteMissingPath(t *testing.T) {
	svc, _ := newTestService(t, defaultFiles)

	_, err := svc.Delete(context.Background(), gitfs.DeleteInput{
		RepoName: testRepo,
		Path:     "pages/nope.md",
		UserID:   "u1",
		Branch:   gitfs.BranchStaging,
	})
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.True(t, errors.IsKind(err, errors.NotFound))
}
