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
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/isomerpages/testcms/internal/errors"
	"github.com/isomerpages/testcms/internal/gitfs"
	"github.com/isomerpages/testcms/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestListDirectoryContents(t *testing.T) {
	svc, origin := newTestService(t, defaultFiles)
	ctx := context.Background()

	// an on-disk artifact git does not track must not appear
	untracked := filepath.Join(origin.WorktreePath(gitfs.BranchStaging), "pages", "draft.tmp")
	testutil.AssertNoError(t, os.WriteFile(untracked, []byte("wip"), 0644))

	entries, err := svc.ListDirectoryContents(ctx, testRepo, "pages", gitfs.BranchStaging)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
		assert.NotEmpty(t, e.SHA)
		assert.Equal(t, gitfs.EntryTypeFile, e.Type)
	}
	sort.Strings(names)
	if diff := cmp.Diff([]string{"about.md", "faq.md"}, names); diff != "" {
		t.Errorf("unexpected listing (-want +got):\n%s", diff)
	}
}

func TestListRootIncludesDirectories(t *testing.T) {
	svc, _ := newTestService(t, defaultFiles)

	entries, err := svc.ListDirectoryContents(context.Background(), testRepo, ".", gitfs.BranchStaging)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	byName := map[string]gitfs.FileEntry{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	assert.Equal(t, gitfs.EntryTypeDir, byName["pages"].Type)
	assert.Equal(t, int64(0), byName["pages"].Size)
	assert.Equal(t, gitfs.EntryTypeFile, byName["index.md"].Type)
	assert.Equal(t, int64(len("# Home\n")), byName["index.md"].Size)
}

func TestListMissingDirectory(t *testing.T) {
	svc, _ := newTestService(t, defaultFiles)

	_, err := svc.ListDirectoryContents(context.Background(), testRepo, "nope", gitfs.BranchStaging)
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.True(t, errors.IsKind(err, errors.NotFound))
}

func TestReadRejectsDirectory(t *testing.T) {
	svc, _ := newTestService(t, defaultFiles)

	_, err := svc.Read(context.Background(), testRepo, "pages", gitfs.BranchStaging)
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.True(t, errors.IsKind(err, errors.BadRequest))
}

func TestGetLatestCommitOfBranch(t *testing.T) {
	svc, _ := newTestService(t, defaultFiles)
	ctx := context.Background()

	created, err := svc.Create(ctx, gitfs.CreateInput{
		RepoName: testRepo,
		UserID:   "u42",
		Content:  "x",
		FileName: "news.md",
		Branch:   gitfs.BranchStaging,
	})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.NotEmpty(t, created.NewSHA)

	ref, err := svc.GetLatestCommitOfBranch(ctx, testRepo, gitfs.BranchStaging)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Len(t, ref.SHA, 40)
	assert.Equal(t, "testcms", ref.AuthorName)
	assert.False(t, ref.Date.IsZero())

	msg, ok := gitfs.ParseCommitMessage(ref.Message)
	assert.True(t, ok)
	assert.Equal(t, "u42", msg.UserID)
	assert.Equal(t, "news.md", msg.FileName)
}

func TestStats(t *testing.T) {
	svc, _ := newTestService(t, defaultFiles)

	st, err := svc.Stats(testRepo, "index.md", gitfs.BranchStaging)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, gitfs.EntryTypeFile, st.Type)
	assert.Equal(t, int64(len("# Home\n")), st.Size)

	st, err = svc.Stats(testRepo, "pages", gitfs.BranchStaging)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, gitfs.EntryTypeDir, st.Type)

	_, err = svc.Stats(testRepo, "missing.md", gitfs.BranchStaging)
	assert.True(t, errors.IsKind(err, errors.NotFound))
}
