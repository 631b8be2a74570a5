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

package cmdclone_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/isomerpages/testcms/internal/cmdclone"
	"github.com/isomerpages/testcms/internal/gitfs"
	"github.com/isomerpages/testcms/internal/testutil"
	"github.com/isomerpages/testcms/pkg/printer/fake"
)

func writeConfigFile(t *testing.T, origin *testutil.TestOrigin) string {
	t.Helper()
	b, err := yaml.Marshal(origin.Config())
	testutil.AssertNoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	testutil.AssertNoError(t, os.WriteFile(path, b, 0644))
	return path
}

func TestCloneCommand(t *testing.T) {
	origin := testutil.NewTestOrigin(t, "my-site", map[string]string{
		"index.md": "# Home\n",
	})
	cfgPath := writeConfigFile(t, origin)

	var out bytes.Buffer
	cmd := cmdclone.NewCommand("testcms")
	cmd.SetArgs([]string{"my-site", "--config", cfgPath})
	err := cmd.ExecuteContext(fake.CtxWithPrinter(&out, &out))
	testutil.AssertNoError(t, err)

	assert.Contains(t, out.String(), "cloned my-site")
	for _, branch := range []string{gitfs.BranchStaging, gitfs.BranchStagingLite} {
		_, err := os.Stat(filepath.Join(origin.WorktreePath(branch), "index.md"))
		testutil.AssertNoError(t, err)
	}
}

func TestCloneCommandUnknownRepo(t *testing.T) {
	origin := testutil.NewTestOrigin(t, "my-site", nil)
	cfgPath := writeConfigFile(t, origin)

	cmd := cmdclone.NewCommand("testcms")
	cmd.SetArgs([]string{"no-such-site", "--config", cfgPath})
	err := cmd.ExecuteContext(fake.CtxWithDefaultPrinter())
	assert.Error(t, err)
}
