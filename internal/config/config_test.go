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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/isomerpages/testcms/internal/config"
	"github.com/isomerpages/testcms/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "testcms.yaml")
	content := `
reposRoot: /mnt/sites
liteReposRoot: /mnt/sites-lite
gitOrg: my-org
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.FailNow()
	}

	cfg, err := config.Load(path)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, "/mnt/sites", cfg.ReposRoot)
	assert.Equal(t, "/mnt/sites-lite", cfg.LiteReposRoot)
	// unset keys fall back to defaults
	assert.Equal(t, "github.com", cfg.GitHost)
	assert.Equal(t, "git@github.com:my-org/my-site.git", cfg.RemoteURL("my-site"))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, config.Default().ReposRoot, cfg.ReposRoot)
}

func TestLoadRejectsSharedVolume(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "testcms.yaml")
	content := `
reposRoot: /mnt/sites
liteReposRoot: /mnt/sites
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.FailNow()
	}

	_, err := config.Load(path)
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.True(t, errors.IsKind(err, errors.BadRequest))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(config.ReposRootEnv, "/data/full")
	t.Setenv(config.LiteReposRootEnv, "/data/lite")
	t.Setenv(config.GitHostEnv, "git.example.com")

	cfg := config.FromEnv()
	assert.Equal(t, "/data/full", cfg.ReposRoot)
	assert.Equal(t, "/data/lite", cfg.LiteReposRoot)
	assert.Equal(t, "git@git.example.com:isomerpages/site.git", cfg.RemoteURL("site"))
}
