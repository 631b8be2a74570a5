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

// Package config holds the deployment configuration for the git
// file-system service: the volume roots holding the working trees and the
// remote host the site repositories live on.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/isomerpages/testcms/internal/errors"
)

// Environment variables overriding the file/default configuration.
const (
	ReposRootEnv     = "TESTCMS_REPOS_ROOT"
	LiteReposRootEnv = "TESTCMS_LITE_REPOS_ROOT"
	GitHostEnv       = "TESTCMS_GIT_HOST"
	GitOrgEnv        = "TESTCMS_GIT_ORG"
)

// Config describes where working trees live on disk and how remotes are
// addressed.
type Config struct {
	// ReposRoot is the volume under which staging working trees live,
	// one directory per site repository.
	ReposRoot string `yaml:"reposRoot"`

	// LiteReposRoot is the volume for staging-lite working trees. It must
	// be disjoint from ReposRoot so the two branches of a site can be
	// mutated independently.
	LiteReposRoot string `yaml:"liteReposRoot"`

	// GitHost is the SSH host of the remote git server, e.g. github.com.
	GitHost string `yaml:"gitHost"`

	// GitOrg is the organization owning the site repositories.
	GitOrg string `yaml:"gitOrg"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		ReposRoot:     "/efs/repos",
		LiteReposRoot: "/efs/repos-lite",
		GitHost:       "github.com",
		GitOrg:        "isomerpages",
	}
}

// Load reads a yaml configuration file and applies environment overrides
// on top of it. A missing file is not an error; defaults are used.
func Load(path string) (Config, error) {
	const op errors.Op = "config.Load"
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, errors.E(op, errors.IO, err)
			}
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, errors.E(op, errors.BadRequest,
				fmt.Errorf("malformed config file %s: %w", path, err))
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, errors.E(op, err)
	}
	return cfg, nil
}

// FromEnv returns the default configuration with environment overrides.
func FromEnv() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv(ReposRootEnv); v != "" {
		c.ReposRoot = v
	}
	if v := os.Getenv(LiteReposRootEnv); v != "" {
		c.LiteReposRoot = v
	}
	if v := os.Getenv(GitHostEnv); v != "" {
		c.GitHost = v
	}
	if v := os.Getenv(GitOrgEnv); v != "" {
		c.GitOrg = v
	}
}

func (c Config) validate() error {
	const op errors.Op = "config.validate"
	if c.ReposRoot == "" || c.LiteReposRoot == "" {
		return errors.E(op, errors.BadRequest, "repo volume roots must not be empty")
	}
	if c.ReposRoot == c.LiteReposRoot {
		return errors.E(op, errors.BadRequest,
			"staging and staging-lite volumes must be disjoint")
	}
	return nil
}

// RemoteURL returns the canonical remote for a site repository. A GitHost
// that is an absolute path addresses a directory of bare repositories on
// local disk, used for development and tests; anything else is treated as
// an SSH host.
func (c Config) RemoteURL(repoName string) string {
	if filepath.IsAbs(c.GitHost) {
		return filepath.Join(c.GitHost, repoName+".git")
	}
	return fmt.Sprintf("git@%s:%s/%s.git", c.GitHost, c.GitOrg, repoName)
}
