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

// Package cmdutil contains helpers shared by the testcms commands.
package cmdutil

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isomerpages/testcms/internal/config"
	"github.com/isomerpages/testcms/internal/gitfs"
	"github.com/isomerpages/testcms/internal/lock"
)

const (
	StackTraceOnErrors = "COBRA_STACK_TRACE_ON_ERRORS"
	trueString         = "true"
)

// FixDocs replaces instances of old with new in the docs for c
func FixDocs(old, new string, c *cobra.Command) {
	c.Use = strings.ReplaceAll(c.Use, old, new)
	c.Short = strings.ReplaceAll(c.Short, old, new)
	c.Long = strings.ReplaceAll(c.Long, old, new)
	c.Example = strings.ReplaceAll(c.Example, old, new)
}

func PrintErrorStacktrace() bool {
	e := os.Getenv(StackTraceOnErrors)
	if StackOnError || e == trueString || e == "1" {
		return true
	}
	return false
}

// StackOnError if true, will print a stack trace on failure.
var StackOnError bool

// ConfigFlag registers the shared --config flag on a command.
func ConfigFlag(c *cobra.Command, target *string) {
	c.Flags().StringVar(target, "config", "",
		"path to the testcms config file. Defaults and environment variables apply when unset.")
}

// BranchFlag registers the shared --branch flag on a command.
func BranchFlag(c *cobra.Command, target *string, def string) {
	c.Flags().StringVar(target, "branch", def,
		"site branch to operate on, staging or staging-lite.")
}

// NewService builds the git file-system service from the config file at
// path (empty means defaults plus environment overrides).
func NewService(path string) (*gitfs.Service, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return gitfs.New(cfg, lock.NewGate()), nil
}
