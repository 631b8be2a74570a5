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

// Package cmdpull contains the pull command
package cmdpull

import (
	"github.com/spf13/cobra"

	"github.com/isomerpages/testcms/internal/gitfs"
	"github.com/isomerpages/testcms/internal/util/cmdutil"
	"github.com/isomerpages/testcms/pkg/printer"
)

// NewRunner returns a command runner.
func NewRunner(parent string) *Runner {
	r := &Runner{}
	c := &cobra.Command{
		Use:     "pull REPO",
		Args:    cobra.ExactArgs(1),
		Short:   "Bring a site working tree up to date with its remote",
		Example: "  testcms repo pull my-site --branch staging-lite",
		RunE:    r.runE,
	}

	cmdutil.ConfigFlag(c, &r.ConfigPath)
	cmdutil.BranchFlag(c, &r.Branch, gitfs.BranchStaging)
	cmdutil.FixDocs("testcms", parent, c)
	r.Command = c
	return r
}

func NewCommand(parent string) *cobra.Command {
	return NewRunner(parent).Command
}

// Runner contains the run function
type Runner struct {
	Command    *cobra.Command
	ConfigPath string
	Branch     string
}

func (r *Runner) runE(c *cobra.Command, args []string) error {
	svc, err := cmdutil.NewService(r.ConfigPath)
	if err != nil {
		return err
	}
	repoName := args[0]
	if err := svc.Pull(c.Context(), repoName, r.Branch); err != nil {
		return err
	}
	pr := printer.FromContextOrDie(c.Context())
	pr.Printf("pulled %s (%s)\n", repoName, r.Branch)
	return nil
}
