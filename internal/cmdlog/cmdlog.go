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

// Package cmdlog contains the log command
package cmdlog

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/isomerpages/testcms/internal/gitfs"
	"github.com/isomerpages/testcms/internal/util/cmdutil"
	"github.com/isomerpages/testcms/pkg/printer"
)

// NewRunner returns a command runner.
func NewRunner(parent string) *Runner {
	r := &Runner{}
	c := &cobra.Command{
		Use:     "log REPO",
		Args:    cobra.ExactArgs(1),
		Short:   "Show the latest commit on a site branch",
		Example: "  testcms repo log my-site --branch staging-lite",
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
	ref, err := svc.GetLatestCommitOfBranch(c.Context(), args[0], r.Branch)
	if err != nil {
		return err
	}
	pr := printer.FromContextOrDie(c.Context())
	pr.Printf("commit %s\n", ref.SHA)
	pr.Printf("author %s <%s>\n", ref.AuthorName, ref.AuthorEmail)
	pr.Printf("date   %s\n", ref.Date.Format(time.RFC3339))
	pr.Printf("\n%s\n", ref.Message)
	return nil
}
