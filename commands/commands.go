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

package commands

import (
	"github.com/spf13/cobra"

	"github.com/isomerpages/testcms/internal/cmdclone"
	"github.com/isomerpages/testcms/internal/cmdlog"
	"github.com/isomerpages/testcms/internal/cmdls"
	"github.com/isomerpages/testcms/internal/cmdpin"
	"github.com/isomerpages/testcms/internal/cmdpull"
	"github.com/isomerpages/testcms/internal/cmdpush"
)

// GetRepoCommand groups the repository lifecycle subcommands.
func GetRepoCommand(name string) *cobra.Command {
	repo := &cobra.Command{
		Use:     "repo",
		Short:   "Manage local clones of site repositories",
		Aliases: []string{"repository"},
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := cmd.Flags().GetBool("help")
			if err != nil {
				return err
			}
			if h {
				return cmd.Help()
			}
			return cmd.Usage()
		},
	}

	repo.AddCommand(
		cmdclone.NewCommand(name),
		cmdpull.NewCommand(name),
		cmdpush.NewCommand(name),
		cmdpin.NewCommand(name),
		cmdlog.NewCommand(name),
		cmdls.NewCommand(name),
	)
	return repo
}

// GetAllCommands returns the set of testcms commands to be registered
func GetAllCommands(name string) []*cobra.Command {
	c := []*cobra.Command{
		GetRepoCommand(name),
	}

	// apply cross-cutting issues to commands
	NormalizeCommand(c...)
	return c
}

// NormalizeCommand will modify commands to be consistent, e.g. silencing errors
func NormalizeCommand(c ...*cobra.Command) {
	for i := range c {
		cmd := c[i]
		// errors are reported once, in main
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		NormalizeCommand(cmd.Commands()...)
	}
}
