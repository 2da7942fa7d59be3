// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/catalogsync/cmd/catalogsync/commands"
	"github.com/walteh/catalogsync/cmd/catalogsync/opts"
)

// newRootCmd builds the command tree writing to the given streams
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &opts.RootOpts{Stdout: stdout, Stderr: stderr}

	cmd := &cobra.Command{
		Use:   "catalogsync",
		Short: "Replicate catalog objects between APIs and directories",
		Long: `catalogsync copies catalog objects (workflow handlers, config contexts,
resource templates, environment templates, compute profiles and service
profiles) from a source endpoint to a target endpoint. Each endpoint is either
a catalog API base URL or a local directory.

API keys are read from SOURCE_API_KEY and TARGET_API_KEY when the matching
endpoint is a URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(root.Context(cmd.Context()))
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	addRootFlags(cmd, root)

	cmd.AddCommand(
		commands.NewReplicateCmd(root),
		commands.NewTypesCmd(root),
		commands.NewCleanCmd(root),
		commands.NewVersionCmd(root),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, root *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&root.ConfigFile, "config", "c", "", "config file path (.yaml, .yml, .json or .hcl)")
	cmd.PersistentFlags().BoolVarP(&root.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&root.NoColor, "no-color", false, "disable colored output")
}
