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

package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/catalogsync/cmd/catalogsync/opts"
	"github.com/walteh/catalogsync/pkg/catalog"
	"gitlab.com/tozd/go/errors"
)

// NewCleanCmd creates the clean command
func NewCleanCmd(root *opts.RootOpts) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "clean FILE",
		Short: "Print the cleaned form of one record",
		Long: `Clean reads one JSON record and prints it the way replicate would write
it: server managed metadata, sharing, agents, hook agents and status removed,
and metadata.project set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Errorf("reading record: %w", err)
			}
			obj, err := catalog.DecodeObject(data)
			if err != nil {
				return errors.Errorf("decoding %s: %w", args[0], err)
			}

			out, err := catalog.Clean(obj, project).MarshalIndent()
			if err != nil {
				return err
			}
			_, err = root.Stdout.Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", catalog.DefaultProject, "project written into metadata.project")
	return cmd
}
