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
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/walteh/catalogsync/cmd/catalogsync/opts"
	"github.com/walteh/catalogsync/pkg/catalog"
)

// NewTypesCmd creates the types command
func NewTypesCmd(root *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the object types catalogsync knows about",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}
			registry, err := cfg.Registry(catalog.DefaultRegistry())
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(root.Stdout)
			tw.AppendHeader(table.Row{"Name", "Segment", "API", "Versioned"})
			for _, t := range registry.All() {
				tw.AppendRow(table.Row{t.Name, t.Segment, fmt.Sprintf("%s/%s", t.Namespace, t.APIVersion), t.Versioned})
			}
			tw.Render()
			return nil
		},
	}
}
