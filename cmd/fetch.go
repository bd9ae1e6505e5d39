/*
Copyright 2024 Quill Press Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"

	"github.com/spf13/cobra"
)

// fetchCommands wires the "fetch" subcommand: run one checkpointed ingestion
// pass and exit. A run that finds no new updates exits zero like any other
// successful run.
func fetchCommands(q *quillInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch new Telegram messages into the pending queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := q.quill.RunIngestion(context.Background())
			return err
		},
	}

	return cmd
}
