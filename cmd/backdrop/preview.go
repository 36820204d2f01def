// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/gviegas/backdrop/term"
)

func newPreview(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Show the backdrop behind a demo wizard in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Logs would corrupt the terminal UI.
			cfg, err := opts.resolve(io.Discard)
			if err != nil {
				return err
			}
			return term.Run(cmd.Context(), cfg)
		},
	}
}
