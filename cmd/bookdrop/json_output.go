package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// writeJSON emits payload as indented JSON on the command's stdout.
func writeJSON(cmd *cobra.Command, payload any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
