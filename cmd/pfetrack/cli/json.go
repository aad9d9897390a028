// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON marshals value as indented JSON and writes it to stdout,
// for commands invoked with --json.
func WriteJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
