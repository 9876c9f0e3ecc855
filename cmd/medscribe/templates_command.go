package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"medscribe/internal/soap"
)

func newTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "templates",
		Short:       "List the clinical documentation templates",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, tpl := range soap.Templates() {
				rows = append(rows, []string{tpl.Key, tpl.DisplayName})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Template"}, rows))
			return nil
		},
	}
}
