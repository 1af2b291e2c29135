package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/strrl/combatlog/pkg/export"
)

func templateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template [path]",
		Short: "Write an empty master workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.Export.MasterWorkbook
			if len(args) == 1 {
				path = args[0]
			}
			if err := export.CreateMasterWorkbook(path); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Master workbook: %s\n", path)
			return nil
		},
	}
}
