package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "len FILE FIELD",
		Short: "Print the element count of a vector field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.cfg.Resolve(args[1])
			if err != nil {
				return err
			}
			tab, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer tab.Release()

			off, err := tab.Field(f.ID)
			if err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
			n, err := tab.VectorLen(off)
			if err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
