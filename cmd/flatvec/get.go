package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/flatvec"
	"github.com/rawbytedev/flatvec/internal/layout"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE FIELD INDEX",
		Short: "Print one element of a vector field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.cfg.Resolve(args[1])
			if err != nil {
				return err
			}
			i, err := flatvec.ParseIndex(args[2])
			if err != nil {
				return err
			}
			tab, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer tab.Release()

			col, err := layout.Open(tab, f)
			if err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
			s, err := col.Format(i)
			if err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
}
