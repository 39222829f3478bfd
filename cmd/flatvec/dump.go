package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rawbytedev/flatvec"
	"github.com/rawbytedev/flatvec/internal/layout"
)

var errNoFields = errors.New("no fields to dump: name them or declare them in a layout")

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE [FIELD...]",
		Short: "Print every element of the given or declared fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := a.cfg.Fields
			if len(args) > 1 {
				fields = make([]layout.Field, 0, len(args)-1)
				for _, ref := range args[1:] {
					f, err := a.cfg.Resolve(ref)
					if err != nil {
						return err
					}
					fields = append(fields, f)
				}
			}
			if len(fields) == 0 {
				return errNoFields
			}

			tab, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer tab.Release()

			w := cmd.OutOrStdout()
			for _, f := range fields {
				if err := a.dumpField(w, tab, f); err != nil {
					return fmt.Errorf("field %s: %w", f.Name, err)
				}
			}
			return nil
		},
	}
}

func (a *app) dumpField(w io.Writer, tab *flatvec.BufferTable, f layout.Field) error {
	col, err := layout.Open(tab, f)
	if errors.Is(err, flatvec.ErrFieldNotPresent) {
		a.log.Debug("field absent", zap.String("field", f.Name), zap.Int("id", f.ID))
		fmt.Fprintf(w, "%s: not present\n", f.Name)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s (%s, %d elements)\n", f.Name, f.Kind, col.Len())
	for i := 0; i < col.Len(); i++ {
		s, err := col.Format(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  [%d] %s\n", i, s)
	}
	return nil
}
