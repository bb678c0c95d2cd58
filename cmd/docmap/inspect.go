package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reoring/docmap/value"
)

func newInspectCmd(lf *loadFlags) *cobra.Command {
	var leavesOnly bool
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print every path of a document with its value kind",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := lf.load(cmd, args)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			err = value.Walk(doc, func(path string, v value.Value) error {
				container := v.Kind() == value.KindArray || v.Kind() == value.KindMap
				if leavesOnly && container {
					return nil
				}
				if path == "" {
					path = "(root)"
				}
				if container {
					_, err := fmt.Fprintf(tw, "%s\t%s\n", path, v.Kind())
					return err
				}
				_, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", path, v.Kind(), v)
				return err
			})
			if err != nil {
				return err
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&leavesOnly, "leaves", false, "omit arrays and maps")
	return cmd
}
