package main

import (
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/docmap/protoval"
)

func newJSONCmd(lf *loadFlags) *cobra.Command {
	var (
		indent   bool
		viaProto bool
	)
	cmd := &cobra.Command{
		Use:   "json [file]",
		Short: "Re-render a document as canonical JSON",
		Long: "json loads a JSON or YAML document and writes it back as JSON, keeping key order. " +
			"With --proto the output follows the google.protobuf.Value JSON mapping instead.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := lf.load(cmd, args)
			if err != nil {
				return err
			}
			var raw []byte
			if viaProto {
				raw, err = protoval.MarshalJSON(doc)
			} else {
				raw, err = gojson.Marshal(doc)
			}
			if err != nil {
				return err
			}
			if indent {
				var buf bytes.Buffer
				if err := gojson.Indent(&buf, raw, "", "  "); err != nil {
					return err
				}
				raw = buf.Bytes()
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return err
		},
	}
	cmd.Flags().BoolVar(&indent, "indent", false, "indent the output")
	cmd.Flags().BoolVar(&viaProto, "proto", false, "render through google.protobuf.Value")
	return cmd
}
