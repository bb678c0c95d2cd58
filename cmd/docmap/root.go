package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reoring/docmap"
	"github.com/reoring/docmap/source"
	"github.com/reoring/docmap/value"
)

type loadFlags struct {
	format   string
	maxDepth int
	dup      string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	lf := &loadFlags{}
	root := &cobra.Command{
		Use:           "docmap",
		Short:         "Inspect and convert documents",
		Long:          "docmap loads JSON or YAML documents into the document value model used by the docmap mapper.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&lf.format, "format", "f", "", "input format: json or yaml (default: from the file extension, json for stdin)")
	pf.IntVar(&lf.maxDepth, "max-depth", docmap.DefaultMaxDepth, "maximum nesting depth; negative disables the check")
	pf.StringVar(&lf.dup, "duplicate-keys", "warn", "duplicate object keys: ignore, warn or error")
	pf.BoolVarP(&lf.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newInspectCmd(lf))
	root.AddCommand(newJSONCmd(lf))
	return root
}

func (lf *loadFlags) logger(w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if lf.verbose {
		level = zapcore.DebugLevel
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

func (lf *loadFlags) options(log *zap.Logger) (source.Options, error) {
	o := source.Options{MaxDepth: lf.maxDepth, Sink: docmap.ZapSink(log)}
	switch strings.ToLower(lf.dup) {
	case "ignore":
		o.OnDuplicateKey = docmap.SeverityIgnore
	case "warn":
		o.OnDuplicateKey = docmap.SeverityWarn
	case "error":
		o.OnDuplicateKey = docmap.SeverityError
	default:
		return o, fmt.Errorf("unknown --duplicate-keys value %q", lf.dup)
	}
	return o, nil
}

// load reads the document named by args (or stdin when empty or "-").
func (lf *loadFlags) load(cmd *cobra.Command, args []string) (value.Value, error) {
	log := lf.logger(cmd.ErrOrStderr())
	defer func() { _ = log.Sync() }()

	opts, err := lf.options(log)
	if err != nil {
		return value.Null(), err
	}
	name := "-"
	if len(args) > 0 {
		name = args[0]
	}
	var data []byte
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return value.Null(), err
	}

	format := strings.ToLower(lf.format)
	if format == "" {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}
	log.Debug("loading document", zap.String("file", name), zap.String("format", format), zap.Int("bytes", len(data)))
	switch format {
	case "json":
		return source.ParseJSON(data, opts)
	case "yaml":
		return source.ParseYAML(data, opts)
	}
	return value.Null(), fmt.Errorf("unknown --format %q", lf.format)
}
