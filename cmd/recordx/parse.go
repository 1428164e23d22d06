package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/recordx/core/parse"
	"github.com/leofalp/recordx/internal/utils"
	slogobserver "github.com/leofalp/recordx/providers/observability/slog"
)

// Output formats of the parse command.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

type parseOptions struct {
	format     string
	deepRepair bool
}

func newParseCmd(a *app) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Recover a record from saved model output",
		Long: `Run the recovery pipeline over a saved model reply and print the record.
The reply is read from file, or from standard input when file is "-" or
omitted. No model is contacted.

Examples:
  recordx parse reply.txt
  ollama run phi3:mini "..." | recordx parse --format yaml
  recordx parse --deep-repair broken.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, a, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json, yaml or text")
	cmd.Flags().BoolVar(&opts.deepRepair, "deep-repair", false, "repair unquoted keys, single quotes and other damage, not just trailing commas")

	return cmd
}

func runParse(cmd *cobra.Command, a *app, args []string, opts *parseOptions) error {
	switch opts.format {
	case formatJSON, formatYAML, formatText:
	default:
		return fmt.Errorf("unknown format %q: want %s, %s or %s", opts.format, formatJSON, formatYAML, formatText)
	}

	raw, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	extractorOpts := []parse.ExtractorOption{
		parse.WithObserver(slogobserver.New(a.newLogger(cmd.ErrOrStderr()))),
	}
	if opts.deepRepair {
		extractorOpts = append(extractorOpts, parse.WithRepairer(parse.JSONRepairer))
	}

	result, err := parse.NewExtractor(extractorOpts...).ExtractContext(cmd.Context(), raw)
	if err != nil {
		return fmt.Errorf("input is not a record (preview: %s): %w", utils.Preview(raw, 200), err)
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case formatYAML:
		encoded, err := yaml.Marshal(result.Record)
		if err != nil {
			return err
		}
		_, err = out.Write(encoded)
		return err
	case formatText:
		return writeReport(out, result.Record)
	default:
		encoded, err := utils.MarshalJSON(result.Record, true)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", encoded)
		return err
	}
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
