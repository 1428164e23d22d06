package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leofalp/recordx/core/client"
	"github.com/leofalp/recordx/core/document"
	"github.com/leofalp/recordx/internal/config"
	slogobserver "github.com/leofalp/recordx/providers/observability/slog"
)

type runOptions struct {
	goal        string
	deliverable string
	system      string
	outPath     string
	noWrite     bool
}

func newRunCmd(a *app, envFiles *[]string) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prompt the model for a record and write its output as README",
		Long: `Prompt the configured model with a goal and a deliverable, recover the
analysis/plan/output record from the reply, print it and write the output
field, cleaned up and framed by the README header and footer, to a file.

The model and transport come from the environment (see RECORDX_PROVIDER,
RECORDX_MODEL, OLLAMA_HOST, OPENAI_API_KEY) or a .env file.

Examples:
  recordx run
  recordx run --goal "Set up a RAG index" --deliverable "A README" --out RAG.md
  recordx run --no-write`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, a, *envFiles, opts)
		},
	}

	cmd.Flags().StringVar(&opts.goal, "goal", defaultGoal, "goal placed in the prompt")
	cmd.Flags().StringVar(&opts.deliverable, "deliverable", defaultDeliverable, "deliverable placed in the prompt")
	cmd.Flags().StringVar(&opts.system, "system", systemPrompt, "system prompt")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "README.md", "file the rendered output is written to")
	cmd.Flags().BoolVar(&opts.noWrite, "no-write", false, "print the rendered output without writing a file")

	return cmd
}

func runRun(cmd *cobra.Command, a *app, envFiles []string, opts *runOptions) error {
	settings, err := config.Load(envFiles...)
	if err != nil {
		return err
	}

	logger := a.newLogger(cmd.ErrOrStderr())

	provider, err := a.newProvider(settings)
	if err != nil {
		return err
	}

	complete, middlewares := completeFunc(provider, settings, logger)
	extractClient, err := client.New(complete,
		client.WithConfig(settings.ClientConfig()),
		client.WithObserver(slogobserver.New(logger)),
		client.WithMiddleware(middlewares...),
	)
	if err != nil {
		return err
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, opts.goal, opts.deliverable)
	record, err := extractClient.Extract(cmd.Context(), opts.system, userPrompt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeLists(out, record); err != nil {
		return err
	}

	writer := document.NewWriter(
		document.WithHeader(readmeHeader),
		document.WithFooter(readmeFooter),
	)

	var content string
	if opts.noWrite {
		content, err = writer.Render(record.Output)
	} else {
		content, err = writer.WriteFile(opts.outPath, record.Output)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n=== OUTPUT ===\n%s\n", content)
	if !opts.noWrite {
		fmt.Fprintf(out, "\n(Wrote %s)\n", opts.outPath)
	}
	return nil
}
