package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"profile-backend/internal/bootstrap"
	"profile-backend/internal/shared/config"
)

func newGenerateCmd() *cobra.Command {
	var answers answerFlags
	var out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a profile and write it as a PDF",
		Long: `Generate calls the configured completion service (LLM_PROVIDER with
OPENAI_API_KEY or GEMINI_API_KEY), prints the profile text and writes the
rendered PDF.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := answers.input(cmd)
			if err != nil {
				return err
			}

			cfg := config.Load()
			ctx := context.Background()
			client, err := bootstrap.BuildLLM(ctx, cfg)
			if err != nil {
				return err
			}
			renderOpts, err := bootstrap.RenderOptions(cfg)
			if err != nil {
				return err
			}
			svc := bootstrap.NewProfileService(cfg, client, renderOpts)

			result, err := svc.Submit(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.DisplayText)

			if result.RenderErr != nil {
				return errors.Wrap(result.RenderErr, "render profile")
			}
			if err := os.WriteFile(out, result.Document, 0o644); err != nil {
				return errors.Wrapf(err, "write %s", out)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(result.Document))
			return nil
		},
	}
	answers.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "AI_Career_Profile.pdf", "Output PDF path")
	return cmd
}
