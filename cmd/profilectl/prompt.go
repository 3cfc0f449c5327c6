package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"profile-backend/profile/prompt"
)

func newPromptCmd() *cobra.Command {
	var answers answerFlags
	var showHash bool
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the compiled prompt without calling the completion service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := answers.input(cmd)
			if err != nil {
				return err
			}
			compiled := prompt.Compile(in)
			out := cmd.OutOrStdout()
			if showHash {
				fmt.Fprintf(out, "# %s %s\n", prompt.Version, prompt.Hash(compiled))
			}
			fmt.Fprintln(out, compiled)
			return nil
		},
	}
	answers.register(cmd)
	cmd.Flags().BoolVar(&showHash, "hash", false, "Print the prompt version and hash first")
	return cmd
}
