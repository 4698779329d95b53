package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"aiupstart.com/go-improve/internal/client"
	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var (
		file    string
		lines   string
		prompt  string
		server  string
		apply   bool
		plain   bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Send a code selection and an instruction to a running service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if prompt == "" {
				return errors.New("--prompt is required")
			}
			sel, err := client.ParseSelection(lines)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			content := string(data)
			code, err := sel.Text(content)
			if err != nil {
				return err
			}
			if code == "" {
				return errors.New("please select some code to improve")
			}

			result, err := client.New(server, timeout).Improve(cmd.Context(), code, prompt)
			if err != nil {
				return err
			}
			if err := render(cmd.OutOrStdout(), result, plain); err != nil {
				return err
			}

			if !apply {
				return nil
			}
			if result.Code == "" {
				return errors.New("no code block in the reply, nothing applied")
			}
			updated, err := sel.Apply(content, result.Code)
			if err != nil {
				return err
			}
			info, err := os.Stat(file)
			if err != nil {
				return err
			}
			if err := os.WriteFile(file, []byte(updated), info.Mode().Perm()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Code updated with improvements.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "source file")
	cmd.Flags().StringVarP(&lines, "lines", "l", "", "line selection a:b (1-based, inclusive); whole file if empty")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "what to improve or change in the code")
	cmd.Flags().StringVar(&server, "server", client.DefaultBaseURL, "improve service base URL")
	cmd.Flags().BoolVar(&apply, "apply", false, "replace the selection with the modified code")
	cmd.Flags().BoolVar(&plain, "plain", false, "print without markdown rendering")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "request timeout")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
