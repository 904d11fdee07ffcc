package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gsheetagent/app/usecase"
)

func newUploadCmd(opts *rootOptions) *cobra.Command {
	var (
		scriptID string
		token    string
		codeFile string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Push code (or the placeholder) to a script project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := opts.cfg, opts.logger
			if err := cfg.ValidateScript(); err != nil {
				return err
			}
			if token == "" {
				token = os.Getenv("GOOGLE_ACCESS_TOKEN")
			}
			if scriptID == "" || token == "" {
				return errors.New("--script-id and --token (or GOOGLE_ACCESS_TOKEN) are required")
			}
			if timezone == "" {
				timezone = cfg.Script.DefaultTimezone
			}

			var updateOpts []usecase.UpdateOption
			if codeFile != "" {
				code, err := os.ReadFile(codeFile)
				if err != nil {
					return fmt.Errorf("read code file: %w", err)
				}
				updateOpts = append(updateOpts, usecase.WithCode(string(code)))
			}

			updater, err := newUpdater(cfg, logger)
			if err != nil {
				return err
			}
			project, err := newProjects(cfg).ForToken(cmd.Context(), token)
			if err != nil {
				return err
			}
			if err := updater.UpdateContent(cmd.Context(), project, scriptID, timezone, updateOpts...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "uploaded to %s\n", scriptID)
			return nil
		},
	}

	cmd.Flags().StringVar(&scriptID, "script-id", "", "target script project id")
	cmd.Flags().StringVar(&token, "token", "", "OAuth access token")
	cmd.Flags().StringVar(&codeFile, "code-file", "", "file with code to upload instead of the placeholder")
	cmd.Flags().StringVar(&timezone, "timezone", "", "manifest time zone (defaults to DEFAULT_TIMEZONE)")
	return cmd
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var (
		spreadsheetID string
		token         string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a script project bound to a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := opts.cfg, opts.logger
			if err := cfg.ValidateScript(); err != nil {
				return err
			}
			if token == "" {
				token = os.Getenv("GOOGLE_ACCESS_TOKEN")
			}

			updater, err := newUpdater(cfg, logger)
			if err != nil {
				return err
			}
			svc := usecase.NewScriptService(newProjects(cfg), updater, cfg.Script.ProjectTitle, cfg.Script.DefaultTimezone, logger)

			scriptID, err := svc.CreateScript(cmd.Context(), token, spreadsheetID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), scriptID)
			return nil
		},
	}

	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "spreadsheet to bind the project to")
	cmd.Flags().StringVar(&token, "token", "", "OAuth access token")
	return cmd
}
