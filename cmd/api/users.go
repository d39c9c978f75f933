package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCreateUserCmd(envFile *string) *cobra.Command {
	var username, plain string
	var staff bool

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create an account that can own books",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.close()

			u, err := a.authService().Register(cmd.Context(), username, plain, staff)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			a.log.Info("user created", zap.Int64("user_id", u.ID), zap.String("username", u.Username), zap.Bool("staff", u.IsStaff))
			fmt.Fprintln(cmd.OutOrStdout(), u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&plain, "password", "", "password, at least 8 characters")
	cmd.Flags().BoolVar(&staff, "staff", false, "grant staff rights")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newTokenCmd(envFile *string) *cobra.Command {
	var username, plain string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for an existing user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || plain == "" {
				return errors.New("--username and --password are required")
			}
			a, err := bootstrap(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.close()

			tok, err := a.authService().IssueToken(cmd.Context(), username, plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&plain, "password", "", "password")
	return cmd
}
