package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in so quiz answers are saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		name, _ := cmd.Flags().GetString("name")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		e, err := openEnv(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		s, err := e.accounts.SignIn(ctx, user, name, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s until %s\n", s.UserID, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		e, err := openEnv(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.accounts.SignOut(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		e, err := openEnv(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		s, err := e.accounts.Current(cmd.Context())
		if err != nil {
			return fmt.Errorf("read session: %w", err)
		}
		out := cmd.OutOrStdout()
		if s == nil {
			fmt.Fprintln(out, "Not signed in.")
			return nil
		}
		if s.Name != "" {
			fmt.Fprintf(out, "%s (%s)\n", s.UserID, s.Name)
		} else {
			fmt.Fprintln(out, s.UserID)
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().String("user", "", "User id (no spaces)")
	loginCmd.Flags().String("name", "", "Display name")
	loginCmd.Flags().Duration("ttl", 0, "Session lifetime (default 30 days)")
	loginCmd.MarkFlagRequired("user")
}
