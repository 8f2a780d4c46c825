package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Account commands",
	}

	cmd.AddCommand(newUserRegisterCmd())
	cmd.AddCommand(newUserLoginCmd())
	cmd.AddCommand(newUserLogoutCmd())
	cmd.AddCommand(newUserMeCmd())

	return cmd
}

func newUserRegisterCmd() *cobra.Command {
	var username, email, pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": username,
				"email":    email,
				"password": pass,
			}
			var result struct {
				Data string `json:"data"`
			}

			if err := client.Post(cmd.Context(), "/api/user/register", req, &result); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Registered user %s", result.Data))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newUserLoginCmd() *cobra.Command {
	var email, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"email":    email,
				"password": pass,
			}
			var result struct {
				Data LoginResult `json:"data"`
			}

			header, err := client.Do(cmd.Context(), http.MethodPost, "/api/user/login", req, &result)
			if err != nil {
				return err
			}

			token := result.Data.Token
			if token == "" {
				token = header.Get(tokenHeader)
			}
			if err := cfg.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			output(cmd).Print(result.Data)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newUserLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			output(cmd).PrintMessage("Logged out")
			return nil
		},
	}
}

func newUserMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Data User `json:"data"`
			}

			if err := client.Get(cmd.Context(), "/api/user/me", &result); err != nil {
				return err
			}

			output(cmd).Print(result.Data)
			return nil
		},
	}
}
