package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fintrack/fintrack/cmd/cli/client"
	"github.com/fintrack/fintrack/cmd/cli/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// InitAuth registers signup, login, logout and whoami on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd(), whoamiCmd())
}

func signupCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a fintrack account",
		Long:  "Register a new account. The password is prompted for and never echoed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" {
				return errors.New("--username and --email are required")
			}
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}

			var resp struct {
				Message string `json:"message"`
			}
			payload := map[string]string{"username": username, "email": email, "password": password}
			if err := client.New().Do(cmd.Context(), http.MethodPost, "/api/auth/signup", payload, &resp); err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Message+". Run `fintrack login` to start a session.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address used to log in")
	return cmd
}

// loginCmd logs in and stores the JWT token locally.
func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the fintrack API",
		Long:  "Authenticate with the fintrack API and store a JWT token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}

			var resp struct {
				Token string `json:"token"`
				User  struct {
					Username string `json:"username"`
				} `json:"user"`
			}
			payload := map[string]string{"email": email, "password": password}
			if err := client.New().Do(cmd.Context(), http.MethodPost, "/api/auth/login", payload, &resp); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if resp.Token == "" {
				return errors.New("login succeeded but no token returned")
			}

			if err := config.SaveToken(resp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s. Token stored in %s.\n", resp.User.Username, config.TokenPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := config.RemoveToken()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}

			var resp struct {
				User struct {
					ID       string `json:"id"`
					Username string `json:"username"`
				} `json:"user"`
			}
			if err := c.Do(cmd.Context(), http.MethodGet, "/api/auth/user", nil, &resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", resp.User.Username, resp.User.ID)
			return nil
		},
	}
}

// readPassword prompts without echo on a terminal; otherwise it reads one
// line from the command's input so passwords can be piped in.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}
