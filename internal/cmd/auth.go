package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shopfront/internal/app"
	"github.com/felixgeelhaar/shopfront/internal/session"
	"github.com/felixgeelhaar/shopfront/internal/ux"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your storefront session",
	Long: `Sign up, sign in and out, and inspect the current session.

The session token is kept in the configured storage (the state file by
default) and sent as a bearer token on every authenticated request.

Examples:
  shopfront auth register --name Ana --email ana@example.com
  shopfront auth login --email ana@example.com
  echo "$PASSWORD" | shopfront auth login --email ana@example.com --password-stdin
  shopfront auth whoami
  shopfront auth status
  shopfront auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE:  runAuthRegister,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the session token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runAuthWhoami,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored session without contacting the backend",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var (
	authName          string
	authEmail         string
	authPassword      string
	authPasswordStdin bool
)

func init() {
	for _, c := range []*cobra.Command{authRegisterCmd, authLoginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "account email")
		c.Flags().StringVar(&authPassword, "password", "", "account password (prompted when omitted)")
		c.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "read the password from stdin")
	}
	authRegisterCmd.Flags().StringVar(&authName, "name", "", "display name")

	authCmd.AddCommand(authRegisterCmd, authLoginCmd, authLogoutCmd, authWhoamiCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

// collectCredentials completes creds from stdin or prompts and validates them.
func collectCredentials(cmd *cobra.Command, creds *ux.Credentials, register bool) error {
	if authPasswordStdin {
		password, err := readPassword(cmd.InOrStdin())
		if err != nil {
			return err
		}
		creds.Password = password
	}

	if ux.ValidateCredentials(*creds, register) != nil && ux.Interactive() {
		var err error
		if register {
			err = ux.PromptRegister(creds)
		} else {
			err = ux.PromptLogin(creds)
		}
		if err != nil {
			return err
		}
	}

	if err := ux.ValidateCredentials(*creds, register); err != nil {
		return MissingCredentialsError(cmd.Name(), err)
	}
	return nil
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// signedIn loads the profile after a successful sign-in and prints it. A
// failed profile load does not undo the sign-in.
func signedIn(ctx context.Context, cc *CommandContext, a *app.App) error {
	if _, err := a.Bootstrap.Sync(ctx); err != nil {
		a.Logger.WithError(err).Warn("signed in but the profile could not be loaded")
	}
	return cc.print(ux.SessionView{Auth: a.Store.State().Auth, Styles: cc.Styles})
}

func runAuthRegister(cmd *cobra.Command, args []string) error {
	creds := ux.Credentials{Name: authName, Email: authEmail, Password: authPassword}
	if err := collectCredentials(cmd, &creds, true); err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		if err := a.Store.Register(ctx, creds.Name, creds.Email, creds.Password); err != nil {
			return err
		}
		return signedIn(ctx, cc, a)
	})
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	creds := ux.Credentials{Email: authEmail, Password: authPassword}
	if err := collectCredentials(cmd, &creds, false); err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		if err := a.Store.Login(ctx, creds.Email, creds.Password); err != nil {
			return err
		}
		return signedIn(ctx, cc, a)
	})
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		a.Store.Logout(ctx)
		return cc.print(ux.SessionView{Auth: a.Store.State().Auth, Styles: cc.Styles})
	})
}

func runAuthWhoami(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		if err := a.Store.GetCurrentUser(ctx); err != nil {
			return err
		}
		return cc.print(ux.SessionView{Auth: a.Store.State().Auth, Styles: cc.Styles})
	})
}

// authStatus is the offline view of the stored session.
type authStatus struct {
	Authenticated bool               `json:"authenticated" yaml:"authenticated"`
	Storage       string             `json:"storage" yaml:"storage"`
	Token         *session.TokenInfo `json:"token,omitempty" yaml:"token,omitempty"`
	Expired       bool               `json:"expired" yaml:"expired"`
	styles        ux.Styles
}

func (s authStatus) Data() any { return s }

func (s authStatus) String() string {
	if !s.Authenticated {
		return s.styles.Muted.Render("No has iniciado sesión") + "\n" +
			s.styles.Muted.Render("storage: "+s.Storage)
	}

	var b strings.Builder
	if s.Expired {
		b.WriteString(s.styles.Warning.Render("Sesión caducada"))
	} else {
		b.WriteString(s.styles.Success.Render("Sesión iniciada"))
	}
	b.WriteString("\n")
	if t := s.Token; t != nil {
		if t.Email != "" {
			b.WriteString("email:   " + t.Email + "\n")
		}
		if t.Role != "" {
			b.WriteString("role:    " + t.Role + "\n")
		}
		if !t.ExpiresAt.IsZero() {
			b.WriteString("expires: " + t.ExpiresAt.Local().Format(time.RFC1123) + "\n")
		}
	}
	b.WriteString(s.styles.Muted.Render("storage: " + s.Storage))
	return b.String()
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		if err := a.Tokens.Err(); err != nil {
			return err
		}
		status := authStatus{Storage: cc.Config.Storage.Driver, styles: cc.Styles}
		token := a.Tokens.Token(ctx)
		if token == "" {
			return cc.print(status)
		}
		status.Authenticated = true
		if info, err := session.Inspect(token); err == nil {
			status.Token = &info
			status.Expired = info.Expired(time.Now())
		} else {
			a.Logger.WithError(err).Debug("stored token carries no readable claims")
		}
		return cc.print(status)
	})
}
