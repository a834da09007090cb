package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/session"
)

func LoginCmd(o *rootOptions) *cobra.Command {
	var req domain.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the canteen",
		Args:  cobra.NoArgs,
		RunE: o.runE(accessPublic, func(ctx context.Context, a *app, args []string) error {
			user, err := a.container.AuthService.Login(ctx, &req)
			if err != nil {
				return notice(err, "", "")
			}

			Notice(a.out, levelSuccess, "Login successful!")
			fmt.Fprintf(a.out, "Signed in as %s <%s> (%s)\n", user.Name, user.Email, user.Type)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func RegisterCmd(o *rootOptions) *cobra.Command {
	var req domain.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: o.runE(accessPublic, func(ctx context.Context, a *app, args []string) error {
			if req.PasswordConfirmation == "" {
				req.PasswordConfirmation = req.Password
			}

			user, err := a.container.AuthService.Register(ctx, &req)
			if errors.Is(err, domain.ErrPasswordMismatch) {
				return &cliError{msg: "Passwords do not match!", err: err}
			}
			if err != nil {
				return notice(err, "", "")
			}

			Notice(a.out, levelSuccess, "Registration successful!")
			fmt.Fprintf(a.out, "Signed in as %s <%s>\n", user.Name, user.Email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&req.PasswordConfirmation, "password-confirmation", "", "repeat the password (defaults to --password)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func LogoutCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: o.runE(accessShopper, func(ctx context.Context, a *app, args []string) error {
			// The local session is cleared even when this fails
			if err := a.container.AuthService.Logout(ctx); err != nil {
				return notice(err, "Logout failed: ", "")
			}
			Notice(a.out, levelSuccess, "Logged out successfully")
			return nil
		}),
	}
}

func WhoamiCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: o.runE(accessShopper, func(ctx context.Context, a *app, args []string) error {
			user, err := a.container.AuthService.Me(ctx)
			if err != nil {
				return notice(err, "", "")
			}

			snap := a.container.Session.Snapshot()
			fmt.Fprintf(a.out, "%s <%s>\n", user.Name, user.Email)
			fmt.Fprintf(a.out, "Role:    %s\n", snap.Role)
			if exp, ok := session.PeekExpiry(snap.AccessToken); ok {
				fmt.Fprintf(a.out, "Expires: %s\n", exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		}),
	}
}
