package main

import (
	"context"
	"fmt"

	"github.com/legyenez/lgz/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin authenticates against the backend and persists the bearer token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	if email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}
	if password == "" {
		return fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}

	result := r.session.Login(ctx, email, password)
	if !result.OK {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, result.Message)
	}

	user := r.session.User()
	if user != nil && user.Name != "" {
		r.writePlainln("✓ Logged in as %s (%s)", user.Name, user.Email)
	} else {
		r.writePlainln("✓ Logged in as %s", email)
	}
	return nil
}

// AuthRegister creates an account and logs straight in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	name := cmd.String("name")
	if email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}
	if password == "" {
		return fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}

	result := r.session.Register(ctx, email, password, name)
	if !result.OK {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, result.Message)
	}

	r.writePlainln("✓ Account created, logged in as %s", email)
	return nil
}

// AuthLogout clears the stored token and local session state.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Logout()
	r.writePlainln("✓ Logged out")
	return nil
}

// AuthWhoami prints the authenticated account.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireAuth(ctx); err != nil {
		return err
	}

	user := r.session.User()
	if user == nil {
		return shared.ErrNotAuthenticated
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlainln("%s <%s>", user.Name, user.Email)
	r.writePlain("  ID: %s\n", user.ID)
	if user.CreatedAt != "" {
		r.writePlain("  Since: %s\n", user.CreatedAt)
	}
	return nil
}

// AuthForgotPassword requests a password reset email. The backend responds
// identically whether or not the account exists.
func (r *Runner) AuthForgotPassword(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	if email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}

	if err := r.session.Client().ForgotPassword(ctx, email); err != nil {
		return fmt.Errorf("failed to request password reset: %w", err)
	}

	r.writePlainln("If an account exists for %s, a reset link has been sent.", email)
	return nil
}

// AuthResetPassword completes a password reset with an emailed token.
func (r *Runner) AuthResetPassword(ctx context.Context, cmd *cli.Command) error {
	token := cmd.String("token")
	password := cmd.String("password")
	if token == "" {
		return fmt.Errorf("%w: token", shared.ErrMissingArgument)
	}
	if password == "" {
		return fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}

	if err := r.session.Client().ResetPassword(ctx, token, password); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	r.writePlainln("✓ Password updated. Log in with 'lgz auth login'.")
	return nil
}

// authCommand handles account authentication and the stored token
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with the backend",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and store the session token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session token",
				Action: r.AuthLogout,
			},
			{
				Name:  "whoami",
				Usage: "Show the authenticated account",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
				},
				Action: r.AuthWhoami,
			},
			{
				Name:  "forgot-password",
				Usage: "Request a password reset email",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
				},
				Action: r.AuthForgotPassword,
			},
			{
				Name:  "reset-password",
				Usage: "Set a new password with an emailed reset token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "token",
						Usage:    "Reset token from the email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "New password",
						Required: true,
					},
				},
				Action: r.AuthResetPassword,
			},
		},
	}
}
