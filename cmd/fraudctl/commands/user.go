package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
	"github.com/d0ughnat/Fruad-detection/internal/identity"
)

func newUserCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Args:  cobra.NoArgs,
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCommand(open), newUserDeactivateCommand(open))
	return cmd
}

func newUserCreateCommand(open Opener) *cobra.Command {
	var name, email, password, role string
	cmd := &cobra.Command{
		Use:   "create",
		Args:  cobra.NoArgs,
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if utf8.RuneCountInString(password) < auth.MinPasswordLength {
				return auth.ErrPasswordTooShort
			}
			r := identity.Role(strings.ToUpper(role))
			if !r.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			return withRuntime(cmd, open, func(ctx context.Context, rt *Runtime) error {
				u, err := rt.Users.Register(ctx, identity.NewUser{Name: name, Email: email, Password: password, Role: r})
				if errors.Is(err, identity.ErrEmailExists) {
					return auth.ErrEmailTaken
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s, %s)\n", u.ID, u.Email, u.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", string(identity.RoleUser), "USER or ADMIN")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserDeactivateCommand(open Opener) *cobra.Command {
	var email string
	var activate bool
	cmd := &cobra.Command{
		Use:   "deactivate",
		Args:  cobra.NoArgs,
		Short: "Disable a user account; existing sessions stop validating",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, open, func(ctx context.Context, rt *Runtime) error {
				u, err := rt.Users.FindByEmail(ctx, email)
				if err != nil {
					return fmt.Errorf("find %s: %w", email, err)
				}
				if err := rt.Users.SetActive(ctx, u.ID, activate); err != nil {
					return err
				}
				state := "deactivated"
				if activate {
					state = "reactivated"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s user %d (%s)\n", state, u.ID, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().BoolVar(&activate, "undo", false, "reactivate instead")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
