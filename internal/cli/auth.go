package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tutorlink/internal/validation"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	var form validation.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.ask("email", "Email", &form.Email); err != nil {
				return err
			}
			if err := rt.askSecret("password", "Password", &form.Password); err != nil {
				return err
			}
			user, err := rt.svc.Auth.Login(cmd.Context(), form)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			notify(cmd.OutOrStdout(), fmt.Sprintf("Signed in as %s (%s)", user.FullName, user.Role))
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on the server and forget it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := rt.svc.Auth.Current(); err != nil {
				return err
			}
			if err := rt.svc.Auth.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			notify(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := rt.svc.Auth.Current()
			if err != nil {
				return err
			}
			done, err := encode(cmd.OutOrStdout(), rt.output, user)
			if done || err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderIdentity(user))
			return nil
		},
	}
}

func newRegisterCmd(rt *runtime) *cobra.Command {
	var form validation.RegistrationForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a parent or tutor account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.choose("role", "Account type", []string{"parent", "tutor"}, &form.Role); err != nil {
				return err
			}
			if err := rt.ask("name", "Full name", &form.FullName); err != nil {
				return err
			}
			if err := rt.ask("email", "Email", &form.Email); err != nil {
				return err
			}
			if err := rt.askSecret("password", "Password (at least 6 characters)", &form.Password); err != nil {
				return err
			}
			form.Role = strings.ToLower(strings.TrimSpace(form.Role))
			if err := rt.svc.Auth.Register(cmd.Context(), form); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			notify(cmd.OutOrStdout(), "Account created, you can now run tutorctl login")
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Role, "role", "", "parent or tutor")
	cmd.Flags().StringVar(&form.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password (prompted when omitted)")
	return cmd
}
