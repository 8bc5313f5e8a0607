// AngelaMos | 2026
// auth.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/user"
)

func registerCmd(a *app) *cobra.Command {
	var (
		req         user.RegisterRequest
		accessLevel int
		admin       bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				pw, err := promptPassword(cmd.OutOrStdout(), "Password")
				if err != nil {
					return err
				}
				req.Password = pw
			}
			if cmd.Flags().Changed("access-level") {
				req.AccessLevel = &accessLevel
			}
			if cmd.Flags().Changed("admin") {
				req.IsAdmin = &admin
			}

			profile, err := a.client.Register(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered %s <%s> as %s\n",
				profile.FullName, profile.Email, profile.Role)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.FirstName, "first-name", "", "given name")
	f.StringVar(&req.LastName, "last-name", "", "family name")
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&req.Phone, "phone", "", "phone number")
	f.StringVar(&req.Address, "address", "", "street address")
	f.StringVar(&req.City, "city", "", "city")
	f.StringVar(&req.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	f.IntVar(&accessLevel, "access-level", 30, "10 admin, 20 manager, 30 user")
	f.BoolVar(&admin, "admin", false, "request the admin role")

	for _, name := range []string{"first-name", "last-name", "email", "phone", "address", "city", "postal-code"} {
		_ = cmd.MarkFlagRequired(name) //nolint:errcheck // flag names are static
	}

	return cmd
}

func loginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				pw, err := promptPassword(cmd.OutOrStdout(), "Password")
				if err != nil {
					return err
				}
				password = pw
			}

			resp, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s), session expires %s\n",
				resp.User.FullName, resp.User.Role, resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email") //nolint:errcheck // flag name is static

	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the cached session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the cached session without contacting the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache := a.client.Session()
			out := cmd.OutOrStdout()

			if !cache.IsAuthenticated() {
				fmt.Fprintln(out, "not logged in")
				return nil
			}

			st := cache.Snapshot()
			fmt.Fprintf(out, "%s <%s>\nrole: %s\nadmin: %t\nexpires: %s\n",
				st.User.FullName, st.User.Email, st.User.Role(), cache.IsAdmin(),
				st.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}
