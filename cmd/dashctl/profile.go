// AngelaMos | 2026
// profile.go

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/user"
)

func profileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your profile",
	}
	cmd.AddCommand(profileShowCmd(a), profileUpdateCmd(a))
	return cmd
}

func profileShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Fetch your profile from the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := a.client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}
}

func profileUpdateCmd(a *app) *cobra.Command {
	var (
		fields         [7]string
		image          string
		passwordPrompt bool
	)
	names := [7]string{"first-name", "last-name", "email", "phone", "address", "city", "postal-code"}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields; only flags you pass are sent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var req user.UpdateProfileRequest
			targets := [7]**string{
				&req.FirstName, &req.LastName, &req.Email, &req.Phone,
				&req.Address, &req.City, &req.PostalCode,
			}

			changed := false
			for i, name := range names {
				if cmd.Flags().Changed(name) {
					*targets[i] = &fields[i]
					changed = true
				}
			}

			if passwordPrompt {
				pw, err := promptPassword(cmd.OutOrStdout(), "New password")
				if err != nil {
					return err
				}
				req.Password = &pw
				changed = true
			}

			var profile *user.ProfileResponse
			if changed {
				p, err := a.client.UpdateProfile(ctx, req)
				if err != nil {
					return err
				}
				profile = p
			}

			if cmd.Flags().Changed("image") {
				p, err := a.client.UpdateProfileImage(ctx, image)
				if err != nil {
					return err
				}
				profile = p
			}

			if profile == nil {
				return fmt.Errorf("nothing to update")
			}
			printProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}

	for i, name := range names {
		cmd.Flags().StringVar(&fields[i], name, "", "new "+name)
	}
	cmd.Flags().StringVar(&image, "image", "", "profile image reference")
	cmd.Flags().BoolVar(&passwordPrompt, "password", false, "prompt for a new password")

	return cmd
}

func printProfile(w io.Writer, p *user.ProfileResponse) {
	image := "-"
	if p.ProfileImage != nil {
		image = *p.ProfileImage
	}
	fmt.Fprintf(w, "id:       %s\nname:     %s\nemail:    %s\nphone:    %s\n", p.ID, p.FullName, p.Email, p.Phone)
	fmt.Fprintf(w, "address:  %s, %s %s\nrole:     %s (%d)\nimage:    %s\n",
		p.Address, p.City, p.PostalCode, p.Role, p.AccessLevel, image)
}
