// AngelaMos | 2026
// users.go

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/client"
)

func usersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (admin only)",
	}
	cmd.AddCommand(usersListCmd(a))
	return cmd
}

func usersListCmd(a *app) *cobra.Command {
	var (
		opts client.ListOptions
		role string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if role != "" {
				r, err := access.ParseRole(role)
				if err != nil {
					return err
				}
				opts.Role = r
			}

			users, meta, err := a.client.ListUsers(cmd.Context(), opts)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tCREATED")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					u.ID, u.FullName, u.Email, u.Role, u.CreatedAt.Format("2006-01-02"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if meta != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d total\n",
					meta.Page, meta.TotalPages, meta.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 20, "results per page")
	cmd.Flags().StringVar(&opts.Search, "search", "", "filter by name or email")
	cmd.Flags().StringVar(&role, "role", "", "filter by role: admin, manager, user")

	return cmd
}
