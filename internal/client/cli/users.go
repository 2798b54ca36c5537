package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *Cli) newUsersCmd() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "users",
		Args:  cobra.NoArgs,
		Short: "List users (superuser only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := c.session(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := c.api.ListUsers(cmd.Context(), token, skip, limit)
			if err != nil {
				return wrapAPIError(err)
			}

			w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tEMAIL\tFULL NAME\tACTIVE\tSUPERUSER")
			for _, u := range resp.Data {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\n", u.ID, u.Email, u.FullName, u.IsActive, u.IsSuperuser)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			c.io.Printf("\nShown %d of %d\n", len(resp.Data), resp.Count)

			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Number of users to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of users to return")

	return cmd
}
