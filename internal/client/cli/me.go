package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func (c *Cli) newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Args:  cobra.NoArgs,
		Short: "Show current user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := c.session(cmd.Context())
			if err != nil {
				return err
			}

			user, err := c.api.Me(cmd.Context(), token)
			if err != nil {
				return wrapAPIError(err)
			}

			c.io.Printf("ID: %s\n", user.ID)
			c.io.Printf("Email: %s\n", user.Email)
			if user.FullName != "" {
				c.io.Printf("Full name: %s\n", user.FullName)
			}
			c.io.Printf("Active: %t\n", user.IsActive)
			c.io.Printf("Superuser: %t\n", user.IsSuperuser)
			c.io.Printf("Created: %s\n", user.CreatedAt.UTC().Format(time.RFC3339))

			return nil
		},
	}
}
