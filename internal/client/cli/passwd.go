package cli

import (
	"github.com/spf13/cobra"

	pkgapi "github.com/iudanet/userkeeper/pkg/api"
)

func (c *Cli) newPasswdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Args:  cobra.NoArgs,
		Short: "Change password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPasswd(cmd)
		},
	}
}

func (c *Cli) runPasswd(cmd *cobra.Command) error {
	token, err := c.session(cmd.Context())
	if err != nil {
		return err
	}

	c.io.Println("=== Change Password ===")
	c.io.Println()

	current, err := c.readPassword("Current password: ")
	if err != nil {
		return err
	}

	newPassword, err := c.readNewPassword("New password: ")
	if err != nil {
		return err
	}

	resp, err := c.api.UpdatePassword(cmd.Context(), token, pkgapi.UpdatePasswordRequest{
		CurrentPassword: current,
		NewPassword:     newPassword,
	})
	if err != nil {
		return wrapAPIError(err)
	}

	c.io.Println()
	c.io.Printf("✓ %s\n", resp.Message)

	return nil
}
