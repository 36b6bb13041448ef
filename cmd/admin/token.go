package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bizledger/internal/shared/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for a user",
	Long: `Signs an access token with JWT_SECRET. Useful for local testing and
for service accounts calling the API.`,
	Example: `  admin token --user-id=<id> --email=owner@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user-id")
		email, _ := cmd.Flags().GetString("email")

		token, err := auth.NewJWT(cfg.JWT.Secret).Generate(userID, email)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().String("user-id", "", "User ID the token is issued for (required)")
	tokenCmd.Flags().String("email", "", "Email claim")
	_ = tokenCmd.MarkFlagRequired("user-id")
}
