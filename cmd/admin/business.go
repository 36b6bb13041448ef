package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"bizledger/internal/domain/business"
	"bizledger/internal/infrastructure/postgres"
	"bizledger/internal/shared/logger"
)

var businessCmd = &cobra.Command{
	Use:   "business",
	Short: "Manage business profiles",
}

var businessCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a business profile for a user",
	Long: `Creates the business profile owned by a user. Every API route except
POST /api/business needs the caller to own one. Fails if the user already
has a profile.`,
	Example: `  admin business create --user-id=<id> --name="Ada Stores" --whatsapp=+2348000000000`,
	RunE: runBusinessCreate,
}

func init() {
	rootCmd.AddCommand(businessCmd)
	businessCmd.AddCommand(businessCreateCmd)

	businessCreateCmd.Flags().String("user-id", "", "Owner's user ID, the JWT subject (required)")
	businessCreateCmd.Flags().String("name", "", "Business name (required)")
	businessCreateCmd.Flags().String("email", "", "Business email")
	businessCreateCmd.Flags().String("phone", "", "Business phone")
	businessCreateCmd.Flags().String("whatsapp", "", "WhatsApp number used on outgoing messages")
	_ = businessCreateCmd.MarkFlagRequired("user-id")
	_ = businessCreateCmd.MarkFlagRequired("name")
}

func runBusinessCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("business")

	params := business.CreateParams{}
	params.UserID, _ = cmd.Flags().GetString("user-id")
	params.BusinessName, _ = cmd.Flags().GetString("name")
	params.BusinessEmail, _ = cmd.Flags().GetString("email")
	params.Phone, _ = cmd.Flags().GetString("phone")
	params.WhatsAppNumber, _ = cmd.Flags().GetString("whatsapp")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := business.NewService(postgres.NewBusinessRepository(db)).Create(ctx, params)
	if err != nil {
		return err
	}
	log.Info().Str("business_id", p.ID).Str("user_id", p.UserID).Msg("Business profile created")

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
