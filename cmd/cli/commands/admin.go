package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Priyanshusingh0818/GORUS/internal/service"
	"github.com/Priyanshusingh0818/GORUS/internal/store"
	"github.com/Priyanshusingh0818/GORUS/internal/utils"
	"github.com/Priyanshusingh0818/GORUS/pkg/database"

	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

var addAdminCmd = &cobra.Command{
	Use:   "add-admin",
	Short: "Create an admin account",
	Long:  "Create an admin account with a bcrypt-hashed password. An existing account with the same email is left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(adminPassword) < 6 {
			return errors.New("password must be at least 6 characters")
		}
		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		user, created, err := database.EnsureAdmin(db, adminEmail, adminPassword, adminName)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "User %s already exists (id %d); use promote to grant admin rights\n", user.Email, user.ID)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Admin user %s created (id %d)\n", user.Email, user.ID)
		return nil
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Grant admin rights to an existing account",
	Long:  "Grant admin rights to an existing account. The user must log in again for the new rights to reach their token.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		auth := service.NewAuthService(store.New(db), utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiresIn), slog.Default())
		if err := auth.Promote(cmd.Context(), adminEmail); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", adminEmail)
		return nil
	},
}

func init() {
	addAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (required)")
	addAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password, at least 6 characters (required)")
	addAdminCmd.Flags().StringVar(&adminName, "name", "Admin", "Display name")
	addAdminCmd.MarkFlagRequired("email")
	addAdminCmd.MarkFlagRequired("password")

	promoteCmd.Flags().StringVar(&adminEmail, "email", "", "Email of the account to promote (required)")
	promoteCmd.MarkFlagRequired("email")
}
