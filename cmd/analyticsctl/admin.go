package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"sitecms/api/database"
	"sitecms/api/models"
	"sitecms/api/store"
)

func newAdminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage dashboard accounts",
	}

	var email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create the first (or another) admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || !models.ValidPassword(password) {
				return errors.New("--email and a --password of 8 to 72 characters are required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			pg, err := database.NewPostgresDB(ctx, cfg.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()

			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			a, err := store.NewAdminStore(pg.DB).CreateAdmin(ctx, models.NormalizeEmail(email), hashed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %d (%s)\n", a.ID, a.Email)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "admin email")
	create.Flags().StringVar(&password, "password", "", "admin password")

	admin.AddCommand(create)
	return admin
}
