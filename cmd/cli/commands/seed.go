package commands

import (
	"fmt"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
	"github.com/Priyanshusingh0818/GORUS/pkg/database"

	"github.com/spf13/cobra"
)

var seedProductsCmd = &cobra.Command{
	Use:   "seed-products",
	Short: "Load the sample catalog into an empty products table",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := database.SeedProducts(db); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		var count int64
		if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog has %d products\n", count)
		return nil
	},
}
