package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	productModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/product"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a small product catalog for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM products").Error; err != nil {
				log.Fatalf("failed to clear products: %v", err)
			}
			fmt.Println("Cleared existing products")
		}

		products := []productModel.Product{
			{Name: "Saigon Export", Category: "beer", Description: "Pale lager, 330ml bottle", PriceVND: 18000, StockQty: 240, VolumeML: 330, ABV: 4.9, IsActive: true},
			{Name: "Hanoi Lager", Category: "beer", Description: "Light lager, 450ml bottle", PriceVND: 25000, StockQty: 180, VolumeML: 450, ABV: 4.6, IsActive: true},
			{Name: "Dalat Red", Category: "wine", Description: "Domestic red wine", PriceVND: 180000, StockQty: 36, VolumeML: 750, ABV: 12.0, IsActive: true},
			{Name: "Nep Moi", Category: "spirits", Description: "Sticky rice liquor", PriceVND: 95000, StockQty: 48, VolumeML: 500, ABV: 29.5, IsActive: true},
			{Name: "Glenfiddich 12", Category: "spirits", Description: "Single malt Scotch whisky", PriceVND: 1200000, StockQty: 12, VolumeML: 700, ABV: 40.0, IsActive: true},
			{Name: "Chapel Hill Shiraz", Category: "wine", Description: "Australian Shiraz", PriceVND: 420000, StockQty: 24, VolumeML: 750, ABV: 14.0, IsActive: true},
		}

		for _, p := range products {
			var count int64
			db.Model(&productModel.Product{}).Where("name = ?", p.Name).Count(&count)
			if count > 0 {
				fmt.Printf("product %q already exists, skipping\n", p.Name)
				continue
			}
			if err := db.Create(&p).Error; err != nil {
				log.Fatalf("failed to seed product %q: %v", p.Name, err)
			}
			fmt.Printf("Seeded product: %s (%d VND)\n", p.Name, p.PriceVND)
		}

		fmt.Println("Seeding complete")
	},
}
