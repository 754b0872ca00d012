package main

import (
	"context"

	"plantshop/internal/database"
	"plantshop/internal/models"
	"plantshop/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample plant catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := database.Open(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(context.Background()); err != nil {
					c.logger.Warn("failed to close store", zap.Error(err))
				}
			}()

			publisher, closePublisher, err := c.publisher()
			if err != nil {
				return err
			}
			defer closePublisher()

			n := seedProducts(ctx, services.NewProductService(store.Products, publisher, c.logger), c.logger)
			c.logger.Info("seed finished", zap.Int("created", n), zap.Int("total", len(samplePlants())))
			return nil
		},
	}
}

func price(v float64) *float64 { return &v }

func stock(v int) *int { return &v }

func samplePlants() []models.ProductInput {
	return []models.ProductInput{
		{
			Name:        "Monstera Deliciosa",
			Price:       price(45),
			Categories:  []string{"Indoor", "Tropical", "Air Purifying"},
			Stock:       stock(12),
			ImageURL:    "https://images.plantshop.dev/monstera.jpg",
			Description: "Split-leaf philodendron with large glossy fenestrated leaves.",
			CareTips:    "Bright indirect light. Water when the top inch of soil is dry.",
			Featured:    true,
		},
		{
			Name:        "Aloe Vera",
			Price:       price(12.5),
			Categories:  []string{"Succulent", "Low Maintenance"},
			Stock:       stock(30),
			ImageURL:    "https://images.plantshop.dev/aloe.jpg",
			Description: "Medicinal succulent with thick serrated leaves.",
			CareTips:    "Full sun. Let soil dry completely between waterings.",
		},
		{
			Name:        "Snake Plant",
			Price:       price(25),
			Categories:  []string{"Low Maintenance", "Air Purifying"},
			Stock:       stock(20),
			ImageURL:    "https://images.plantshop.dev/snake-plant.jpg",
			Description: "Upright sword-shaped leaves that tolerate neglect.",
			CareTips:    "Low to bright light. Water every two to three weeks.",
			Featured:    true,
		},
		{
			Name:        "Golden Barrel Cactus",
			Price:       price(18),
			Categories:  []string{"Cacti", "Succulent"},
			Stock:       stock(0),
			ImageURL:    "https://images.plantshop.dev/barrel-cactus.jpg",
			Description: "Round ribbed cactus covered in golden spines.",
			CareTips:    "Direct sun. Water sparingly in winter.",
		},
		{
			Name:        "Boston Fern",
			Price:       price(22),
			Categories:  []string{"Indoor", "Home Decor"},
			Stock:       stock(8),
			ImageURL:    "https://images.plantshop.dev/boston-fern.jpg",
			Description: "Lush arching fronds that love humidity.",
			CareTips:    "Indirect light. Keep soil evenly moist.",
		},
		{
			Name:        "Sweet Basil",
			Price:       price(6),
			Categories:  []string{"Herbs", "Outdoor"},
			Stock:       stock(40),
			ImageURL:    "https://images.plantshop.dev/basil.jpg",
			Description: "Fragrant culinary herb for sunny windowsills.",
			CareTips:    "Six hours of sun. Pinch flowers to keep leaves coming.",
		},
	}
}

// seedProducts creates every sample plant through the service and returns how
// many were stored. Failures are logged and skipped.
func seedProducts(ctx context.Context, service *services.ProductService, logger *zap.Logger) int {
	created := 0
	for _, in := range samplePlants() {
		p, err := service.CreateProduct(ctx, in)
		if err != nil {
			logger.Error("error seeding product", zap.String("name", in.Name), zap.Error(err))
			continue
		}
		created++
		logger.Info("seeded product", zap.String("name", p.Name), zap.String("id", p.ID))
	}
	return created
}
