package cmd

import (
	"context"
	"fmt"

	"tienda/domain/product"
	"tienda/domain/shared"
)

// seedDemoCatalog a few products so the memory backend can be exercised by hand
func seedDemoCatalog(ctx context.Context, products product.Repository, currency string) error {
	demo := []product.PostOptions{
		{ID: 1, Title: "Wool poncho", Description: "Hand woven", Price: shared.NewMoney(45000, currency), Discount: 10, Stock: 20, Available: true,
			Images: []product.Image{{URL: "https://cdn.tienda.local/images/poncho.png", Position: 0}}},
		{ID: 2, Title: "Clay mug", Description: "Glazed, 350ml", Price: shared.NewMoney(8990, currency), Stock: 50, Available: true},
		{ID: 3, Title: "Copper bracelet", Price: shared.NewMoney(15500, currency), Discount: 25, Stock: 3, Available: true},
	}
	for _, opts := range demo {
		p, err := product.NewProduct(opts)
		if err != nil {
			return fmt.Errorf("demo product %d: %w", opts.ID, err)
		}
		if err := products.Save(ctx, p); err != nil {
			return fmt.Errorf("demo product %d: %w", opts.ID, err)
		}
	}
	return nil
}
