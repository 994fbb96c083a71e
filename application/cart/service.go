// Package cart application service for the buyer cart collaborator of checkout
package cart

import (
	"context"
	"errors"

	"tienda/domain/cart"
	"tienda/domain/product"
	"tienda/domain/shared"
	"tienda/pkg/logger"

	"go.uber.org/zap"
)

// Service cart application service. Totals are recomputed from the current
// product prices on every mutation.
type Service struct {
	carts      cart.Repository
	products   product.Repository
	uowFactory shared.UnitOfWorkFactory
	currency   string
}

func NewService(carts cart.Repository, products product.Repository, uowFactory shared.UnitOfWorkFactory, currency string) *Service {
	return &Service{
		carts:      carts,
		products:   products,
		uowFactory: uowFactory,
		currency:   currency,
	}
}

// AddItem adds quantity of productID, creating the cart on first use.
// The merged line quantity must fit in the current stock.
func (s *Service) AddItem(ctx context.Context, owner cart.Owner, productID int64, quantity int) (*CartResponse, error) {
	var resp *CartResponse

	err := s.uowFactory.New().Execute(ctx, func(ctx context.Context) error {
		p, err := s.purchasable(ctx, productID)
		if err != nil {
			return err
		}

		c, err := s.carts.FindByOwner(ctx, owner)
		if errors.Is(err, cart.ErrCartNotFound) {
			c, err = cart.NewCart(owner, s.currency)
		}
		if err != nil {
			return err
		}

		if err := c.AddItem(productID, quantity); err != nil {
			return err
		}
		if err := checkStock(p, lineQuantity(c, productID)); err != nil {
			return err
		}

		resp, err = s.recalculateAndSave(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("Cart item added",
		zap.String("owner", owner.String()),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return resp, nil
}

// ChangeQuantity sets the quantity of an existing line
func (s *Service) ChangeQuantity(ctx context.Context, owner cart.Owner, productID int64, quantity int) (*CartResponse, error) {
	var resp *CartResponse

	err := s.uowFactory.New().Execute(ctx, func(ctx context.Context) error {
		c, err := s.carts.FindByOwner(ctx, owner)
		if err != nil {
			return err
		}
		if err := c.ChangeQuantity(productID, quantity); err != nil {
			return err
		}

		p, err := s.purchasable(ctx, productID)
		if err != nil {
			return err
		}
		if err := checkStock(p, quantity); err != nil {
			return err
		}

		resp, err = s.recalculateAndSave(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RemoveItem drops the line of productID
func (s *Service) RemoveItem(ctx context.Context, owner cart.Owner, productID int64) (*CartResponse, error) {
	var resp *CartResponse

	err := s.uowFactory.New().Execute(ctx, func(ctx context.Context) error {
		c, err := s.carts.FindByOwner(ctx, owner)
		if err != nil {
			return err
		}
		if err := c.RemoveItem(productID); err != nil {
			return err
		}
		resp, err = s.recalculateAndSave(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetCart cart priced with the current catalog; nothing is written
func (s *Service) GetCart(ctx context.Context, owner cart.Owner) (*CartResponse, error) {
	c, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	if err := c.Recalculate(products); err != nil {
		return nil, err
	}
	return toCartResponse(c, products), nil
}

func (s *Service) purchasable(ctx context.Context, productID int64) (*product.Product, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsPurchasable() {
		return nil, product.NewProductUnavailableError(productID)
	}
	return p, nil
}

func (s *Service) recalculateAndSave(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	products, err := s.products.FindByIDsForUpdate(ctx, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	if err := c.Recalculate(products); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCartResponse(c, products), nil
}

func checkStock(p *product.Product, quantity int) error {
	if !p.HasStock(quantity) {
		return product.NewInsufficientStockError(p.ID(), p.Title(), quantity, p.Stock())
	}
	return nil
}

func lineQuantity(c *cart.Cart, productID int64) int {
	for _, item := range c.Items() {
		if item.ProductID() == productID {
			return item.Quantity()
		}
	}
	return 0
}

func toCartResponse(c *cart.Cart, products map[int64]*product.Product) *CartResponse {
	items := make([]CartItemResponse, len(c.Items()))
	for i, item := range c.Items() {
		line := CartItemResponse{ProductID: item.ProductID(), Quantity: item.Quantity()}
		if p, ok := products[item.ProductID()]; ok {
			line.Title = p.Title()
			line.UnitPrice = p.Price().Amount()
			line.PriceAtMoment = p.PriceAtMoment().Amount()
			line.Discount = p.Discount()
			line.LineTotal = p.PriceAtMoment().Amount() * int64(item.Quantity())
			line.InStock = p.HasStock(item.Quantity())
		} else {
			line.Missing = true
		}
		items[i] = line
	}
	return &CartResponse{
		ID:       c.ID(),
		Items:    items,
		SubTotal: c.SubTotal().Amount(),
		Total:    c.Total().Amount(),
		Currency: c.Total().Currency(),
	}
}
