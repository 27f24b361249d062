package services

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type QuoteItem struct {
	ProductID uint            `json:"product_id"`
	NameEn    string          `json:"name_en"`
	NameAr    string          `json:"name_ar"`
	SKU       string          `json:"sku"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Stock     int             `json:"stock"`
	Available bool            `json:"available"`
}

type PromoSummary struct {
	Code    string            `json:"code"`
	Type    pricing.PromoType `json:"type,omitempty"`
	Value   decimal.Decimal   `json:"value"`
	Applied bool              `json:"applied"`
	Reason  string            `json:"reason,omitempty"`
}

// CartQuote is a priced, non-persisted view of a cart.
type CartQuote struct {
	Items     []QuoteItem             `json:"items"`
	Subtotal  decimal.Decimal         `json:"subtotal"`
	Discount  decimal.Decimal         `json:"discount"`
	Promo     *PromoSummary           `json:"promo,omitempty"`
	ItemCount int                     `json:"item_count"`
	Delivery  pricing.DeliveryOptions `json:"delivery"`
}

type CartService struct {
	store    models.Store
	settings models.DeliverySettingsProvider
	opts     options
}

func NewCartService(store models.Store, settings models.DeliverySettingsProvider, opts ...Option) *CartService {
	return &CartService{store: store, settings: settings, opts: buildOptions(opts)}
}

// Quote prices the user's cart with live product prices. It never writes,
// and a stale promo code stays on the cart but contributes no discount.
func (s *CartService) Quote(ctx context.Context, userID string) (*CartQuote, error) {
	cart, err := s.store.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.store.Products().FindMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	quote := &CartQuote{Items: make([]QuoteItem, 0, len(cart.Items))}
	for _, it := range cart.Items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		line := pricing.LineTotal(p.Price, it.Quantity)
		quote.Items = append(quote.Items, QuoteItem{
			ProductID: p.ID,
			NameEn:    p.NameEn,
			NameAr:    p.NameAr,
			SKU:       p.SKU,
			Image:     p.Image,
			Price:     p.Price,
			Quantity:  it.Quantity,
			LineTotal: line,
			Stock:     p.Stock,
			Available: p.IsActive && p.Stock >= it.Quantity,
		})
		// Checkout refuses inactive products, so they do not count toward the
		// subtotal, the promo or the delivery tier.
		if !p.IsActive {
			continue
		}
		quote.Subtotal = quote.Subtotal.Add(line)
		quote.ItemCount += it.Quantity
	}

	if cart.PromoCode != nil {
		summary, discount, err := s.quotePromo(ctx, *cart.PromoCode, quote.Subtotal)
		if err != nil {
			return nil, err
		}
		quote.Promo = summary
		quote.Discount = discount
	}

	settings, err := s.settings.DeliverySettings(ctx)
	if err != nil {
		return nil, err
	}
	quote.Delivery = pricing.QuoteDelivery(quote.Subtotal, quote.ItemCount, settings)
	return quote, nil
}

func (s *CartService) quotePromo(ctx context.Context, code string, subtotal decimal.Decimal) (*PromoSummary, decimal.Decimal, error) {
	summary := &PromoSummary{Code: code}

	promo, err := s.store.Promos().FindByCode(ctx, code)
	if errors.Is(err, models.ErrRecordNotFound) {
		summary.Reason = "promo code is no longer valid"
		return summary, decimal.Zero, nil
	}
	if err != nil {
		return nil, decimal.Zero, err
	}

	summary.Type = promo.Type
	summary.Value = promo.Value
	if !promo.IsValid(s.opts.now()) {
		summary.Reason = "promo code is no longer valid"
		return summary, decimal.Zero, nil
	}

	discount := pricing.ClampDiscount(pricing.Discount(subtotal, promo.Rule()), subtotal)
	if discount.IsZero() && promo.MinOrderAmount.Valid && subtotal.LessThan(promo.MinOrderAmount.Decimal) {
		summary.Reason = "minimum order of " + promo.MinOrderAmount.Decimal.StringFixed(2) + " not reached"
		return summary, discount, nil
	}
	summary.Applied = discount.IsPositive()
	return summary, discount, nil
}

// AddItem adds quantity of a product, merging into an existing line.
func (s *CartService) AddItem(ctx context.Context, userID string, productID uint, quantity int) error {
	if quantity < 1 {
		return InvalidArgument("quantity must be at least 1")
	}

	product, err := s.activeProduct(ctx, productID)
	if err != nil {
		return err
	}

	cart, err := s.store.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	item := cart.Item(productID)
	if item == nil {
		item = &models.CartItem{CartID: cart.ID, ProductID: productID}
	}
	if product.Stock < item.Quantity+quantity {
		return InsufficientStock(product.DisplayName(), product.Stock)
	}

	item.Quantity += quantity
	item.AddedAt = s.opts.now()
	return s.store.Carts().SaveItem(ctx, item)
}

// UpdateItem sets the quantity of an existing line.
func (s *CartService) UpdateItem(ctx context.Context, userID string, productID uint, quantity int) error {
	if quantity < 1 {
		return InvalidArgument("quantity must be at least 1")
	}

	cart, err := s.store.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	item := cart.Item(productID)
	if item == nil {
		return NotFound("cart item not found")
	}

	product, err := s.store.Products().Find(ctx, productID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return NotFound("product not found")
	}
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return InsufficientStock(product.DisplayName(), product.Stock)
	}

	item.Quantity = quantity
	return s.store.Carts().SaveItem(ctx, item)
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, productID uint) error {
	cart, err := s.store.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.store.Carts().DeleteItem(ctx, cart.ID, productID)
}

// ClearCart removes every line and the promo code.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.store.Transaction(ctx, func(tx models.Store) error {
		cart, err := tx.Carts().GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Carts().ClearItems(ctx, cart.ID); err != nil {
			return err
		}
		return tx.Carts().SetPromoCode(ctx, cart.ID, nil)
	})
}

// ApplyPromo stores a valid code on the cart. Usage is only consumed when an
// order is placed, so applying and removing is free before checkout.
func (s *CartService) ApplyPromo(ctx context.Context, userID, code string) error {
	code = models.CanonicalPromoCode(code)
	if code == "" {
		return InvalidPromo("promo code is required")
	}

	promo, err := s.store.Promos().FindByCode(ctx, code)
	if errors.Is(err, models.ErrRecordNotFound) {
		return InvalidPromo("promo code %s not found", code)
	}
	if err != nil {
		return err
	}
	if !promo.IsValid(s.opts.now()) {
		return InvalidPromo("promo code %s is expired or no longer available", code)
	}

	cart, err := s.store.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.store.Carts().SetPromoCode(ctx, cart.ID, &code)
}

func (s *CartService) RemovePromo(ctx context.Context, userID string) error {
	cart, err := s.store.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.store.Carts().SetPromoCode(ctx, cart.ID, nil)
}

func (s *CartService) activeProduct(ctx context.Context, productID uint) (*models.Product, error) {
	product, err := s.store.Products().Find(ctx, productID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, NotFound("%s is not available", product.DisplayName())
	}
	return product, nil
}
