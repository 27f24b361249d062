package services

import (
	"time"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/models/storetest"
	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(n int) *int { return &n }

func defaultSettings() storetest.Settings {
	return storetest.Settings(pricing.DeliverySettings{
		ExpressBaseFee:           dec("25"),
		ScheduledBaseFee:         dec("15"),
		FreeDeliveryThreshold:    dec("200"),
		ItemCountThreshold:       10,
		ItemCountDiscountPercent: dec("20"),
		HighValueThreshold:       dec("1000"),
		HighValueDeliveryFee:     dec("5"),
	})
}

func activeProduct(name, price string, stock int) models.Product {
	return models.Product{
		SKU:      "SKU-" + name,
		NameEn:   name,
		NameAr:   name + " (ar)",
		Price:    dec(price),
		Stock:    stock,
		IsActive: true,
	}
}

func percentPromo(code, value string) models.PromoCode {
	return models.PromoCode{
		Code:      code,
		Type:      pricing.PromoPercentage,
		Value:     dec(value),
		StartDate: fixedNow.AddDate(0, -1, 0),
		EndDate:   fixedNow.AddDate(0, 1, 0),
		IsActive:  true,
	}
}

type harness struct {
	store  *storetest.Store
	carts  *CartService
	orders *OrderService
	sender *chanSender
	feed   *chanFeed
}

func newHarness() *harness {
	store := storetest.New()
	settings := defaultSettings()
	sender := newChanSender()
	feed := &chanFeed{published: make(chan *models.Order, 64)}
	return &harness{
		store:  store,
		carts:  NewCartService(store, settings, WithClock(clock)),
		orders: NewOrderService(store, settings, sender, feed, WithClock(clock)),
		sender: sender,
		feed:   feed,
	}
}
