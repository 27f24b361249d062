// Package storetest provides an in-memory models.Store for tests.
package storetest

import (
	"context"
	"sort"
	"sync"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pricing"
)

// memState is the in-memory database behind Store. Values are copied on
// every read and write so callers cannot mutate stored rows by accident.
type memState struct {
	products  map[uint]models.Product
	promos    map[string]models.PromoCode
	carts     map[string]models.Cart
	orders    map[uint]models.Order
	payments  map[uint]models.Payment
	addresses map[uint]string
	seq       uint
}

func newMemState() *memState {
	return &memState{
		products:  map[uint]models.Product{},
		promos:    map[string]models.PromoCode{},
		carts:     map[string]models.Cart{},
		orders:    map[uint]models.Order{},
		payments:  map[uint]models.Payment{},
		addresses: map[uint]string{},
	}
}

func (s *memState) next() uint {
	s.seq++
	return s.seq
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.seq = s.seq
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.promos {
		c.promos[k] = v
	}
	for k, v := range s.carts {
		c.carts[k] = copyCart(v)
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.addresses {
		c.addresses[k] = v
	}
	return c
}

func copyCart(c models.Cart) models.Cart {
	c.Items = append([]models.CartItem(nil), c.Items...)
	return c
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	o.StatusHistory = append([]models.StatusHistoryEntry(nil), o.StatusHistory...)
	return o
}

// memDB serialises every operation; a transaction holds the lock for its
// whole duration and works on a private clone committed on success.
type memDB struct {
	mu    sync.Mutex
	state *memState
}

type Store struct {
	db    *memDB
	state *memState
}

var _ models.Store = (*Store)(nil)

// New returns an empty store. Ids are drawn from one sequence shared by all tables.
func New() *Store {
	db := &memDB{state: newMemState()}
	return &Store{db: db}
}

// do runs fn against the current state, taking the lock outside a transaction.
func (s *Store) do(fn func(st *memState) error) error {
	if s.state != nil {
		return fn(s.state)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(s.db.state)
}

func (s *Store) Transaction(ctx context.Context, fn func(tx models.Store) error) error {
	if s.state != nil {
		return fn(s)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	work := s.db.state.clone()
	if err := fn(&Store{db: s.db, state: work}); err != nil {
		return err
	}
	s.db.state = work
	return nil
}

func (s *Store) Products() models.ProductRepository { return memProducts{s} }
func (s *Store) Promos() models.PromoRepository     { return memPromos{s} }
func (s *Store) Carts() models.CartRepository       { return memCarts{s} }
func (s *Store) Orders() models.OrderRepository     { return memOrders{s} }
func (s *Store) Addresses() models.AddressRepository {
	return memAddresses{s}
}

// AddProduct inserts p, or replaces the product with the same non-zero id.
func (s *Store) AddProduct(p models.Product) uint {
	var id uint
	_ = s.do(func(st *memState) error {
		if p.ID == 0 {
			p.ID = st.next()
		}
		id = p.ID
		st.products[p.ID] = p
		return nil
	})
	return id
}

// Product returns the stored product, or the zero value.
func (s *Store) Product(id uint) models.Product {
	var p models.Product
	_ = s.do(func(st *memState) error {
		p = st.products[id]
		return nil
	})
	return p
}

func (s *Store) AddPromo(p models.PromoCode) {
	_ = s.do(func(st *memState) error {
		p.ID = st.next()
		st.promos[p.Code] = p
		return nil
	})
}

func (s *Store) Promo(code string) models.PromoCode {
	var p models.PromoCode
	_ = s.do(func(st *memState) error {
		p = st.promos[code]
		return nil
	})
	return p
}

// AddAddress registers an address owned by userID and returns its id.
func (s *Store) AddAddress(userID string) uint {
	var id uint
	_ = s.do(func(st *memState) error {
		id = st.next()
		st.addresses[id] = userID
		return nil
	})
	return id
}

func (s *Store) OrderCount() int {
	var n int
	_ = s.do(func(st *memState) error {
		n = len(st.orders)
		return nil
	})
	return n
}

func (s *Store) PaymentCount() int {
	var n int
	_ = s.do(func(st *memState) error {
		n = len(st.payments)
		return nil
	})
	return n
}

type memProducts struct{ s *Store }

func (r memProducts) Find(ctx context.Context, id uint) (*models.Product, error) {
	var out *models.Product
	err := r.s.do(func(st *memState) error {
		p, ok := st.products[id]
		if !ok {
			return models.ErrRecordNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r memProducts) FindMany(ctx context.Context, ids []uint) (map[uint]*models.Product, error) {
	out := map[uint]*models.Product{}
	err := r.s.do(func(st *memState) error {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				out[id] = &p
			}
		}
		return nil
	})
	return out, err
}

func (r memProducts) FindForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	return r.Find(ctx, id)
}

func (r memProducts) DecrementStock(ctx context.Context, id uint, quantity int) error {
	return r.s.do(func(st *memState) error {
		p, ok := st.products[id]
		if !ok || p.Stock < quantity {
			return models.ErrConflict
		}
		p.Stock -= quantity
		st.products[id] = p
		return nil
	})
}

func (r memProducts) IncrementStock(ctx context.Context, id uint, quantity int) error {
	return r.s.do(func(st *memState) error {
		p, ok := st.products[id]
		if !ok {
			return models.ErrRecordNotFound
		}
		p.Stock += quantity
		st.products[id] = p
		return nil
	})
}

type memPromos struct{ s *Store }

func (r memPromos) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var out *models.PromoCode
	err := r.s.do(func(st *memState) error {
		p, ok := st.promos[code]
		if !ok {
			return models.ErrRecordNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r memPromos) FindByCodeForUpdate(ctx context.Context, code string) (*models.PromoCode, error) {
	return r.FindByCode(ctx, code)
}

func (r memPromos) IncrementUsage(ctx context.Context, id uint) error {
	return r.s.do(func(st *memState) error {
		for code, p := range st.promos {
			if p.ID != id {
				continue
			}
			if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
				return models.ErrConflict
			}
			p.UsedCount++
			st.promos[code] = p
			return nil
		}
		return models.ErrConflict
	})
}

type memCarts struct{ s *Store }

func (r memCarts) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	var out models.Cart
	err := r.s.do(func(st *memState) error {
		c, ok := st.carts[userID]
		if !ok {
			c = models.Cart{ID: st.next(), UserID: userID}
			st.carts[userID] = c
		}
		out = copyCart(c)
		return nil
	})
	return &out, err
}

// GetForUpdate needs no lock of its own; transactions already run one at a time.
func (r memCarts) GetForUpdate(ctx context.Context, userID string) (*models.Cart, error) {
	var out models.Cart
	err := r.s.do(func(st *memState) error {
		c, ok := st.carts[userID]
		if !ok {
			return models.ErrRecordNotFound
		}
		out = copyCart(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memCarts) byID(st *memState, cartID uint) (models.Cart, bool) {
	for _, c := range st.carts {
		if c.ID == cartID {
			return c, true
		}
	}
	return models.Cart{}, false
}

func (r memCarts) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.s.do(func(st *memState) error {
		c, ok := r.byID(st, item.CartID)
		if !ok {
			return models.ErrRecordNotFound
		}
		c = copyCart(c)
		if existing := c.Item(item.ProductID); existing != nil {
			*existing = *item
			item.ID = existing.ID
		} else {
			item.ID = st.next()
			c.Items = append(c.Items, *item)
		}
		st.carts[c.UserID] = c
		return nil
	})
}

func (r memCarts) DeleteItem(ctx context.Context, cartID, productID uint) error {
	return r.s.do(func(st *memState) error {
		c, ok := r.byID(st, cartID)
		if !ok {
			return nil
		}
		kept := c.Items[:0:0]
		for _, it := range c.Items {
			if it.ProductID != productID {
				kept = append(kept, it)
			}
		}
		c.Items = kept
		st.carts[c.UserID] = c
		return nil
	})
}

func (r memCarts) ClearItems(ctx context.Context, cartID uint) error {
	return r.s.do(func(st *memState) error {
		if c, ok := r.byID(st, cartID); ok {
			c.Items = nil
			st.carts[c.UserID] = c
		}
		return nil
	})
}

func (r memCarts) SetPromoCode(ctx context.Context, cartID uint, code *string) error {
	return r.s.do(func(st *memState) error {
		if c, ok := r.byID(st, cartID); ok {
			c.PromoCode = code
			st.carts[c.UserID] = c
		}
		return nil
	})
}

type memOrders struct{ s *Store }

func (r memOrders) Create(ctx context.Context, order *models.Order) error {
	return r.s.do(func(st *memState) error {
		order.ID = st.next()
		for i := range order.Items {
			order.Items[i].ID = st.next()
			order.Items[i].OrderID = order.ID
		}
		for i := range order.StatusHistory {
			order.StatusHistory[i].ID = st.next()
			order.StatusHistory[i].OrderID = order.ID
		}
		st.orders[order.ID] = copyOrder(*order)
		return nil
	})
}

func (r memOrders) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.s.do(func(st *memState) error {
		payment.ID = st.next()
		st.payments[payment.OrderID] = *payment
		return nil
	})
}

func (r memOrders) Find(ctx context.Context, id uint) (*models.Order, error) {
	var out models.Order
	err := r.s.do(func(st *memState) error {
		o, ok := st.orders[id]
		if !ok {
			return models.ErrRecordNotFound
		}
		out = copyOrder(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memOrders) FindForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	return r.Find(ctx, id)
}

func (r memOrders) list(match func(models.Order) bool) ([]models.Order, error) {
	var out []models.Order
	err := r.s.do(func(st *memState) error {
		for _, o := range st.orders {
			if match(o) {
				out = append(out, copyOrder(o))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, err
}

func (r memOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(func(o models.Order) bool { return o.UserID == userID })
}

func (r memOrders) List(ctx context.Context) ([]models.Order, error) {
	return r.list(func(models.Order) bool { return true })
}

func (r memOrders) Update(ctx context.Context, id uint, ch models.OrderChanges) error {
	return r.s.do(func(st *memState) error {
		o, ok := st.orders[id]
		if !ok {
			return models.ErrRecordNotFound
		}
		if ch.Status != nil {
			o.Status = *ch.Status
		}
		if ch.PaymentStatus != nil {
			o.PaymentStatus = *ch.PaymentStatus
			if p, ok := st.payments[id]; ok {
				p.Status = *ch.PaymentStatus
				st.payments[id] = p
			}
		}
		if ch.CancelReason != nil {
			o.CancelReason = ch.CancelReason
		}
		if ch.DriverID != nil {
			o.DriverID = ch.DriverID
		}
		if ch.DeliveredAt != nil {
			o.DeliveredAt = ch.DeliveredAt
		}
		st.orders[id] = o
		return nil
	})
}

func (r memOrders) AppendHistory(ctx context.Context, entry *models.StatusHistoryEntry) error {
	return r.s.do(func(st *memState) error {
		o, ok := st.orders[entry.OrderID]
		if !ok {
			return models.ErrRecordNotFound
		}
		entry.ID = st.next()
		o = copyOrder(o)
		o.StatusHistory = append(o.StatusHistory, *entry)
		st.orders[o.ID] = o
		return nil
	})
}

type memAddresses struct{ s *Store }

func (r memAddresses) BelongsTo(ctx context.Context, userID string, addressID uint) (bool, error) {
	var owned bool
	err := r.s.do(func(st *memState) error {
		owned = st.addresses[addressID] == userID
		return nil
	})
	return owned, err
}

// Settings is a fixed models.DeliverySettingsProvider.
type Settings pricing.DeliverySettings

func (s Settings) DeliverySettings(ctx context.Context) (pricing.DeliverySettings, error) {
	return pricing.DeliverySettings(s), nil
}
