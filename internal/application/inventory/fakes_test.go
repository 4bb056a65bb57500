package inventory_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/application/inventory"
	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

// memStore simula la base de datos en memoria. Los fakes comparten el mismo
// store; el fakeTxRunner toma un snapshot antes de cada callback y lo
// restaura si falla, imitando el rollback transaccional.
type memStore struct {
	products  map[string]*entity.Product
	stock     map[string]*entity.Stock
	lots      []*entity.Lot
	serials   map[string]*entity.SerialUnit
	movements []*entity.Movement
	transfers map[string]*entity.Transfer
	nextSeq   int64
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[string]*entity.Product{},
		stock:     map[string]*entity.Stock{},
		serials:   map[string]*entity.SerialUnit{},
		transfers: map[string]*entity.Transfer{},
	}
}

func stockKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.nextSeq = s.nextSeq
	for k, v := range s.products {
		p := *v
		p.Components = append([]entity.KitComponent(nil), v.Components...)
		c.products[k] = &p
	}
	for k, v := range s.stock {
		st := *v
		c.stock[k] = &st
	}
	for _, l := range s.lots {
		lot := *l
		c.lots = append(c.lots, &lot)
	}
	for k, v := range s.serials {
		u := *v
		c.serials[k] = &u
	}
	for _, m := range s.movements {
		mov := *m
		c.movements = append(c.movements, &mov)
	}
	for k, v := range s.transfers {
		t := *v
		t.Serials = append([]string(nil), v.Serials...)
		t.Detail = append([]entity.TransferLot(nil), v.Detail...)
		c.transfers[k] = &t
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	*s = *from
}

func (s *memStore) repos() inventory.Repos {
	return inventory.Repos{
		Movements: &fakeMovementRepo{s},
		Stock:     &fakeStockRepo{s},
		Lots:      &fakeLotRepo{s},
		Serials:   &fakeSerialRepo{s},
		Products:  &fakeProductRepo{s},
		Transfers: &fakeTransferRepo{s},
	}
}

// fakeTxRunner imita la atomicidad: restaura el snapshot si fn falla.
type fakeTxRunner struct {
	store *memStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(repos inventory.Repos) error) error {
	snapshot := r.store.clone()
	if err := fn(r.store.repos()); err != nil {
		r.store.restore(snapshot)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	existing, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cost := existing.Cost
	cp := *p
	cp.Cost = cost
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, _, _ int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.s.products {
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

type fakeStockRepo struct{ s *memStore }

func (r *fakeStockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	st, ok := r.s.stock[stockKey(productID, warehouseID)]
	if !ok {
		return &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
	}
	cp := *st
	return &cp, nil
}

func (r *fakeStockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *fakeStockRepo) Upsert(_ context.Context, stock *entity.Stock) error {
	cp := *stock
	r.s.stock[stockKey(stock.ProductID, stock.WarehouseID)] = &cp
	return nil
}

func (r *fakeStockRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Stock, error) {
	var list []*entity.Stock
	for _, st := range r.s.stock {
		if st.WarehouseID == warehouseID && !st.Quantity.IsZero() {
			cp := *st
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return list, nil
}

func (r *fakeStockRepo) SumByProduct(_ context.Context, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, st := range r.s.stock {
		if st.ProductID == productID {
			total = total.Add(st.Quantity)
		}
	}
	return total, nil
}

type fakeLotRepo struct{ s *memStore }

func (r *fakeLotRepo) Create(_ context.Context, lot *entity.Lot) error {
	for _, l := range r.s.lots {
		if l.ProductID == lot.ProductID && l.WarehouseID == lot.WarehouseID && l.Number == lot.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.nextSeq++
	lot.Seq = r.s.nextSeq
	cp := *lot
	r.s.lots = append(r.s.lots, &cp)
	return nil
}

func (r *fakeLotRepo) GetByNumberForUpdate(_ context.Context, productID, warehouseID, number string) (*entity.Lot, error) {
	for _, l := range r.s.lots {
		if l.ProductID == productID && l.WarehouseID == warehouseID && l.Number == number {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLotRepo) list(productID, warehouseID string, soloAbiertos bool) []entity.Lot {
	var list []entity.Lot
	for _, l := range r.s.lots {
		if l.ProductID != productID || l.WarehouseID != warehouseID {
			continue
		}
		if soloAbiertos && !l.Abierto() {
			continue
		}
		list = append(list, *l)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
	return list
}

func (r *fakeLotRepo) ListOpen(_ context.Context, productID, warehouseID string) ([]entity.Lot, error) {
	return r.list(productID, warehouseID, true), nil
}

func (r *fakeLotRepo) ListOpenForUpdate(_ context.Context, productID, warehouseID string) ([]entity.Lot, error) {
	return r.list(productID, warehouseID, true), nil
}

func (r *fakeLotRepo) UpdateRemaining(_ context.Context, lotID string, remaining decimal.Decimal) error {
	for _, l := range r.s.lots {
		if l.ID == lotID {
			l.Remaining = remaining
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeLotRepo) ListByProductWarehouse(_ context.Context, productID, warehouseID string) ([]entity.Lot, error) {
	return r.list(productID, warehouseID, false), nil
}

type fakeSerialRepo struct{ s *memStore }

func (r *fakeSerialRepo) Create(_ context.Context, unit *entity.SerialUnit) error {
	if _, ok := r.s.serials[unit.Serial]; ok {
		return domain.ErrDuplicate
	}
	cp := *unit
	r.s.serials[unit.Serial] = &cp
	return nil
}

func (r *fakeSerialRepo) GetBySerial(_ context.Context, serial string) (*entity.SerialUnit, error) {
	u, ok := r.s.serials[serial]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeSerialRepo) GetBySerials(_ context.Context, serials []string) ([]entity.SerialUnit, error) {
	ordenados := append([]string(nil), serials...)
	sort.Strings(ordenados)
	var list []entity.SerialUnit
	for _, sn := range ordenados {
		if u, ok := r.s.serials[sn]; ok {
			list = append(list, *u)
		}
	}
	return list, nil
}

func (r *fakeSerialRepo) GetBySerialsForUpdate(ctx context.Context, serials []string) ([]entity.SerialUnit, error) {
	return r.GetBySerials(ctx, serials)
}

func (r *fakeSerialRepo) UpdateLocation(_ context.Context, unitID, warehouseID, state string) error {
	for _, u := range r.s.serials {
		if u.ID == unitID {
			u.WarehouseID = warehouseID
			u.State = state
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeSerialRepo) CountInStock(_ context.Context, productID, warehouseID string) (int64, error) {
	var n int64
	for _, u := range r.s.serials {
		if u.ProductID == productID && u.WarehouseID == warehouseID && u.State == entity.SerialEnStock {
			n++
		}
	}
	return n, nil
}

func (r *fakeSerialRepo) ListInStock(_ context.Context, productID, warehouseID string) ([]entity.SerialUnit, error) {
	var list []entity.SerialUnit
	for _, u := range r.s.serials {
		if u.ProductID == productID && u.WarehouseID == warehouseID && u.State == entity.SerialEnStock {
			list = append(list, *u)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Serial < list[j].Serial
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

type fakeMovementRepo struct{ s *memStore }

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(_ context.Context, productID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for _, m := range r.s.movements {
		if m.ProductID != productID {
			continue
		}
		if warehouseID != "" && m.WarehouseID != warehouseID {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	if offset > len(list) {
		offset = len(list)
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *fakeMovementRepo) ListByTransaction(_ context.Context, transactionID string) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for _, m := range r.s.movements {
		if m.TransactionID == transactionID {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeMovementRepo) ListByReference(_ context.Context, ref entity.DocumentRef) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for _, m := range r.s.movements {
		if m.Reference != nil && m.Reference.Kind == ref.Kind && m.Reference.ID == ref.ID {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list, nil
}

type fakeTransferRepo struct{ s *memStore }

func (r *fakeTransferRepo) Create(_ context.Context, t *entity.Transfer) error {
	cp := *t
	r.s.transfers[t.ID] = &cp
	return nil
}

func (r *fakeTransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTransferRepo) UpdateStatus(_ context.Context, id, status string) error {
	t, ok := r.s.transfers[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTransferRepo) List(_ context.Context, _, _ int) ([]*entity.Transfer, error) {
	var list []*entity.Transfer
	for _, t := range r.s.transfers {
		cp := *t
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de escenario
// ──────────────────────────────────────────────────────────────────────────────

func productoLote(id, name string, cost string) *entity.Product {
	return &entity.Product{
		ID: id, SKU: strings.ToUpper(id), Name: name,
		Cost: dec(cost), TrackingMode: entity.TrackingLote,
	}
}

func productoSimple(id, name, cost string) *entity.Product {
	return &entity.Product{
		ID: id, SKU: strings.ToUpper(id), Name: name,
		Cost: dec(cost), TrackingMode: entity.TrackingNone,
	}
}

func productoSerie(id, name, cost string) *entity.Product {
	return &entity.Product{
		ID: id, SKU: strings.ToUpper(id), Name: name,
		Cost: dec(cost), TrackingMode: entity.TrackingSerie,
	}
}

func dec(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}
