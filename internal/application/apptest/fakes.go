// Package apptest provee dobles en memoria de los puertos de persistencia para
// los tests de los casos de uso. El Store simula la semántica transaccional del
// TxRunner real: snapshot antes de ejecutar y restore ante error.
package apptest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/internal/domain/repository"
)

// Store estado compartido de todos los repos fake.
type Store struct {
	mu sync.Mutex

	Companies        map[string]entity.Company
	Branches         map[string]entity.Branch
	Products         map[string]entity.Product
	Movements        []entity.StockMovement
	Purchases        map[string]entity.Purchase
	PurchaseLines    map[string]entity.PurchaseLine
	PurchaseCosts    map[string]entity.PurchaseCost
	Sales            map[string]entity.Sale
	SaleLines        map[string]entity.SaleLine
	Payments         map[string]entity.Payment
	SupplierProducts map[string]entity.SupplierProduct
	Users            map[string]entity.User
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		Companies:        map[string]entity.Company{},
		Branches:         map[string]entity.Branch{},
		Products:         map[string]entity.Product{},
		Purchases:        map[string]entity.Purchase{},
		PurchaseLines:    map[string]entity.PurchaseLine{},
		PurchaseCosts:    map[string]entity.PurchaseCost{},
		Sales:            map[string]entity.Sale{},
		SaleLines:        map[string]entity.SaleLine{},
		Payments:         map[string]entity.Payment{},
		SupplierProducts: map[string]entity.SupplierProduct{},
		Users:            map[string]entity.User{},
	}
}

// ── Seeds ─────────────────────────────────────────────────────────────────────

// SeedCompany inserta una empresa y devuelve su id.
func (s *Store) SeedCompany(name string) string {
	id := uuid.New().String()
	s.Companies[id] = entity.Company{ID: id, Name: name, TaxID: "30-" + id[:8], Status: "active", CreatedAt: time.Now()}
	return id
}

// SeedBranch inserta una sucursal con talonarios en cero y devuelve su id.
func (s *Store) SeedBranch(companyID, name string) string {
	id := uuid.New().String()
	s.Branches[id] = entity.Branch{ID: id, CompanyID: companyID, Name: name, CreatedAt: time.Now()}
	return id
}

// SeedProduct inserta un producto activo con el stock indicado y devuelve su id.
func (s *Store) SeedProduct(branchID, code, name string, stock int) string {
	id := uuid.New().String()
	s.Products[id] = entity.Product{
		ID: id, BranchID: branchID, Code: code, Name: name,
		Stock: stock, OpeningStock: stock, Active: true, CreatedAt: time.Now(),
	}
	return id
}

// LedgerSum suma los deltas del libro para un producto: el lado derecho del
// invariante stock == suma de movimientos.
func (s *Store) LedgerSum(productID string) int {
	sum := 0
	for _, m := range s.Movements {
		if m.ProductID == productID {
			sum += m.Quantity
		}
	}
	return sum
}

// MovementsFor devuelve las entradas del libro de un producto en orden de inserción.
func (s *Store) MovementsFor(productID string) []entity.StockMovement {
	var out []entity.StockMovement
	for _, m := range s.Movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

// ── Snapshot / restore (semántica de rollback) ────────────────────────────────

type snapshot struct {
	companies        map[string]entity.Company
	branches         map[string]entity.Branch
	products         map[string]entity.Product
	movements        []entity.StockMovement
	purchases        map[string]entity.Purchase
	purchaseLines    map[string]entity.PurchaseLine
	purchaseCosts    map[string]entity.PurchaseCost
	sales            map[string]entity.Sale
	saleLines        map[string]entity.SaleLine
	payments         map[string]entity.Payment
	supplierProducts map[string]entity.SupplierProduct
	users            map[string]entity.User
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		companies:        copyMap(s.Companies),
		branches:         copyMap(s.Branches),
		products:         copyMap(s.Products),
		movements:        append([]entity.StockMovement(nil), s.Movements...),
		purchases:        copyMap(s.Purchases),
		purchaseLines:    copyMap(s.PurchaseLines),
		purchaseCosts:    copyMap(s.PurchaseCosts),
		sales:            copyMap(s.Sales),
		saleLines:        copyMap(s.SaleLines),
		payments:         copyMap(s.Payments),
		supplierProducts: copyMap(s.SupplierProducts),
		users:            copyMap(s.Users),
	}
}

func (s *Store) restore(snap snapshot) {
	s.Companies = snap.companies
	s.Branches = snap.branches
	s.Products = snap.products
	s.Movements = snap.movements
	s.Purchases = snap.purchases
	s.PurchaseLines = snap.purchaseLines
	s.PurchaseCosts = snap.purchaseCosts
	s.Sales = snap.sales
	s.SaleLines = snap.saleLines
	s.Payments = snap.payments
	s.SupplierProducts = snap.supplierProducts
	s.Users = snap.users
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// TxRunner implementa los puertos TxRunner de todos los casos de uso sobre el
// Store, con snapshot/restore como equivalente del rollback.
type TxRunner struct {
	S *Store
}

func NewTxRunner(s *Store) *TxRunner { return &TxRunner{S: s} }

func (t *TxRunner) run(fn func() error) error {
	snap := t.S.snapshot()
	if err := fn(); err != nil {
		t.S.restore(snap)
		return err
	}
	return nil
}

func (t *TxRunner) RunProducts(_ context.Context, fn func(repository.ProductRepository, repository.StockMovementRepository) error) error {
	return t.run(func() error { return fn(NewProductRepo(t.S), NewMovementRepo(t.S)) })
}

func (t *TxRunner) RunInventory(_ context.Context, fn func(repository.ProductRepository, repository.StockMovementRepository) error) error {
	return t.run(func() error { return fn(NewProductRepo(t.S), NewMovementRepo(t.S)) })
}

func (t *TxRunner) RunPurchases(_ context.Context, fn func(
	repository.PurchaseRepository,
	repository.ProductRepository,
	repository.StockMovementRepository,
	repository.BranchRepository,
	repository.SupplierProductRepository,
	repository.PaymentRepository,
) error) error {
	return t.run(func() error {
		return fn(NewPurchaseRepo(t.S), NewProductRepo(t.S), NewMovementRepo(t.S),
			NewBranchRepo(t.S), NewSupplierProductRepo(t.S), NewPaymentRepo(t.S))
	})
}

func (t *TxRunner) RunSales(_ context.Context, fn func(
	repository.SaleRepository,
	repository.ProductRepository,
	repository.StockMovementRepository,
	repository.BranchRepository,
	repository.PaymentRepository,
) error) error {
	return t.run(func() error {
		return fn(NewSaleRepo(t.S), NewProductRepo(t.S), NewMovementRepo(t.S),
			NewBranchRepo(t.S), NewPaymentRepo(t.S))
	})
}

// ── ProductRepo ───────────────────────────────────────────────────────────────

type ProductRepo struct{ s *Store }

func NewProductRepo(s *Store) *ProductRepo { return &ProductRepo{s: s} }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.Products {
		if p.BranchID == product.BranchID && p.Code == product.Code {
			return domain.ErrDuplicate
		}
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.s.Products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.Products[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *ProductRepo) GetByBranchAndCode(branchID, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.Products {
		if p.BranchID == branchID && p.Code == code {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetByBranchAndCodeForUpdate(branchID, code string) (*entity.Product, error) {
	return r.GetByBranchAndCode(branchID, code)
}

func (r *ProductRepo) Update(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Products[product.ID] = *product
	return nil
}

func (r *ProductRepo) SetActive(id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Active = active
	r.s.Products[id] = p
	return nil
}

func (r *ProductRepo) IncreaseStock(id string, qty int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	p.Stock += qty
	r.s.Products[id] = p
	return p.Stock, nil
}

func (r *ProductRepo) DecreaseStock(id string, qty int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if p.Stock < qty {
		return 0, domain.ErrInsufficientStock
	}
	p.Stock -= qty
	r.s.Products[id] = p
	return p.Stock, nil
}

func (r *ProductRepo) ListByBranch(branchID, search string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.Products {
		if p.BranchID != branchID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Code), search) &&
			!strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	return out, nil
}

// ── MovementRepo ──────────────────────────────────────────────────────────────

type MovementRepo struct{ s *Store }

func NewMovementRepo(s *Store) *MovementRepo { return &MovementRepo{s: s} }

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(m *entity.StockMovement) error {
	if m.ResultingStock != nil && *m.ResultingStock < 0 {
		return domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.s.Movements = append(r.s.Movements, *m)
	return nil
}

func (r *MovementRepo) CreateBatch(movements []*entity.StockMovement) error {
	for _, m := range movements {
		if err := r.Create(m); err != nil {
			return err
		}
	}
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.Movements {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) list(match func(entity.StockMovement) bool, from, to *time.Time, limit, offset int) []*entity.StockMovement {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.StockMovement
	for _, m := range r.s.Movements {
		if !match(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := m
		all = append(all, &cp)
	}
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

func (r *MovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m entity.StockMovement) bool { return m.ProductID == productID }, from, to, limit, offset), nil
}

func (r *MovementRepo) ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m entity.StockMovement) bool { return m.BranchID == branchID }, from, to, limit, offset), nil
}

func (r *MovementRepo) ListByBranches(branchIDs []string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	in := map[string]bool{}
	for _, id := range branchIDs {
		in[id] = true
	}
	return r.list(func(m entity.StockMovement) bool { return in[m.BranchID] }, from, to, limit, offset), nil
}

func (r *MovementRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m entity.StockMovement) bool {
		b, ok := r.s.Branches[m.BranchID]
		return ok && b.CompanyID == companyID
	}, from, to, limit, offset), nil
}

func (r *MovementRepo) DeleteByDocument(documentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var kept []entity.StockMovement
	for _, m := range r.s.Movements {
		if m.DocumentID == nil || *m.DocumentID != documentID {
			kept = append(kept, m)
		}
	}
	r.s.Movements = kept
	return nil
}

// ── BranchRepo ────────────────────────────────────────────────────────────────

type BranchRepo struct{ s *Store }

func NewBranchRepo(s *Store) *BranchRepo { return &BranchRepo{s: s} }

var _ repository.BranchRepository = (*BranchRepo)(nil)

func (r *BranchRepo) Create(branch *entity.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if branch.ID == "" {
		branch.ID = uuid.New().String()
	}
	r.s.Branches[branch.ID] = *branch
	return nil
}

func (r *BranchRepo) GetByID(id string) (*entity.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.Branches[id]; ok {
		cp := b
		return &cp, nil
	}
	return nil, nil
}

func (r *BranchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Branch
	for _, b := range r.s.Branches {
		if b.CompanyID == companyID {
			cp := b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *BranchRepo) IncrementPurchaseCounter(id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.Branches[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	b.PurchaseCounter++
	r.s.Branches[id] = b
	return b.PurchaseCounter, nil
}

func (r *BranchRepo) IncrementSaleCounter(id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.Branches[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	b.SaleCounter++
	r.s.Branches[id] = b
	return b.SaleCounter, nil
}

// ── PurchaseRepo ──────────────────────────────────────────────────────────────

type PurchaseRepo struct{ s *Store }

func NewPurchaseRepo(s *Store) *PurchaseRepo { return &PurchaseRepo{s: s} }

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Purchases[purchase.ID] = *purchase
	return nil
}

func (r *PurchaseRepo) CreateLine(line *entity.PurchaseLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.PurchaseLines[line.ID] = *line
	return nil
}

func (r *PurchaseRepo) CreateCost(cost *entity.PurchaseCost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.PurchaseCosts[cost.ID] = *cost
	return nil
}

func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.Purchases[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *PurchaseRepo) GetLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseLine
	for _, l := range r.s.PurchaseLines {
		if l.PurchaseID == purchaseID {
			cp := l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *PurchaseRepo) GetCosts(purchaseID string) ([]*entity.PurchaseCost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseCost
	for _, c := range r.s.PurchaseCosts {
		if c.PurchaseID == purchaseID {
			cp := c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *PurchaseRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Purchase
	for _, p := range r.s.Purchases {
		if p.BranchID == branchID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Purchases[purchase.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Purchases[purchase.ID] = *purchase
	return nil
}

func (r *PurchaseRepo) DeleteLines(purchaseID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, l := range r.s.PurchaseLines {
		if l.PurchaseID == purchaseID {
			delete(r.s.PurchaseLines, id)
		}
	}
	return nil
}

func (r *PurchaseRepo) DeleteCosts(purchaseID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.PurchaseCosts {
		if c.PurchaseID == purchaseID {
			delete(r.s.PurchaseCosts, id)
		}
	}
	return nil
}

func (r *PurchaseRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.Purchases, id)
	return nil
}

// ── SaleRepo ──────────────────────────────────────────────────────────────────

type SaleRepo struct{ s *Store }

func NewSaleRepo(s *Store) *SaleRepo { return &SaleRepo{s: s} }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Sales[sale.ID] = *sale
	return nil
}

func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.SaleLines[line.ID] = *line
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if s, ok := r.s.Sales[id]; ok {
		cp := s
		return &cp, nil
	}
	return nil, nil
}

func (r *SaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SaleLine
	for _, l := range r.s.SaleLines {
		if l.SaleID == saleID {
			cp := l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *SaleRepo) GetLineByID(lineID string) (*entity.SaleLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l, ok := r.s.SaleLines[lineID]; ok {
		cp := l
		return &cp, nil
	}
	return nil, nil
}

func (r *SaleRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Sale
	for _, s := range r.s.Sales {
		if s.BranchID == branchID {
			cp := s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *SaleRepo) Update(sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Sales[sale.ID] = *sale
	return nil
}

func (r *SaleRepo) UpdateLine(line *entity.SaleLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.SaleLines[line.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.SaleLines[line.ID] = *line
	return nil
}

func (r *SaleRepo) DeleteLines(saleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, l := range r.s.SaleLines {
		if l.SaleID == saleID {
			delete(r.s.SaleLines, id)
		}
	}
	return nil
}

func (r *SaleRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.Sales, id)
	return nil
}

// ── PaymentRepo ───────────────────────────────────────────────────────────────

type PaymentRepo struct{ s *Store }

func NewPaymentRepo(s *Store) *PaymentRepo { return &PaymentRepo{s: s} }

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

func (r *PaymentRepo) Create(payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Payments[payment.ID] = *payment
	return nil
}

func (r *PaymentRepo) GetByID(id string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.Payments[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *PaymentRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.Payments, id)
	return nil
}

// ── SupplierProductRepo ───────────────────────────────────────────────────────

type SupplierProductRepo struct{ s *Store }

func NewSupplierProductRepo(s *Store) *SupplierProductRepo { return &SupplierProductRepo{s: s} }

var _ repository.SupplierProductRepository = (*SupplierProductRepo)(nil)

func (r *SupplierProductRepo) Create(relation *entity.SupplierProduct) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sp := range r.s.SupplierProducts {
		if sp.SupplierID == relation.SupplierID && sp.ProductID == relation.ProductID {
			return domain.ErrDuplicate
		}
	}
	if relation.ID == "" {
		relation.ID = uuid.New().String()
	}
	r.s.SupplierProducts[relation.ID] = *relation
	return nil
}

func (r *SupplierProductRepo) GetByID(id string) (*entity.SupplierProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sp, ok := r.s.SupplierProducts[id]; ok {
		cp := sp
		return &cp, nil
	}
	return nil, nil
}

func (r *SupplierProductRepo) ListByProduct(productID string) ([]*entity.SupplierProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SupplierProduct
	for _, sp := range r.s.SupplierProducts {
		if sp.ProductID == productID {
			cp := sp
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── CompanyRepo ───────────────────────────────────────────────────────────────

type CompanyRepo struct{ s *Store }

func NewCompanyRepo(s *Store) *CompanyRepo { return &CompanyRepo{s: s} }

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

func (r *CompanyRepo) Create(company *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if company.ID == "" {
		company.ID = uuid.New().String()
	}
	r.s.Companies[company.ID] = *company
	return nil
}

func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.Companies[id]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}

func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Company
	for _, c := range r.s.Companies {
		cp := c
		out = append(out, &cp)
	}
	return out, nil
}

// ── UserRepo ──────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

func NewUserRepo(s *Store) *UserRepo { return &UserRepo{s: s} }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.Users {
		if u.Email == user.Email && u.CompanyID == user.CompanyID {
			return domain.ErrEmailAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.s.Users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.Users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.Users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.Users {
		if u.Email == email && u.CompanyID == companyID {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}
