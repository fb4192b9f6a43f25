package e2e

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gevapp/gevapp/internal/auth"
	"github.com/gevapp/gevapp/internal/catalog"
	"github.com/gevapp/gevapp/internal/customers"
	"github.com/gevapp/gevapp/internal/reports"
	"github.com/gevapp/gevapp/internal/sales"
	"github.com/gevapp/gevapp/internal/shared"
)

// memoryStore backs every repository with one shared in-memory dataset so a
// sale created through the API is visible to the dashboard queries.
type memoryStore struct {
	products  map[int64]*catalog.Product
	clients   map[int64]*customers.Customer
	sales     []sales.Sale
	items     []sales.SaleItem
	users     map[int64]*auth.User
	idProduto int64
	idCliente int64
	idVenda   int64
	idUser    int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products: make(map[int64]*catalog.Product),
		clients:  make(map[int64]*customers.Customer),
		users:    make(map[int64]*auth.User),
	}
}

type catalogRepo struct{ s *memoryStore }

func (r catalogRepo) Get(ctx context.Context, id int64) (*catalog.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("produto %d: %w", id, shared.ErrNotFound)
	}
	clone := *p
	return &clone, nil
}

func (r catalogRepo) List(ctx context.Context, search string) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.s.products {
		if search == "" || strings.Contains(strings.ToLower(p.Nome), strings.ToLower(search)) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r catalogRepo) Create(ctx context.Context, p catalog.Product) (int64, error) {
	r.s.idProduto++
	p.ID = r.s.idProduto
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.s.products[p.ID] = &p
	return p.ID, nil
}

func (r catalogRepo) Update(ctx context.Context, id int64, p catalog.Product, replaceImage bool) error {
	existing, ok := r.s.products[id]
	if !ok {
		return fmt.Errorf("produto %d: %w", id, shared.ErrNotFound)
	}
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	if !replaceImage {
		p.Imagem = existing.Imagem
	}
	r.s.products[id] = &p
	return nil
}

func (r catalogRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.products[id]; !ok {
		return fmt.Errorf("produto %d: %w", id, shared.ErrNotFound)
	}
	delete(r.s.products, id)
	// vendas_itens.produto_id is ON DELETE SET NULL; the snapshot columns stay.
	for i := range r.s.items {
		if r.s.items[i].ProdutoID != nil && *r.s.items[i].ProdutoID == id {
			r.s.items[i].ProdutoID = nil
		}
	}
	return nil
}

func (r catalogRepo) Count(ctx context.Context) (int, error) {
	return len(r.s.products), nil
}

func (r catalogRepo) ListBelowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.s.products {
		if p.EstoqueAtual < threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

type customersRepo struct{ s *memoryStore }

func (r customersRepo) Get(ctx context.Context, id int64) (*customers.Customer, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return nil, fmt.Errorf("cliente %d: %w", id, shared.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

func (r customersRepo) List(ctx context.Context, search string) ([]customers.Customer, error) {
	var out []customers.Customer
	for _, c := range r.s.clients {
		if search == "" || strings.Contains(strings.ToLower(c.Nome), strings.ToLower(search)) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r customersRepo) Create(ctx context.Context, c customers.Customer) (int64, error) {
	r.s.idCliente++
	c.ID = r.s.idCliente
	c.CreatedAt = time.Now()
	r.s.clients[c.ID] = &c
	return c.ID, nil
}

func (r customersRepo) Update(ctx context.Context, id int64, c customers.Customer) error {
	existing, ok := r.s.clients[id]
	if !ok {
		return fmt.Errorf("cliente %d: %w", id, shared.ErrNotFound)
	}
	c.ID = id
	c.CreatedAt = existing.CreatedAt
	c.TotalComprado = existing.TotalComprado
	c.UltimaCompra = existing.UltimaCompra
	r.s.clients[id] = &c
	return nil
}

func (r customersRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.clients[id]; !ok {
		return fmt.Errorf("cliente %d: %w", id, shared.ErrNotFound)
	}
	delete(r.s.clients, id)
	return nil
}

type salesRepo struct{ s *memoryStore }

func (r salesRepo) WithTx(ctx context.Context, fn func(context.Context, sales.TxRepository) error) error {
	return fn(ctx, r)
}

func (r salesRepo) GetProductForSale(ctx context.Context, produtoID int64) (sales.ProductSnapshot, error) {
	p, ok := r.s.products[produtoID]
	if !ok {
		return sales.ProductSnapshot{}, fmt.Errorf("produto %d: %w", produtoID, shared.ErrNotFound)
	}
	return sales.ProductSnapshot{ID: p.ID, Nome: p.Nome, PrecoVenda: p.PrecoVenda, PrecoCusto: p.PrecoCusto}, nil
}

func (r salesRepo) DecrementStock(ctx context.Context, produtoID int64, qty int) error {
	p, ok := r.s.products[produtoID]
	if !ok || p.EstoqueAtual < qty {
		return fmt.Errorf("produto %d: %w", produtoID, shared.ErrInsufficientStock)
	}
	p.EstoqueAtual -= qty
	return nil
}

func (r salesRepo) InsertSale(ctx context.Context, sale sales.Sale) (int64, error) {
	r.s.idVenda++
	sale.ID = r.s.idVenda
	// data_venda defaults to NOW() in the real table.
	if sale.DataVenda.IsZero() {
		sale.DataVenda = time.Now()
	}
	r.s.sales = append(r.s.sales, sale)
	return sale.ID, nil
}

func (r salesRepo) InsertItem(ctx context.Context, item sales.SaleItem) error {
	r.s.items = append(r.s.items, item)
	return nil
}

func (r salesRepo) TouchCustomer(ctx context.Context, clienteID int64, amount float64, when time.Time) error {
	c, ok := r.s.clients[clienteID]
	if !ok {
		return fmt.Errorf("cliente %d: %w", clienteID, shared.ErrNotFound)
	}
	c.TotalComprado += amount
	c.UltimaCompra = &when
	return nil
}

func (r salesRepo) Get(ctx context.Context, id int64) (*sales.Sale, error) {
	for i := range r.s.sales {
		if r.s.sales[i].ID == id {
			sale := r.s.sales[i]
			for _, item := range r.s.items {
				if item.VendaID == id {
					sale.Itens = append(sale.Itens, item)
				}
			}
			return &sale, nil
		}
	}
	return nil, fmt.Errorf("venda %d: %w", id, shared.ErrNotFound)
}

func (r salesRepo) List(ctx context.Context, since *time.Time) ([]sales.Sale, error) {
	var out []sales.Sale
	for _, s := range r.s.sales {
		if since == nil || !s.DataVenda.Before(*since) {
			out = append(out, s)
		}
	}
	return out, nil
}

type reportsRepo struct{ s *memoryStore }

func (r reportsRepo) SalesTotals(ctx context.Context, from time.Time) (float64, float64, error) {
	var total, lucro float64
	for _, s := range r.s.sales {
		if s.Status == sales.StatusConcluida && !s.DataVenda.Before(from) {
			total += s.Total
			lucro += s.Lucro
		}
	}
	return total, lucro, nil
}

func (r reportsRepo) ProductCount(ctx context.Context) (int, error) {
	return len(r.s.products), nil
}

func (r reportsRepo) PendingCount(ctx context.Context) (int, error) {
	count := 0
	for _, s := range r.s.sales {
		if s.Status == sales.StatusPendente {
			count++
		}
	}
	return count, nil
}

func (r reportsRepo) DailySales(ctx context.Context, from time.Time) ([]reports.DailySale, error) {
	byDay := make(map[string]*reports.DailySale)
	for _, s := range r.s.sales {
		if s.Status != sales.StatusConcluida || s.DataVenda.Before(from) {
			continue
		}
		dia := s.DataVenda.UTC().Format("2006-01-02")
		row, ok := byDay[dia]
		if !ok {
			row = &reports.DailySale{Dia: dia}
			byDay[dia] = row
		}
		row.TotalVendido += s.Total
		row.Lucro += s.Lucro
		row.Quantidade++
	}
	var out []reports.DailySale
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dia < out[j].Dia })
	return out, nil
}

func (r reportsRepo) TopProducts(ctx context.Context, from time.Time, limit int) ([]reports.TopProduct, error) {
	byName := make(map[string]*reports.TopProduct)
	for _, item := range r.s.items {
		t, ok := byName[item.ProdutoNome]
		if !ok {
			t = &reports.TopProduct{Nome: item.ProdutoNome}
			byName[item.ProdutoNome] = t
		}
		t.Quantidade += item.Quantidade
		t.TotalVendido += item.Subtotal
	}
	var out []reports.TopProduct
	for _, t := range byName {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quantidade > out[j].Quantidade })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r reportsRepo) FinancialSummary(ctx context.Context, from *time.Time) (reports.FinancialSummary, error) {
	var summary reports.FinancialSummary
	for _, s := range r.s.sales {
		if s.Status != sales.StatusConcluida {
			continue
		}
		if from != nil && s.DataVenda.Before(*from) {
			continue
		}
		summary.TotalVendas++
		summary.ReceitaTotal += s.Total
		summary.CustoTotal += s.CustoTotal
		summary.LucroTotal += s.Lucro
	}
	return summary, nil
}

type usersRepo struct{ s *memoryStore }

func (r usersRepo) Create(ctx context.Context, nome, email, senhaHash string) (int64, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return 0, fmt.Errorf("email %s: %w", email, shared.ErrDuplicateEmail)
		}
	}
	r.s.idUser++
	r.s.users[r.s.idUser] = &auth.User{ID: r.s.idUser, Nome: nome, Email: email, SenhaHash: senhaHash, CreatedAt: time.Now()}
	return r.s.idUser, nil
}

func (r usersRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r usersRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r usersRepo) UpdatePassword(ctx context.Context, id int64, senhaHash string) error {
	u, ok := r.s.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.SenhaHash = senhaHash
	return nil
}
