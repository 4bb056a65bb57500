package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable
// con pool o tx). Los componentes de kit viven en kit_components y se cargan
// siempre junto con el producto.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, description, price, cost, tracking_mode, is_kit, created_at, updated_at`

// Create persiste el producto y, si es kit, sus componentes.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Description,
		product.Price, product.Cost, product.TrackingMode, product.IsKit,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return r.insertComponents(ctx, product)
}

func (r *ProductRepo) insertComponents(ctx context.Context, product *entity.Product) error {
	for _, c := range product.Components {
		query := `
			INSERT INTO kit_components (id, product_id, kind, component_id, quantity, unit_price, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err := r.q.Exec(ctx, query,
			c.ID, product.ID, c.Kind, c.ComponentID, c.Quantity, c.UnitPrice, c.Position,
		)
		if err != nil {
			return fmt.Errorf("create kit component: %w", err)
		}
	}
	return nil
}

// GetByID devuelve el producto con componentes cargados, o nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetBySKU devuelve el producto por SKU normalizado, o nil si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return r.getOne(ctx, query, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description,
		&p.Price, &p.Cost, &p.TrackingMode, &p.IsKit,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p.IsKit {
		if err := r.loadComponents(ctx, &p); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (r *ProductRepo) loadComponents(ctx context.Context, p *entity.Product) error {
	query := `
		SELECT id, kind, component_id, quantity, unit_price, position
		FROM kit_components WHERE product_id = $1
		ORDER BY position`
	rows, err := r.q.Query(ctx, query, p.ID)
	if err != nil {
		return fmt.Errorf("list kit components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		c := entity.KitComponent{ProductID: p.ID}
		if err := rows.Scan(&c.ID, &c.Kind, &c.ComponentID, &c.Quantity, &c.UnitPrice, &c.Position); err != nil {
			return fmt.Errorf("scan kit component: %w", err)
		}
		p.Components = append(p.Components, c)
	}
	return rows.Err()
}

// Update actualiza el producto y reemplaza sus componentes. Cost no se toca:
// lo fija UpdateCost desde el motor de movimientos.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if product.IsKit {
		if _, err := r.q.Exec(ctx, `DELETE FROM kit_components WHERE product_id = $1`, product.ID); err != nil {
			return fmt.Errorf("clear kit components: %w", err)
		}
		return r.insertComponents(ctx, product)
	}
	return nil
}

// UpdateCost actualiza solo el costo vigente (usado por el motor de inventario).
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	query := `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		err := rows.Scan(
			&p.ID, &p.SKU, &p.Name, &p.Description,
			&p.Price, &p.Cost, &p.TrackingMode, &p.IsKit,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.IsKit {
			if err := r.loadComponents(ctx, p); err != nil {
				return nil, err
			}
		}
	}
	return list, nil
}

// Delete elimina un producto por ID (los componentes caen por FK en cascada).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
