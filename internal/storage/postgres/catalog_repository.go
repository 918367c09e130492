package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

// --- MenuRepository implementation ---

func (r *menuRepository) FindByID(ctx context.Context, id int64) (*model.Menu, error) {
	const query = `SELECT id, title, unit_price, min_guests, stock FROM menus WHERE id=$1`
	var m model.Menu
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Title, &m.UnitPrice, &m.MinGuests, &m.Stock)
	if err != nil {
		return nil, mapError(err, domainErrors.ErrMenuNotFound)
	}

	const materialsQuery = `SELECT material_id, quantity FROM menu_materials WHERE menu_id=$1 ORDER BY material_id`
	rows, err := r.storage.pool.Query(ctx, materialsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var mm model.MenuMaterial
		if err := rows.Scan(&mm.MaterialID, &mm.Quantity); err != nil {
			return nil, err
		}
		m.Materials = append(m.Materials, mm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

// --- MaterialRepository implementation ---

func (r *materialRepository) FindByID(ctx context.Context, id int64) (*model.Material, error) {
	const query = `SELECT id, name, stock FROM materials WHERE id=$1`
	var m model.Material
	if err := r.storage.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Stock); err != nil {
		return nil, mapError(err, domainErrors.ErrMaterialNotFound)
	}
	return &m, nil
}

// --- CustomerRepository implementation ---

func (r *customerRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	const query = `SELECT id, email, first_name, last_name, phone FROM customers WHERE id=$1`
	var c model.Customer
	if err := r.storage.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Phone); err != nil {
		return nil, mapError(err, domainErrors.ErrNotFound)
	}
	return &c, nil
}
