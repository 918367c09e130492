package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
)

const orderColumns = `id, customer_id, menu_id, service_date, street, city, postal_code, phone, guest_count,
       unit_price, min_guests, subtotal, discount_amount, discount_applied, delivery_fee, distance_km,
       outside_base_zone, total_price, status, has_review, material_ready, created_at, updated_at,
       material_returned_at`

const loanColumns = `l.id, l.order_id, l.material_id, m.name, l.quantity, l.loaned_at, l.expected_return_at,
       l.returned_at, l.returned`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.MenuID, &o.ServiceDate,
		&o.Address.Street, &o.Address.City, &o.Address.PostalCode, &o.Address.Phone,
		&o.GuestCount,
		&o.Price.UnitPrice, &o.Price.MinGuests, &o.Price.Subtotal, &o.Price.DiscountAmount,
		&o.Price.DiscountApplied, &o.Price.DeliveryFee, &o.Price.DistanceKm, &o.Price.OutsideBaseZone,
		&o.Price.Total,
		&o.Status, &o.HasReview, &o.MaterialReady, &o.CreatedAt, &o.UpdatedAt, &o.MaterialReturnedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanLoan(row scanner) (model.MaterialLoan, error) {
	var l model.MaterialLoan
	err := row.Scan(&l.ID, &l.OrderID, &l.MaterialID, &l.MaterialName, &l.Quantity,
		&l.LoanedAt, &l.ExpectedReturnAt, &l.ReturnedAt, &l.Returned)
	return l, err
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, in repository.NewOrder) (*model.Order, error) {
	if in.Order == nil {
		return nil, domainErrors.Validation("order is required")
	}
	order := *in.Order
	order.Status = model.OrderStatusPending
	order.MaterialReady = len(in.Loans) > 0

	const insertOrder = `INSERT INTO orders (customer_id, menu_id, service_date, street, city, postal_code, phone,
                             guest_count, unit_price, min_guests, subtotal, discount_amount, discount_applied,
                             delivery_fee, distance_km, outside_base_zone, total_price, status, material_ready)
                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
                         RETURNING id, created_at, updated_at`

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE menus SET stock = stock - 1 WHERE id=$1 AND stock >= 1`, order.MenuID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrMenuOutOfStock
		}

		p := order.Price
		err = tx.QueryRow(ctx, insertOrder,
			order.CustomerID, order.MenuID, order.ServiceDate,
			order.Address.Street, order.Address.City, order.Address.PostalCode, order.Address.Phone,
			order.GuestCount, p.UnitPrice, p.MinGuests, p.Subtotal, p.DiscountAmount, p.DiscountApplied,
			p.DeliveryFee, p.DistanceKm, p.OutsideBaseZone, p.Total, string(order.Status), order.MaterialReady,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return mapError(err, domainErrors.ErrOrderNotFound)
		}

		if _, err := insertEvent(ctx, tx, order.ID, order.Status, order.CustomerID, nil); err != nil {
			return err
		}

		expected := model.ExpectedReturn(order.ServiceDate, order.CreatedAt)
		for _, item := range in.Loans {
			if err := lendMaterial(ctx, tx, order.ID, expected, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domainErrors.ErrOrderNotFound)
	}
	return order, nil
}

func (r *orderRepository) FindAllByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC, id DESC`
	return r.queryOrders(ctx, query, customerID)
}

func (r *orderRepository) FindByFilters(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.CustomerID > 0 {
		args = append(args, filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.ServiceDate != nil {
		d := *filter.ServiceDate
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		args = append(args, start, start.AddDate(0, 0, 1))
		conditions = append(conditions, fmt.Sprintf("service_date >= $%d AND service_date < $%d", len(args)-1, len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY service_date, id`
	return r.queryOrders(ctx, query, args...)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update writes the editable fields and the price snapshot of a PENDING order.
// Outstanding loans follow the service date.
func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	const query = `UPDATE orders SET service_date=$2, street=$3, city=$4, postal_code=$5, phone=$6, guest_count=$7,
                       unit_price=$8, min_guests=$9, subtotal=$10, discount_amount=$11, discount_applied=$12,
                       delivery_fee=$13, distance_km=$14, outside_base_zone=$15, total_price=$16, updated_at=NOW()
                   WHERE id=$1 AND status='PENDING'
                   RETURNING updated_at`
	const reschedule = `UPDATE material_loans SET expected_return_at=$2
                        WHERE order_id=$1 AND returned_at IS NULL AND expected_return_at <> $2`

	p := order.Price
	var updatedAt time.Time
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query,
			order.ID, order.ServiceDate,
			order.Address.Street, order.Address.City, order.Address.PostalCode, order.Address.Phone,
			order.GuestCount, p.UnitPrice, p.MinGuests, p.Subtotal, p.DiscountAmount, p.DiscountApplied,
			p.DeliveryFee, p.DistanceKm, p.OutsideBaseZone, p.Total,
		).Scan(&updatedAt)
		if err != nil {
			return mapError(err, domainErrors.ErrOrderLocked)
		}

		_, err = tx.Exec(ctx, reschedule, order.ID, model.ExpectedReturn(order.ServiceDate, updatedAt))
		return err
	})
	if err != nil {
		return err
	}
	order.UpdatedAt = updatedAt
	return nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, change repository.StatusChange) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		current, err := lockOrder(ctx, tx, change.OrderID)
		if err != nil {
			return err
		}
		if change.From != "" && current != change.From {
			return domainErrors.ErrOrderLocked
		}
		if !current.CanTransitionTo(change.Status) {
			return domainErrors.ErrInvalidTransition
		}

		const updateQuery = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1`
		if _, err := tx.Exec(ctx, updateQuery, change.OrderID, string(change.Status)); err != nil {
			return err
		}

		eventID, err := insertEvent(ctx, tx, change.OrderID, change.Status, change.ActorID, change.Comment)
		if err != nil {
			return err
		}

		if c := change.Cancellation; c != nil {
			const insertCancellation = `INSERT INTO order_cancellations (event_id, order_id, contact_mode, reason)
                                        VALUES ($1, $2, $3, $4)`
			if _, err := tx.Exec(ctx, insertCancellation, eventID, change.OrderID, string(c.ContactMode), c.Reason); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) SetMaterial(ctx context.Context, orderID int64, serviceDate time.Time, items []model.LoanItem) error {
	if len(items) == 0 {
		return domainErrors.ErrEmptyMaterialList
	}
	expected := model.ExpectedReturn(serviceDate, time.Now())

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		status, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if status.Terminal() {
			return domainErrors.ErrOrderClosed
		}

		for _, item := range items {
			if err := lendMaterial(ctx, tx, orderID, expected, item); err != nil {
				return err
			}
		}

		const markReady = `UPDATE orders SET material_ready=TRUE, material_returned_at=NULL, updated_at=NOW() WHERE id=$1`
		_, err = tx.Exec(ctx, markReady, orderID)
		return err
	})
}

// ReturnMaterial closes every outstanding loan of the order and reports how many were closed.
func (r *orderRepository) ReturnMaterial(ctx context.Context, orderID int64) (int, error) {
	var returned int
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := lockOrder(ctx, tx, orderID); err != nil {
			return err
		}

		const closeLoans = `UPDATE material_loans SET returned_at=NOW(), returned=TRUE
                            WHERE order_id=$1 AND returned_at IS NULL
                            RETURNING material_id, quantity`
		rows, err := tx.Query(ctx, closeLoans, orderID)
		if err != nil {
			return err
		}
		var items []model.LoanItem
		for rows.Next() {
			var item model.LoanItem
			if err := rows.Scan(&item.MaterialID, &item.Quantity); err != nil {
				rows.Close()
				return err
			}
			items = append(items, item)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, item := range items {
			if _, err := tx.Exec(ctx, `UPDATE materials SET stock = stock + $2 WHERE id=$1`, item.MaterialID, item.Quantity); err != nil {
				return err
			}
		}

		const stampOrder = `UPDATE orders SET material_returned_at=NOW(), updated_at=NOW()
                            WHERE id=$1 AND material_returned_at IS NULL
                              AND NOT EXISTS (SELECT 1 FROM material_loans WHERE order_id=$1 AND returned_at IS NULL)`
		if _, err := tx.Exec(ctx, stampOrder, orderID); err != nil {
			return err
		}
		returned = len(items)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return returned, nil
}

func (r *orderRepository) GetTimeline(ctx context.Context, orderID int64) ([]model.OrderStatusEvent, error) {
	const query = `SELECT e.id, e.order_id, e.status, e.actor_id, e.comment, e.created_at, c.contact_mode, c.reason
                   FROM order_status_events e
                   LEFT JOIN order_cancellations c ON c.event_id = e.id
                   WHERE e.order_id=$1
                   ORDER BY e.created_at, e.id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderStatusEvent
	for rows.Next() {
		var (
			e           model.OrderStatusEvent
			contactMode *string
			reason      *string
		)
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.ActorID, &e.Comment, &e.CreatedAt, &contactMode, &reason); err != nil {
			return nil, err
		}
		if contactMode != nil && reason != nil {
			e.Cancellation = &model.Cancellation{ContactMode: model.ContactMode(*contactMode), Reason: *reason}
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) GetMaterials(ctx context.Context, orderID int64) ([]model.MaterialLoan, error) {
	query := `SELECT ` + loanColumns + `
              FROM material_loans l JOIN materials m ON m.id = l.material_id
              WHERE l.order_id=$1
              ORDER BY l.id`
	return r.queryLoans(ctx, query, orderID)
}

// FindOverdueMaterials lists loans still out after their expected return.
func (r *orderRepository) FindOverdueMaterials(ctx context.Context, now time.Time) ([]model.MaterialLoan, error) {
	query := `SELECT ` + loanColumns + `
              FROM material_loans l JOIN materials m ON m.id = l.material_id
              WHERE l.returned_at IS NULL AND l.expected_return_at < $1
              ORDER BY l.expected_return_at, l.id`
	return r.queryLoans(ctx, query, now)
}

func (r *orderRepository) queryLoans(ctx context.Context, query string, args ...any) ([]model.MaterialLoan, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.MaterialLoan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- transaction helpers ---

func lockOrder(ctx context.Context, tx pgx.Tx, orderID int64) (model.OrderStatus, error) {
	var status model.OrderStatus
	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&status)
	if err != nil {
		return "", mapError(err, domainErrors.ErrOrderNotFound)
	}
	return status, nil
}

func insertEvent(ctx context.Context, tx pgx.Tx, orderID int64, status model.OrderStatus, actorID int64, comment *string) (int64, error) {
	const query = `INSERT INTO order_status_events (order_id, status, actor_id, comment)
                   VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	if err := tx.QueryRow(ctx, query, orderID, string(status), actorID, comment).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// lendMaterial decrements stock without letting it go negative and records the loan.
func lendMaterial(ctx context.Context, tx pgx.Tx, orderID int64, expectedReturn time.Time, item model.LoanItem) error {
	if item.Quantity <= 0 {
		return domainErrors.ErrInvalidQuantity
	}

	tag, err := tx.Exec(ctx, `UPDATE materials SET stock = stock - $2 WHERE id=$1 AND stock >= $2`, item.MaterialID, item.Quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM materials WHERE id=$1)`, item.MaterialID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domainErrors.ErrMaterialNotFound
		}
		return domainErrors.ErrInsufficientStock
	}

	const upsertLoan = `INSERT INTO material_loans (order_id, material_id, quantity, expected_return_at)
                        VALUES ($1, $2, $3, $4)
                        ON CONFLICT (order_id, material_id) DO UPDATE SET
                            quantity = CASE WHEN material_loans.returned_at IS NULL
                                            THEN material_loans.quantity + EXCLUDED.quantity
                                            ELSE EXCLUDED.quantity END,
                            loaned_at = NOW(),
                            expected_return_at = EXCLUDED.expected_return_at,
                            returned_at = NULL,
                            returned = FALSE`
	_, err = tx.Exec(ctx, upsertLoan, orderID, item.MaterialID, item.Quantity, expectedReturn)
	return err
}
