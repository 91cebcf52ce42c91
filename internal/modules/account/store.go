// README: Account store backed by PostgreSQL.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carebot/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Account, error) {
	var a Account
	err := s.db.QueryRow(ctx, `
        SELECT id, name, phone_number
        FROM accounts
        WHERE id = $1`, string(id),
	).Scan(&a.ID, &a.Name, &a.PhoneNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	if a.Orders, err = s.listOrders(ctx, id); err != nil {
		return nil, err
	}
	if a.Incidents, err = s.listIncidents(ctx, id); err != nil {
		return nil, err
	}
	if a.Invoices, err = s.listInvoices(ctx, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// AddOrder inserts o in a transaction that holds a share lock on the account row.
func (s *Store) AddOrder(ctx context.Context, accountID types.ID, o *Order) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var found string
	err = tx.QueryRow(ctx, `SELECT id FROM accounts WHERE id = $1 FOR SHARE`, string(accountID)).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO orders (
            id, account_id, product_name, plan, status, in_service_date
        ) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(o.ID),
		string(accountID),
		string(o.ProductName),
		string(o.Plan),
		o.Status,
		o.InServiceDate,
	)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) listOrders(ctx context.Context, accountID types.ID) ([]Order, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, product_name, plan, status, in_service_date
        FROM orders
        WHERE account_id = $1
        ORDER BY in_service_date, created_at`, string(accountID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ProductName, &o.Plan, &o.Status, &o.InServiceDate); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *Store) listIncidents(ctx context.Context, accountID types.ID) ([]Incident, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, category, description, status, opened_at
        FROM incidents
        WHERE account_id = $1
        ORDER BY opened_at`, string(accountID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incidents := []Incident{}
	for rows.Next() {
		var inc Incident
		if err := rows.Scan(&inc.ID, &inc.Category, &inc.Description, &inc.Status, &inc.OpenedAt); err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

func (s *Store) listInvoices(ctx context.Context, accountID types.ID) ([]Invoice, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, period, amount, currency, status, lines
        FROM invoices
        WHERE account_id = $1
        ORDER BY period`, string(accountID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []Invoice{}
	for rows.Next() {
		var inv Invoice
		var lines []byte
		if err := rows.Scan(&inv.ID, &inv.Period, &inv.Amount.Amount, &inv.Amount.Currency, &inv.Status, &lines); err != nil {
			return nil, err
		}
		if len(lines) > 0 {
			if err := json.Unmarshal(lines, &inv.Lines); err != nil {
				return nil, fmt.Errorf("invoice %s lines: %w", inv.ID, err)
			}
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Seed upserts accounts with their incidents and invoices. Orders are inserted
// only when missing so committed orders survive a re-seed.
func (s *Store) Seed(ctx context.Context, accounts []Account) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, a := range accounts {
		if _, err := tx.Exec(ctx, `
            INSERT INTO accounts (id, name, phone_number) VALUES ($1, $2, $3)
            ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, phone_number = EXCLUDED.phone_number`,
			string(a.ID), a.Name, a.PhoneNumber,
		); err != nil {
			return fmt.Errorf("seed account %s: %w", a.ID, err)
		}
		for _, o := range a.Orders {
			if _, err := tx.Exec(ctx, `
                INSERT INTO orders (id, account_id, product_name, plan, status, in_service_date)
                VALUES ($1, $2, $3, $4, $5, $6)
                ON CONFLICT (id) DO NOTHING`,
				string(o.ID), string(a.ID), string(o.ProductName), string(o.Plan), o.Status, o.InServiceDate,
			); err != nil {
				return fmt.Errorf("seed order %s: %w", o.ID, err)
			}
		}
		for _, inc := range a.Incidents {
			if _, err := tx.Exec(ctx, `
                INSERT INTO incidents (id, account_id, category, description, status, opened_at)
                VALUES ($1, $2, $3, $4, $5, $6)
                ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status`,
				string(inc.ID), string(a.ID), inc.Category, inc.Description, inc.Status, inc.OpenedAt,
			); err != nil {
				return fmt.Errorf("seed incident %s: %w", inc.ID, err)
			}
		}
		for _, inv := range a.Invoices {
			invLines := inv.Lines
			if invLines == nil {
				invLines = []InvoiceLine{}
			}
			lines, err := json.Marshal(invLines)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `
                INSERT INTO invoices (id, account_id, period, amount, currency, status, lines)
                VALUES ($1, $2, $3, $4, $5, $6, $7)
                ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status`,
				string(inv.ID), string(a.ID), inv.Period, inv.Amount.Amount, inv.Amount.Currency, inv.Status, lines,
			); err != nil {
				return fmt.Errorf("seed invoice %s: %w", inv.ID, err)
			}
		}
	}
	return tx.Commit(ctx)
}
