// README: Postgres-backed account store tests; skipped unless CAREBOT_TEST_DSN is set.
package account

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carebot/internal/infra"
	"carebot/internal/types"
)

func TestStoreGetAndAddOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a, err := store.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "Emma de Vries", a.Name)
	require.Len(t, a.Orders, 2)
	require.Len(t, a.Invoices, 1)
	assert.Len(t, a.Invoices[0].Lines, 2)
	assert.Equal(t, int64(-500), a.Invoices[0].Lines[1].Amount.Amount)

	svc := NewService(store)
	id, err := svc.PlaceOrder(ctx, PlaceOrderCommand{AccountID: "user1", Product: types.ProductInternet, Plan: types.PlanFamily})
	require.NoError(t, err)

	a, err = store.Get(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, a.Orders, 3)
	found := false
	for _, o := range a.Orders {
		if o.ID == id {
			found = true
			assert.Equal(t, types.ProductInternet, o.ProductName)
			assert.Equal(t, StatusActive, o.Status)
		}
	}
	assert.True(t, found, "order %s not returned", id)
}

func TestStoreUnknownAccount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	err = store.AddOrder(ctx, "ghost", &Order{ID: "ORD-GHOST", ProductName: types.ProductSIM, Plan: types.PlanBasic, Status: StatusActive, InServiceDate: time.Now()})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

// setupTestStore creates a postgres-backed Store seeded with SampleAccounts.
// It skips the test when CAREBOT_TEST_DSN is not set.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("CAREBOT_TEST_DSN")
	if dsn == "" {
		t.Skip("CAREBOT_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "connect db")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, applyMigrations(ctx, db), "apply migrations")
	_, err = db.Exec(ctx, "TRUNCATE TABLE orders, incidents, invoices, accounts")
	require.NoError(t, err, "truncate")

	store := NewStore(db)
	require.NoError(t, store.Seed(ctx, SampleAccounts()), "seed")
	return store
}

func applyMigrations(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	return infra.Migrate(ctx, db, filepath.Join(root, "migrations"))
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
