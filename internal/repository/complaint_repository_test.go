package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/persistence"
)

func openTestStore(t *testing.T) (*pgxpool.Pool, Store) {
	t.Helper()
	dsn := os.Getenv("COMPLAINTS_PG_DSN")
	if dsn == "" {
		t.Skip("COMPLAINTS_PG_DSN not set; skipping postgres integration test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, filepath.Join("..", "..", "migrations"), zap.NewNop()))
	return pool, NewStore(pool)
}

func strPtr(s string) *string { return &s }

func newComplaint(name string, urgency int, station string) *domain.Complaint {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Complaint{
		Reference:     "CMP-" + uuid.NewString()[:8],
		PassengerName: name,
		Text:          "fan broken",
		Category:      domain.DefaultCategory,
		UrgencyScore:  urgency,
		Status:        domain.ComplaintStatusPending,
		Station:       strPtr(station),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestComplaintRepositoryRoundTrip(t *testing.T) {
	_, store := openTestStore(t)
	ctx := context.Background()
	repo := store.Complaints()

	c := newComplaint("Priya "+uuid.NewString(), 70, "Pune Junction")
	c.Provenance = []byte(`{"source":"heuristic"}`)
	require.NoError(t, repo.Create(ctx, c))
	require.NotEmpty(t, c.ID)

	loaded, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Reference, loaded.Reference)
	assert.Equal(t, 70, loaded.UrgencyScore)
	assert.Equal(t, domain.ComplaintStatusPending, loaded.Status)
	assert.JSONEq(t, `{"source":"heuristic"}`, string(loaded.Provenance))

	byRef, err := repo.GetByReference(ctx, c.Reference)
	require.NoError(t, err)
	assert.Equal(t, c.ID, byRef.ID)

	named, err := repo.ListByPassengerNames(ctx, []string{c.PassengerName})
	require.NoError(t, err)
	require.Len(t, named, 1)

	byStation, err := repo.ListByStationContext(ctx, "pune junction")
	require.NoError(t, err)
	ids := make([]string, 0, len(byStation))
	for _, s := range byStation {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, c.ID)
}

func TestComplaintRepositoryUpdateMissingRow(t *testing.T) {
	_, store := openTestStore(t)
	c := newComplaint("Nobody", 0, "X")
	c.ID = uuid.NewString()
	err := store.Complaints().Update(context.Background(), c)
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestStoreWithinTxRollsBack(t *testing.T) {
	_, store := openTestStore(t)
	ctx := context.Background()
	c := newComplaint("Rollback "+uuid.NewString(), 10, "Y")
	require.NoError(t, store.Complaints().Create(ctx, c))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(tx Store) error {
		locked, err := tx.Complaints().GetByIDForUpdate(ctx, c.ID)
		require.NoError(t, err)
		locked.Status = domain.ComplaintStatusInProgress
		locked.UpdatedAt = locked.UpdatedAt.Add(time.Microsecond)
		require.NoError(t, tx.Complaints().Update(ctx, locked))
		require.NoError(t, tx.History().Create(ctx, &domain.ComplaintHistory{
			ComplaintID: c.ID,
			OldStatus:   domain.ComplaintStatusPending,
			NewStatus:   domain.ComplaintStatusInProgress,
			UpdatedBy:   "asha",
			UpdatedAt:   locked.UpdatedAt,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	reloaded, err := store.Complaints().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusPending, reloaded.Status)

	history, err := store.History().ListByComplaint(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
