package repository

import (
	"context"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintHistoryRepository stores audit entries. There is no update or delete.
type ComplaintHistoryRepository interface {
	Create(ctx context.Context, history *domain.ComplaintHistory) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.ComplaintHistory, error)
}

type complaintHistoryRepository struct {
	db DBTX
}

// NewComplaintHistoryRepository builds repository.
func NewComplaintHistoryRepository(db DBTX) ComplaintHistoryRepository {
	return &complaintHistoryRepository{db: db}
}

func (r *complaintHistoryRepository) Create(ctx context.Context, history *domain.ComplaintHistory) error {
	const query = `
        INSERT INTO complaint_history (complaint_id, old_status, new_status, updated_by, updated_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		history.ComplaintID,
		history.OldStatus,
		history.NewStatus,
		history.UpdatedBy,
		history.UpdatedAt,
	).Scan(&history.ID)
}

func (r *complaintHistoryRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.ComplaintHistory, error) {
	const query = `
        SELECT id, complaint_id, old_status, new_status, updated_by, updated_at
        FROM complaint_history WHERE complaint_id=$1 ORDER BY updated_at ASC`
	rows, err := r.db.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ComplaintHistory{}
	for rows.Next() {
		var history domain.ComplaintHistory
		if err := rows.Scan(
			&history.ID,
			&history.ComplaintID,
			&history.OldStatus,
			&history.NewStatus,
			&history.UpdatedBy,
			&history.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
