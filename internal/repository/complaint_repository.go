package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintRepository encapsulates complaint persistence. List methods return
// rows ordered by urgency, most urgent first.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Complaint, error)
	GetByReference(ctx context.Context, reference string) (*domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	ListByOwner(ctx context.Context, username string) ([]domain.Complaint, error)
	ListByPassengerNames(ctx context.Context, names []string) ([]domain.Complaint, error)
	ListByStationContext(ctx context.Context, station string) ([]domain.Complaint, error)
	ListByDepartment(ctx context.Context, department string) ([]domain.Complaint, error)
	ListByAssignee(ctx context.Context, assignee string) ([]domain.Complaint, error)
}

type complaintRepository struct {
	db DBTX
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(db DBTX) ComplaintRepository {
	return &complaintRepository{db: db}
}

const complaintColumns = `id, reference, passenger_name, passenger_phone, created_by_username, complaint_text,
               train_number, incident_at, category, department, urgency_score, status,
               station, previous_station, next_station, assigned_to, remarks,
               resolved_by, resolved_by_role, ai_metadata, created_at, updated_at`

const urgencyOrder = ` ORDER BY COALESCE(urgency_score, 0) DESC, created_at DESC`

func (r *complaintRepository) Create(ctx context.Context, c *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (reference, passenger_name, passenger_phone, created_by_username, complaint_text,
            train_number, incident_at, category, department, urgency_score, status,
            station, previous_station, next_station, assigned_to, remarks,
            resolved_by, resolved_by_role, ai_metadata, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		c.Reference,
		c.PassengerName,
		c.PassengerPhone,
		c.CreatedBy,
		c.Text,
		c.TrainNumber,
		c.IncidentAt,
		c.Category,
		c.Department,
		c.UrgencyScore,
		c.Status,
		c.Station,
		c.PreviousStation,
		c.NextStation,
		c.AssignedTo,
		c.Remarks,
		c.ResolvedBy,
		c.ResolvedByRole,
		jsonParam(c.Provenance),
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *complaintRepository) Update(ctx context.Context, c *domain.Complaint) error {
	const query = `
        UPDATE complaints SET category=$1, department=$2, urgency_score=$3, status=$4,
            assigned_to=$5, remarks=$6, resolved_by=$7, resolved_by_role=$8, ai_metadata=$9, updated_at=$10
        WHERE id=$11`
	cmd, err := r.db.Exec(ctx, query,
		c.Category,
		c.Department,
		c.UrgencyScore,
		c.Status,
		c.AssignedTo,
		c.Remarks,
		c.ResolvedBy,
		c.ResolvedByRole,
		jsonParam(c.Provenance),
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	return r.fetchSingle(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id=$1`, id)
}

func (r *complaintRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Complaint, error) {
	return r.fetchSingle(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id=$1 FOR UPDATE`, id)
}

func (r *complaintRepository) GetByReference(ctx context.Context, reference string) (*domain.Complaint, error) {
	return r.fetchSingle(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE reference=$1`, strings.ToUpper(strings.TrimSpace(reference)))
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	return r.list(ctx, `SELECT `+complaintColumns+` FROM complaints`+urgencyOrder)
}

func (r *complaintRepository) ListByOwner(ctx context.Context, username string) ([]domain.Complaint, error) {
	return r.list(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE created_by_username=$1`+urgencyOrder, username)
}

func (r *complaintRepository) ListByPassengerNames(ctx context.Context, names []string) ([]domain.Complaint, error) {
	if len(names) == 0 {
		return []domain.Complaint{}, nil
	}
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, strings.ToLower(n))
	}
	return r.list(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE LOWER(passenger_name) = ANY($1)`+urgencyOrder, lowered)
}

func (r *complaintRepository) ListByStationContext(ctx context.Context, station string) ([]domain.Complaint, error) {
	const where = `
        WHERE LOWER(REGEXP_REPLACE(TRIM(COALESCE(station, '')), '\s+', ' ', 'g')) = LOWER($1)
           OR LOWER(REGEXP_REPLACE(TRIM(COALESCE(previous_station, '')), '\s+', ' ', 'g')) = LOWER($1)
           OR LOWER(REGEXP_REPLACE(TRIM(COALESCE(next_station, '')), '\s+', ' ', 'g')) = LOWER($1)`
	return r.list(ctx, `SELECT `+complaintColumns+` FROM complaints`+where+urgencyOrder, station)
}

func (r *complaintRepository) ListByDepartment(ctx context.Context, department string) ([]domain.Complaint, error) {
	return r.list(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE LOWER(department)=LOWER($1)`+urgencyOrder, strings.TrimSpace(department))
}

func (r *complaintRepository) ListByAssignee(ctx context.Context, assignee string) ([]domain.Complaint, error) {
	return r.list(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE assigned_to=$1`+urgencyOrder, assignee)
}

func (r *complaintRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Complaint, error) {
	c, err := scanComplaint(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *complaintRepository) list(ctx context.Context, query string, args ...any) ([]domain.Complaint, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var (
		c       domain.Complaint
		urgency *int
		meta    []byte
	)
	if err := row.Scan(
		&c.ID,
		&c.Reference,
		&c.PassengerName,
		&c.PassengerPhone,
		&c.CreatedBy,
		&c.Text,
		&c.TrainNumber,
		&c.IncidentAt,
		&c.Category,
		&c.Department,
		&urgency,
		&c.Status,
		&c.Station,
		&c.PreviousStation,
		&c.NextStation,
		&c.AssignedTo,
		&c.Remarks,
		&c.ResolvedBy,
		&c.ResolvedByRole,
		&meta,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if urgency != nil {
		c.UrgencyScore = *urgency
	}
	if len(meta) > 0 {
		c.Provenance = meta
	}
	return &c, nil
}

func jsonParam(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
