package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/identity"
	"github.com/spec-kit/complaint-service/internal/lifecycle"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/station"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// Enricher attaches department, urgency and provenance to a new complaint.
// Implementations absorb their own failures.
type Enricher interface {
	Enrich(ctx context.Context, c *domain.Complaint)
}

// IdentityLookup loads identities by username.
type IdentityLookup interface {
	GetByUsername(ctx context.Context, username string) (*domain.Identity, error)
}

// ComplaintService coordinates complaint intake and lifecycle workflows.
type ComplaintService struct {
	store      repository.Store
	identities IdentityLookup
	enricher   Enricher
	notifier   events.Notifier
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time

	notifyTimeout time.Duration
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	Store      repository.Store
	Identities IdentityLookup
	Enricher   Enricher
	Notifier   events.Notifier
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Clock      func() time.Time
	// NotifyTimeout bounds the post-create publish; zero uses
	// defaultNotifyTimeout.
	NotifyTimeout time.Duration
}

const defaultNotifyTimeout = 500 * time.Millisecond

// CreateComplaintInput describes a complaint as submitted by the filer.
type CreateComplaintInput struct {
	Text            string
	PassengerName   string
	PassengerPhone  *string
	TrainNumber     *string
	IncidentAt      *time.Time
	Station         *string
	PreviousStation *string
	NextStation     *string
	Category        string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	svc := &ComplaintService{
		store:      deps.Store,
		identities: deps.Identities,
		enricher:   deps.Enricher,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		now:        deps.Clock,

		notifyTimeout: deps.NotifyTimeout,
	}
	if svc.notifyTimeout <= 0 {
		svc.notifyTimeout = defaultNotifyTimeout
	}
	if svc.notifier == nil {
		svc.notifier = events.NopNotifier{}
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// CreateComplaint files a complaint, enriches it and announces it.
func (s *ComplaintService) CreateComplaint(ctx context.Context, input CreateComplaintInput, caller *string) (*domain.Complaint, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, apperrors.NewValidationError("complaint text is required", map[string]any{"field": "complaintText"})
	}

	id, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	res := identity.Resolve(id, input.PassengerName)

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultCategory
	}

	stationName := station.NormalizePtr(input.Station)
	if stationName == nil {
		stationName = station.NormalizePtr(res.Station)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	complaint := &domain.Complaint{
		Reference:       generateComplaintReference(),
		PassengerName:   res.DisplayName,
		PassengerPhone:  normalizePhone(input.PassengerPhone),
		CreatedBy:       res.Owner,
		Text:            text,
		TrainNumber:     trimmedOrNil(input.TrainNumber),
		IncidentAt:      input.IncidentAt,
		Category:        category,
		Status:          domain.ComplaintStatusPending,
		Station:         stationName,
		PreviousStation: station.NormalizePtr(input.PreviousStation),
		NextStation:     station.NormalizePtr(input.NextStation),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if s.enricher != nil {
		s.enricher.Enrich(ctx, complaint)
	}
	complaint.UrgencyScore = domain.ClampUrgency(complaint.UrgencyScore)

	if err := s.store.Complaints().Create(ctx, complaint); err != nil {
		return nil, err
	}
	s.publish(ctx, complaint.ID)
	return complaint, nil
}

// ListAll returns every complaint, most urgent first. Passenger-class callers
// only see their own complaints.
func (s *ComplaintService) ListAll(ctx context.Context, caller *string) ([]domain.Complaint, error) {
	id, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	if id != nil && id.Role.IsPassenger() {
		return s.listOwned(ctx, id)
	}
	return s.store.Complaints().ListAll(ctx)
}

// ListMine returns the caller's complaints, found by owner and by legacy
// passenger-name aliases. Anonymous callers get an empty list.
func (s *ComplaintService) ListMine(ctx context.Context, caller *string) ([]domain.Complaint, error) {
	id, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return []domain.Complaint{}, nil
	}
	return s.listOwned(ctx, id)
}

// ListByStation returns complaints whose itinerary touches the station. A
// blank station returns everything.
func (s *ComplaintService) ListByStation(ctx context.Context, stationName string) ([]domain.Complaint, error) {
	query := station.Normalize(stationName)
	if query == "" {
		return s.store.Complaints().ListAll(ctx)
	}
	complaints, err := s.store.Complaints().ListByStationContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return station.Filter(complaints, query), nil
}

// ListByDepartment returns complaints routed to department.
func (s *ComplaintService) ListByDepartment(ctx context.Context, department string) ([]domain.Complaint, error) {
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, apperrors.NewValidationError("department is required", map[string]any{"field": "department"})
	}
	return s.store.Complaints().ListByDepartment(ctx, department)
}

// ListByAssignee returns complaints assigned to the named staff member.
func (s *ComplaintService) ListByAssignee(ctx context.Context, assignee string) ([]domain.Complaint, error) {
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		return nil, apperrors.NewValidationError("staff name is required", map[string]any{"field": "staffName"})
	}
	return s.store.Complaints().ListByAssignee(ctx, assignee)
}

// GetComplaint loads a complaint by id.
func (s *ComplaintService) GetComplaint(ctx context.Context, id string) (*domain.Complaint, error) {
	if err := validComplaintID(id); err != nil {
		return nil, err
	}
	complaint, err := s.store.Complaints().GetByID(ctx, id)
	if err != nil {
		return nil, complaintError(err, id)
	}
	return complaint, nil
}

// TrackByReference loads a complaint by its public reference.
func (s *ComplaintService) TrackByReference(ctx context.Context, reference string) (*domain.Complaint, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, apperrors.NewValidationError("reference is required", map[string]any{"field": "reference"})
	}
	complaint, err := s.store.Complaints().GetByReference(ctx, reference)
	if err != nil {
		return nil, complaintError(err, reference)
	}
	return complaint, nil
}

// ListHistory returns the audit trail of a complaint, oldest first.
func (s *ComplaintService) ListHistory(ctx context.Context, id string) ([]domain.ComplaintHistory, error) {
	if err := validComplaintID(id); err != nil {
		return nil, err
	}
	if _, err := s.store.Complaints().GetByID(ctx, id); err != nil {
		return nil, complaintError(err, id)
	}
	return s.store.History().ListByComplaint(ctx, id)
}

// Assign hands a complaint to a staff member.
func (s *ComplaintService) Assign(ctx context.Context, id, assignee string, remarks *string) (*domain.Complaint, error) {
	if strings.TrimSpace(assignee) == "" {
		return nil, apperrors.NewValidationError("staff name is required", map[string]any{"field": "staffName"})
	}
	return s.mutate(ctx, id, func(c *domain.Complaint, now time.Time) (*domain.ComplaintHistory, error) {
		lifecycle.Assign(c, assignee, remarks, now)
		return nil, nil
	})
}

// UpdateStatus moves a complaint to status on behalf of caller and appends
// an audit entry in the same transaction.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, caller *string) (*domain.Complaint, error) {
	if err := validComplaintID(id); err != nil {
		return nil, err
	}
	actor, err := s.lookupIdentity(ctx, caller)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperrors.NewUnauthorized("acting user could not be resolved")
	}
	return s.mutate(ctx, id, func(c *domain.Complaint, now time.Time) (*domain.ComplaintHistory, error) {
		return lifecycle.Transition(c, status, actor, now)
	})
}

// UpdateRemarks replaces the staff remarks on a complaint.
func (s *ComplaintService) UpdateRemarks(ctx context.Context, id, remarks string) (*domain.Complaint, error) {
	return s.mutate(ctx, id, func(c *domain.Complaint, now time.Time) (*domain.ComplaintHistory, error) {
		lifecycle.UpdateRemarks(c, remarks, now)
		return nil, nil
	})
}

// mutate locks the complaint row, applies fn and writes the complaint plus
// the optional history entry fn returns, all in one transaction.
func (s *ComplaintService) mutate(ctx context.Context, id string, fn func(c *domain.Complaint, now time.Time) (*domain.ComplaintHistory, error)) (*domain.Complaint, error) {
	if err := validComplaintID(id); err != nil {
		return nil, err
	}
	var updated *domain.Complaint
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		complaint, err := tx.Complaints().GetByIDForUpdate(ctx, id)
		if err != nil {
			return complaintError(err, id)
		}
		entry, err := fn(complaint, s.now())
		if err != nil {
			return err
		}
		if err := tx.Complaints().Update(ctx, complaint); err != nil {
			return err
		}
		if entry != nil {
			if err := tx.History().Create(ctx, entry); err != nil {
				return err
			}
		}
		updated = complaint
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ComplaintService) listOwned(ctx context.Context, id *domain.Identity) ([]domain.Complaint, error) {
	owned, err := s.store.Complaints().ListByOwner(ctx, id.Username)
	if err != nil {
		return nil, err
	}
	aliased, err := s.store.Complaints().ListByPassengerNames(ctx, identity.Aliases(id))
	if err != nil {
		return nil, err
	}
	return identity.MergeByID(owned, aliased), nil
}

// lookupIdentity resolves the caller's username. Anonymous callers and
// usernames unknown to the identity provider resolve to nil.
func (s *ComplaintService) lookupIdentity(ctx context.Context, caller *string) (*domain.Identity, error) {
	if caller == nil || strings.TrimSpace(*caller) == "" || s.identities == nil {
		return nil, nil
	}
	id, err := s.identities.GetByUsername(ctx, strings.TrimSpace(*caller))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return id, nil
}

// resolveCaller is lookupIdentity for ownership purposes: a caller unknown to
// the users table still owns what it files, under its token username.
func (s *ComplaintService) resolveCaller(ctx context.Context, caller *string) (*domain.Identity, error) {
	id, err := s.lookupIdentity(ctx, caller)
	if err != nil || id != nil {
		return id, err
	}
	if caller == nil || strings.TrimSpace(*caller) == "" {
		return nil, nil
	}
	return &domain.Identity{Username: strings.TrimSpace(*caller), Role: domain.RoleUnknown}, nil
}

func (s *ComplaintService) publish(ctx context.Context, complaintID string) {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	if err := s.notifier.Publish(ctx, complaintID); err != nil {
		s.metrics.RecordNotificationFailure()
		s.logger.Warn("complaint notification deferred",
			zap.String("complaint_id", complaintID),
			zap.Error(err),
		)
	}
}

func complaintError(err error, key string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("complaint", map[string]any{"id": key})
	}
	return err
}

// validComplaintID rejects ids the store could never hold.
func validComplaintID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("complaint", map[string]any{"id": id})
	}
	return nil
}

func generateComplaintReference() string {
	return "CMP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// normalizePhone strips all whitespace; blank numbers become nil.
func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	cleaned := strings.Join(strings.Fields(*phone), "")
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
