package postgres

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const applicationColumns = `id, job_id, freelancer_id, cover_letter, proposed_rate, status, created_at, updated_at`

// ApplicationRepo implements storage.ApplicationRepository using PostgreSQL.
type ApplicationRepo struct {
	db Querier
}

var _ storage.ApplicationRepository = (*ApplicationRepo)(nil)

func scanApplication(row pgx.Row) (*models.Application, error) {
	var app models.Application
	err := row.Scan(
		&app.ID,
		&app.JobID,
		&app.FreelancerID,
		&app.CoverLetter,
		&app.ProposedRate,
		&app.Status,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepo) list(ctx context.Context, op, column string, value uuid.UUID, limit, offset int) ([]models.Application, error) {
	args := []interface{}{value}
	query := buildListQuery(`SELECT `+applicationColumns+` FROM applications`,
		[]string{column + " = $1"}, &args, offset, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyError(op, err)
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, classifyError(op, err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError(op, err)
	}
	return apps, nil
}

// Create inserts a pending application. The unique index on (job_id, freelancer_id)
// makes concurrent duplicate submissions fail with storage.ErrDuplicate.
func (r *ApplicationRepo) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	query := `
		INSERT INTO applications (id, job_id, freelancer_id, cover_letter, proposed_rate, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + applicationColumns

	created, err := scanApplication(r.db.QueryRow(ctx, query,
		app.ID,
		app.JobID,
		app.FreelancerID,
		app.CoverLetter,
		app.ProposedRate,
		app.Status,
	))
	if err != nil {
		return nil, classifyError("create application", err)
	}

	log.Printf("Application %s created for job %s by freelancer %s", created.ID, created.JobID, created.FreelancerID)
	return created, nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		return nil, classifyError("get application", err)
	}
	return app, nil
}

func (r *ApplicationRepo) GetByJobAndFreelancer(ctx context.Context, jobID, freelancerID uuid.UUID) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 AND freelancer_id = $2`
	app, err := scanApplication(r.db.QueryRow(ctx, query, jobID, freelancerID))
	if err != nil {
		return nil, classifyError("get application by job and freelancer", err)
	}
	return app, nil
}

func (r *ApplicationRepo) ListByFreelancer(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.Application, error) {
	return r.list(ctx, "list applications by freelancer", "freelancer_id", req.FreelancerID, req.Limit, req.Offset)
}

func (r *ApplicationRepo) ListByJob(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.Application, error) {
	return r.list(ctx, "list applications by job", "job_id", req.JobID, req.Limit, req.Offset)
}

// UpdateStatus decides an application only if it is still in status from.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ApplicationStatus) (*models.Application, error) {
	query := `
		UPDATE applications SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRow(ctx, query, id, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("application %s is no longer %s: %w", id, from, storage.ErrConflict)
		}
		return nil, classifyError("update application status", err)
	}
	return app, nil
}

func (r *ApplicationRepo) CountByFreelancer(ctx context.Context, freelancerID uuid.UUID, status *models.ApplicationStatus) (int, error) {
	query := `SELECT COUNT(*) FROM applications WHERE freelancer_id = $1`
	args := []interface{}{freelancerID}
	if status != nil {
		args = append(args, *status)
		query += ` AND status = $2`
	}
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, classifyError("count applications", err)
	}
	return n, nil
}

func (r *ApplicationRepo) CountByEmployer(ctx context.Context, employerID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE j.employer_id = $1`
	var n int
	if err := r.db.QueryRow(ctx, query, employerID).Scan(&n); err != nil {
		return 0, classifyError("count received applications", err)
	}
	return n, nil
}
