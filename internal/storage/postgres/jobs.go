// internal/storage/postgres/jobs.go
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

const jobColumns = `id, employer_id, title, description, budget, required_skills, status, created_at, updated_at`

// JobRepo implements the storage.JobRepository interface using PostgreSQL.
type JobRepo struct {
	db Querier
}

// Compile-time check to ensure JobRepo implements JobRepository
var _ storage.JobRepository = (*JobRepo)(nil)

func scanJob(row pgx.Row) (*models.Job, error) {
	var job models.Job
	err := row.Scan(
		&job.ID,
		&job.EmployerID,
		&job.Title,
		&job.Description,
		&job.Budget,
		&job.RequiredSkills,
		&job.Status,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func collectJobs(rows pgx.Rows) ([]models.Job, error) {
	defer rows.Close()
	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Create saves a new job posting.
func (r *JobRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New() // Generate ID server-side
	}
	query := `
		INSERT INTO jobs (id, employer_id, title, description, budget, required_skills, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + jobColumns

	created, err := scanJob(r.db.QueryRow(ctx, query,
		job.ID,
		job.EmployerID,
		job.Title,
		job.Description,
		job.Budget,
		job.RequiredSkills,
		job.Status,
	))
	if err != nil {
		// A foreign key violation means employer_id doesn't exist
		log.Printf("Error creating job (employer_id: %s): %v\n", job.EmployerID, err)
		return nil, classifyError("create job", err)
	}

	log.Printf("Job created successfully with ID: %s", created.ID)
	return created, nil
}

// GetByID retrieves a specific job by its ID.
func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Job not found with ID: %s\n", id)
		}
		return nil, classifyError("get job", err)
	}
	return job, nil
}

// GetByIDs loads several jobs at once for assembling read views.
func (r *JobRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Job, error) {
	result := make(map[uuid.UUID]*models.Job, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, classifyError("get jobs", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, classifyError("scan jobs", err)
	}
	for i := range jobs {
		result[jobs[i].ID] = &jobs[i]
	}
	return result, nil
}

// List retrieves jobs matching the optional filters, newest first.
func (r *JobRepo) List(ctx context.Context, req *dto.ListJobsRequest) ([]models.Job, error) {
	baseQuery := `SELECT ` + jobColumns + ` FROM jobs`
	conditions := []string{}
	args := []interface{}{}

	if req.EmployerID != nil {
		args = append(args, *req.EmployerID)
		conditions = append(conditions, fmt.Sprintf("employer_id = $%d", len(args)))
	}
	if req.Status != nil {
		args = append(args, *req.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if req.Skill != "" {
		args = append(args, req.Skill)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(required_skills)", len(args)))
	}

	query := buildListQuery(baseQuery, conditions, &args, req.Offset, req.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error querying jobs: %v\n", err)
		return nil, classifyError("list jobs", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, classifyError("scan jobs", err)
	}
	return jobs, nil
}

// UpdateStatus moves a job from one status to another in a single conditional update.
func (r *JobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.JobStatus) (*models.Job, error) {
	query := `
		UPDATE jobs SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + jobColumns

	job, err := scanJob(r.db.QueryRow(ctx, query, id, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the job vanished or its status moved on underneath us.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("job %s is no longer %s: %w", id, from, storage.ErrConflict)
		}
		return nil, classifyError("update job status", err)
	}

	log.Printf("Job %s moved from %s to %s", id, from, to)
	return job, nil
}

func (r *JobRepo) CountByEmployer(ctx context.Context, employerID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE employer_id = $1`, employerID).Scan(&n); err != nil {
		return 0, classifyError("count jobs", err)
	}
	return n, nil
}
