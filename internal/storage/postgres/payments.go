package postgres

import (
	"context"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const paymentColumns = `id, job_id, freelancer_id, employer_id, amount, status, created_at, updated_at`

// PaymentRepo implements storage.PaymentRepository using PostgreSQL.
// There is no update or delete: payments are append-only.
type PaymentRepo struct {
	db Querier
}

var _ storage.PaymentRepository = (*PaymentRepo)(nil)

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(
		&p.ID,
		&p.JobID,
		&p.FreelancerID,
		&p.EmployerID,
		&p.Amount,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	query := `
		INSERT INTO payments (id, job_id, freelancer_id, employer_id, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + paymentColumns

	created, err := scanPayment(r.db.QueryRow(ctx, query,
		payment.ID,
		payment.JobID,
		payment.FreelancerID,
		payment.EmployerID,
		payment.Amount,
		payment.Status,
	))
	if err != nil {
		return nil, classifyError("create payment", err)
	}

	log.Printf("Payment %s recorded for job %s (%s, %s)", created.ID, created.JobID, created.Amount, created.Status)
	return created, nil
}

// ListByParty returns every payment where profileID is either side, newest first.
func (r *PaymentRepo) ListByParty(ctx context.Context, profileID uuid.UUID) ([]models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + ` FROM payments
		WHERE employer_id = $1 OR freelancer_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, classifyError("list payments", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, classifyError("scan payment", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("iterate payments", err)
	}
	return payments, nil
}
