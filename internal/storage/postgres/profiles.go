package postgres

import (
	"context"
	"fmt"
	"strings"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const profileColumns = `id, email, full_name, role, bio, skills, avatar_url, created_at, updated_at`

// ProfileRepo implements the storage.ProfileRepository interface using PostgreSQL.
type ProfileRepo struct {
	db Querier
}

var _ storage.ProfileRepository = (*ProfileRepo)(nil)

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&p.Role,
		&p.Bio,
		&p.Skills,
		&p.AvatarURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return &p, nil
}

// Create inserts a profile. The ID must already be set to the auth identity ID.
func (r *ProfileRepo) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	skills := profile.Skills
	if skills == nil {
		skills = []string{}
	}
	query := `
		INSERT INTO profiles (id, email, full_name, role, bio, skills, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + profileColumns

	created, err := scanProfile(r.db.QueryRow(ctx, query,
		profile.ID,
		profile.Email,
		profile.FullName,
		profile.Role,
		profile.Bio,
		skills,
		profile.AvatarURL,
	))
	if err != nil {
		return nil, classifyError("create profile", err)
	}

	log.Printf("Profile created successfully with ID: %s", created.ID)
	return created, nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classifyError("get profile", err)
	}
	return p, nil
}

// GetByIDs loads several profiles at once for assembling read views.
func (r *ProfileRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	result := make(map[uuid.UUID]*models.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, classifyError("get profiles", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, classifyError("scan profile", err)
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("iterate profiles", err)
	}
	return result, nil
}

// Update applies the non-nil fields of req. Role is not updatable here.
func (r *ProfileRepo) Update(ctx context.Context, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	setClauses := []string{}
	args := []interface{}{}

	if req.FullName != nil {
		args = append(args, *req.FullName)
		setClauses = append(setClauses, fmt.Sprintf("full_name = $%d", len(args)))
	}
	if req.Bio != nil {
		args = append(args, *req.Bio)
		setClauses = append(setClauses, fmt.Sprintf("bio = $%d", len(args)))
	}
	if req.Skills != nil {
		skills := *req.Skills
		if skills == nil {
			skills = []string{}
		}
		args = append(args, skills)
		setClauses = append(setClauses, fmt.Sprintf("skills = $%d", len(args)))
	}
	if req.AvatarURL != nil {
		args = append(args, *req.AvatarURL)
		setClauses = append(setClauses, fmt.Sprintf("avatar_url = $%d", len(args)))
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, req.ID)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, req.ID)
	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), profileColumns)

	p, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, classifyError("update profile", err)
	}
	return p, nil
}
