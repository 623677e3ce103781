package profile

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/georgemunganga/retailops-backend/internal/platform/database"
	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL profile repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `id, email, password_hash, full_name, role, avatar_url, phone,
	address, city, postal_code, country, bio, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, full_name, role, country)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.Email, p.PasswordHash, p.FullName, p.Role, p.Country).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("email %s is already registered", p.Email)
	}
	return err
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no profile for %s", email)
	}
	return p, err
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Profile, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Invalid("invalid profile id: %s", id)
	}
	p, err := scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, parsedID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("profile %s not found", id)
	}
	return p, err
}

func (r *postgresRepository) Update(ctx context.Context, p *Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $1, avatar_url = $2, phone = $3, address = $4,
		    city = $5, postal_code = $6, country = $7, bio = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, p.FullName, p.AvatarURL, p.Phone, p.Address,
		p.City, p.PostalCode, p.Country, p.Bio, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("profile %s not found", p.ID)
	}
	return err
}

func scanProfile(row *sql.Row) (*Profile, error) {
	p := &Profile{}
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.PasswordHash,
		&p.FullName,
		&p.Role,
		&p.AvatarURL,
		&p.Phone,
		&p.Address,
		&p.City,
		&p.PostalCode,
		&p.Country,
		&p.Bio,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
