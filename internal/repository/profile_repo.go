package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"barter-auth/internal/domain"
)

type ProfileRepository interface {
	// Upsert crea o actualiza el perfil de la cuenta; es seguro reintentarlo.
	// Nombres vacios conservan el valor guardado; el resto de los campos se reemplaza.
	Upsert(ctx context.Context, profile domain.ProfileDetails) (domain.ProfileDetails, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.ProfileDetails, error)
}

type PgProfileRepository struct {
	db DB
}

func NewPgProfileRepository(db DB) *PgProfileRepository {
	return &PgProfileRepository{db: db}
}

const insertProfileQuery = `
	INSERT INTO profile_details (
		id, account_id, first_name, second_name, address, headline,
		dob_day, dob_month, dob_year, phone_no, gender, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

func profileArgs(p domain.ProfileDetails) []any {
	return []any{
		p.ID,
		p.AccountID,
		p.FirstName,
		p.SecondName,
		p.Address,
		p.Headline,
		p.DobDay,
		p.DobMonth,
		p.DobYear,
		p.PhoneNo,
		p.Gender,
		p.CreatedAt,
		p.UpdatedAt,
	}
}

func (r *PgProfileRepository) Upsert(ctx context.Context, profile domain.ProfileDetails) (domain.ProfileDetails, error) {
	const query = insertProfileQuery + `
	ON CONFLICT (account_id) DO UPDATE SET
		first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), profile_details.first_name),
		second_name = COALESCE(NULLIF(EXCLUDED.second_name, ''), profile_details.second_name),
		address = EXCLUDED.address,
		headline = EXCLUDED.headline,
		dob_day = EXCLUDED.dob_day,
		dob_month = EXCLUDED.dob_month,
		dob_year = EXCLUDED.dob_year,
		phone_no = EXCLUDED.phone_no,
		gender = EXCLUDED.gender,
		updated_at = EXCLUDED.updated_at
	RETURNING id, first_name, second_name, created_at
	`
	err := r.db.QueryRow(ctx, query, profileArgs(profile)...).
		Scan(&profile.ID, &profile.FirstName, &profile.SecondName, &profile.CreatedAt)
	if err != nil {
		return domain.ProfileDetails{}, oops.Code("PROFILE_UPSERT_FAILED").
			With("operation", "upsert profile details").
			With("account_id", profile.AccountID).
			Wrap(err)
	}
	return profile, nil
}

func (r *PgProfileRepository) GetByAccountID(ctx context.Context, accountID string) (domain.ProfileDetails, error) {
	const query = `
		SELECT id, account_id, first_name, second_name, address, headline,
		       dob_day, dob_month, dob_year, phone_no, gender, created_at, updated_at
		FROM profile_details
		WHERE account_id = $1
	`
	var p domain.ProfileDetails
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&p.ID,
		&p.AccountID,
		&p.FirstName,
		&p.SecondName,
		&p.Address,
		&p.Headline,
		&p.DobDay,
		&p.DobMonth,
		&p.DobYear,
		&p.PhoneNo,
		&p.Gender,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProfileDetails{}, oops.Code("PROFILE_NOT_FOUND").With("account_id", accountID).Wrap(ErrNotFound)
	}
	if err != nil {
		return domain.ProfileDetails{}, oops.Code("PROFILE_GET_FAILED").
			With("operation", "get profile by account").
			With("account_id", accountID).
			Wrap(err)
	}
	return p, nil
}
