package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"barter-auth/internal/domain"
)

// AccountRepository define el contrato de persistencia para cuentas.
type AccountRepository interface {
	// CreateWithProfile inserta la cuenta y su perfil en una sola transaccion.
	CreateWithProfile(ctx context.Context, account domain.Account, profile domain.ProfileDetails) error
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByLoginName(ctx context.Context, loginName string) (domain.Account, error)
	// GetByIdentifier busca por email o por login name.
	GetByIdentifier(ctx context.Context, identifier string) (domain.Account, error)
	MarkEmailVerified(ctx context.Context, id string) error
}

// PgAccountRepository implementa AccountRepository usando pgx.
type PgAccountRepository struct {
	db DB
}

func NewPgAccountRepository(db DB) *PgAccountRepository {
	return &PgAccountRepository{db: db}
}

const accountColumns = `id, login_name, email, password_hash, is_email_verified, created_at`

func (r *PgAccountRepository) CreateWithProfile(ctx context.Context, account domain.Account, profile domain.ProfileDetails) error {
	const insertAccount = `
		INSERT INTO accounts (id, login_name, email, password_hash, is_email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertAccount,
			account.ID,
			account.LoginName,
			account.Email,
			account.PasswordHash,
			account.IsEmailVerified,
			account.CreatedAt,
		); err != nil {
			if taken := uniqueViolation(err); taken != nil {
				return taken
			}
			return oops.Code("ACCOUNT_CREATE_FAILED").
				With("operation", "insert account").
				With("login_name", account.LoginName).
				Wrap(err)
		}

		if _, err := tx.Exec(ctx, insertProfileQuery, profileArgs(profile)...); err != nil {
			return oops.Code("ACCOUNT_CREATE_FAILED").
				With("operation", "insert profile details").
				With("account_id", account.ID).
				Wrap(err)
		}
		return nil
	})
}

func (r *PgAccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return r.scan(row, "id", id)
}

func (r *PgAccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return r.scan(row, "email", email)
}

func (r *PgAccountRepository) GetByLoginName(ctx context.Context, loginName string) (domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE login_name = $1`, loginName)
	return r.scan(row, "login_name", loginName)
}

func (r *PgAccountRepository) GetByIdentifier(ctx context.Context, identifier string) (domain.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = LOWER($1) OR login_name = $1
		ORDER BY (email = LOWER($1)) DESC
		LIMIT 1
	`
	row := r.db.QueryRow(ctx, query, identifier)
	return r.scan(row, "identifier", identifier)
}

func (r *PgAccountRepository) MarkEmailVerified(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET is_email_verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return oops.Code("ACCOUNT_VERIFY_FAILED").
			With("operation", "mark email verified").
			With("id", id).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").With("id", id).Wrap(ErrNotFound)
	}
	return nil
}

func (r *PgAccountRepository) scan(row pgx.Row, key, value string) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.LoginName,
		&a.Email,
		&a.PasswordHash,
		&a.IsEmailVerified,
		&a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, oops.Code("ACCOUNT_NOT_FOUND").With(key, value).Wrap(ErrNotFound)
	}
	if err != nil {
		return domain.Account{}, oops.Code("ACCOUNT_GET_FAILED").
			With("operation", "get account by "+key).
			With(key, value).
			Wrap(err)
	}
	return a, nil
}
