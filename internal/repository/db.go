package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrEmailTaken     = errors.New("email already taken")
	ErrLoginNameTaken = errors.New("login name already taken")
)

// Nombres de constraints definidos en las migraciones.
const (
	constraintAccountsEmail     = "accounts_email_key"
	constraintAccountsLoginName = "accounts_login_name_key"
)

// DB es el subconjunto de pgxpool.Pool que usan los repositorios.
// pgxmock.PgxPoolIface tambien lo satisface.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// withTx ejecuta fn dentro de una transaccion: commit si fn no falla, rollback en error o panic.
func withTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(tx)
	return err
}

// uniqueViolation traduce violaciones de unicidad de accounts a errores del repositorio.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case constraintAccountsEmail:
		return ErrEmailTaken
	case constraintAccountsLoginName:
		return ErrLoginNameTaken
	}
	return nil
}
