package repository

import (
	"context"

	"github.com/samber/oops"

	"barter-auth/internal/domain"
)

// NotificationRepository persiste notificaciones para el usuario.
type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) error
}

type PgNotificationRepository struct {
	db DB
}

func NewPgNotificationRepository(db DB) *PgNotificationRepository {
	return &PgNotificationRepository{db: db}
}

func (r *PgNotificationRepository) Create(ctx context.Context, n domain.Notification) error {
	const query = `
		INSERT INTO notifications (id, account_id, message, link, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		n.ID,
		n.AccountID,
		n.Message,
		n.Link,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		return oops.Code("NOTIFICATION_CREATE_FAILED").
			With("operation", "insert notification").
			With("account_id", n.AccountID).
			Wrap(err)
	}
	return nil
}
