package worker

import (
	"context"

	"github.com/google/uuid"

	"barter-auth/internal/domain"
)

// Dispatcher encola los efectos secundarios del registro y login en vez de ejecutarlos en el request.
type Dispatcher struct {
	queue Queue
}

func NewDispatcher(queue Queue) *Dispatcher {
	return &Dispatcher{queue: queue}
}

func (d *Dispatcher) SendVerificationEmail(ctx context.Context, msg domain.VerificationEmail) error {
	return d.queue.Enqueue(ctx, Task{
		ID:           uuid.NewString(),
		Kind:         KindVerificationEmail,
		Verification: &msg,
	})
}

func (d *Dispatcher) RecordNotification(ctx context.Context, n domain.Notification) error {
	return d.queue.Enqueue(ctx, Task{
		ID:           n.ID,
		Kind:         KindNotification,
		Notification: &n,
	})
}
