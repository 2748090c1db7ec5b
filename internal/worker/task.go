package worker

import (
	"context"
	"errors"

	"barter-auth/internal/domain"
)

const (
	KindVerificationEmail = "verification_email"
	KindNotification      = "notification"
)

var (
	ErrQueueFull    = errors.New("task queue full")
	ErrUnknownTask  = errors.New("unknown task kind")
	ErrEmptyPayload = errors.New("task payload missing")
)

// Task es una unidad de trabajo diferida. Solo uno de los payloads esta presente segun Kind.
type Task struct {
	ID           string                    `json:"id"`
	Kind         string                    `json:"kind"`
	Verification *domain.VerificationEmail `json:"verification,omitempty"`
	Notification *domain.Notification      `json:"notification,omitempty"`
}

// Queue transporta tareas entre quien las produce (request HTTP) y el Pool.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	// Dequeue bloquea hasta que haya una tarea o el contexto se cancele.
	Dequeue(ctx context.Context) (Task, error)
}

// MemoryQueue es una cola en proceso sobre un canal con buffer.
type MemoryQueue struct {
	tasks chan Task
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 256
	}
	return &MemoryQueue{tasks: make(chan Task, size)}
}

// Enqueue no bloquea: con el buffer lleno devuelve ErrQueueFull.
func (q *MemoryQueue) Enqueue(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (Task, error) {
	select {
	case task := <-q.tasks:
		return task, nil
	case <-ctx.Done():
		return Task{}, ctx.Err()
	}
}
