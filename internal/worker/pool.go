package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"barter-auth/internal/domain"
	"barter-auth/internal/email"
	"barter-auth/internal/observability"
)

const (
	defaultWorkers     = 4
	defaultMaxAttempts = 5
	defaultBaseDelay   = 200 * time.Millisecond
	maxDelay           = 30 * time.Second
)

// VerificationTokenIssuer firma el token que va en el link de verificacion.
type VerificationTokenIssuer interface {
	IssueVerificationToken(accountID string) (string, error)
}

// NotificationStore persiste notificaciones. Create debe ser idempotente por ID.
type NotificationStore interface {
	Create(ctx context.Context, n domain.Notification) error
}

type PoolConfig struct {
	Workers     int
	MaxAttempts int
	BaseDelay   time.Duration
	// LinkBase es el prefijo del link de verificacion; el token se concatena al final.
	LinkBase string
}

// Pool consume tareas de una Queue con N goroutines y reintenta con backoff exponencial.
type Pool struct {
	logger        *zap.Logger
	queue         Queue
	tokens        VerificationTokenIssuer
	sender        email.Sender
	notifications NotificationStore
	metrics       *observability.Metrics
	cfg           PoolConfig

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(
	logger *zap.Logger,
	queue Queue,
	tokens VerificationTokenIssuer,
	sender email.Sender,
	notifications NotificationStore,
	metrics *observability.Metrics,
	cfg PoolConfig,
) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	return &Pool{
		logger:        logger,
		queue:         queue,
		tokens:        tokens,
		sender:        sender,
		notifications: notifications,
		metrics:       metrics,
		cfg:           cfg,
	}
}

// Start lanza los workers. Llamar Stop para detenerlos.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
	p.logger.Info("worker pool started", zap.Int("workers", p.cfg.Workers))
}

// Stop cancela los workers y espera a que terminen.
func (p *Pool) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		task, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("dequeue task failed", zap.Error(err), zap.Int("worker", id))
			if !sleepCtx(ctx, p.cfg.BaseDelay) {
				return
			}
			continue
		}
		p.process(ctx, task)
	}
}

func (p *Pool) process(ctx context.Context, task Task) {
	backoff := retry.WithCappedDuration(maxDelay, retry.NewExponential(p.cfg.BaseDelay))
	backoff = retry.WithMaxRetries(uint64(p.cfg.MaxAttempts-1), backoff)

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := p.execute(ctx, task)
		if err == nil {
			return nil
		}
		var permanent permanentError
		if errors.As(err, &permanent) {
			return err
		}
		if attempt < p.cfg.MaxAttempts {
			p.metrics.RecordTask(task.Kind, observability.OutcomeRetried)
		}
		p.logger.Warn("task attempt failed",
			zap.Error(err),
			zap.String("task_id", task.ID),
			zap.String("kind", task.Kind),
			zap.Int("attempt", attempt),
		)
		return retry.RetryableError(err)
	})
	if err != nil {
		p.metrics.RecordTask(task.Kind, observability.OutcomeError)
		p.logger.Error("task failed",
			zap.Error(err),
			zap.String("task_id", task.ID),
			zap.String("kind", task.Kind),
			zap.Int("attempts", attempt),
		)
		return
	}
	p.metrics.RecordTask(task.Kind, observability.OutcomeSuccess)
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func (p *Pool) execute(ctx context.Context, task Task) error {
	switch task.Kind {
	case KindVerificationEmail:
		if task.Verification == nil {
			return permanentError{ErrEmptyPayload}
		}
		return p.sendVerification(ctx, *task.Verification)
	case KindNotification:
		if task.Notification == nil {
			return permanentError{ErrEmptyPayload}
		}
		if p.notifications == nil {
			return permanentError{errors.New("notification store not configured")}
		}
		return p.notifications.Create(ctx, *task.Notification)
	default:
		return permanentError{fmt.Errorf("%w: %q", ErrUnknownTask, task.Kind)}
	}
}

// El token se firma al ejecutar la tarea; si la firma falla no se envia nada.
func (p *Pool) sendVerification(ctx context.Context, msg domain.VerificationEmail) error {
	if p.tokens == nil || p.sender == nil {
		return permanentError{errors.New("verification mailer not configured")}
	}
	token, err := p.tokens.IssueVerificationToken(msg.AccountID)
	if err != nil {
		return permanentError{fmt.Errorf("sign verification token: %w", err)}
	}
	return p.sender.SendVerificationEmail(ctx, email.VerificationMessage{
		To:         msg.Email,
		FirstName:  msg.FirstName,
		SecondName: msg.SecondName,
		Link:       p.cfg.LinkBase + token,
	})
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
