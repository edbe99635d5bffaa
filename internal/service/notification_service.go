package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/villageflow/villageflow-api/internal/models"
	"github.com/villageflow/villageflow-api/pkg/jobs"
)

const jobTypeApprovalNotice = "application.approved"

// ApprovalNoticePayload carries everything the sender needs; the job
// never re-reads the database.
type ApprovalNoticePayload struct {
	ApplicationID   string
	OwnerID         string
	SubjectName     string
	SubjectNIC      string
	CertificateType models.CertificateType
	ApprovedAt      time.Time
}

// NoticeSender delivers an approval notification. The default sender
// only logs; a mail collaborator can be swapped in.
type NoticeSender interface {
	Send(ctx context.Context, payload ApprovalNoticePayload) error
}

// NoticeSenderFunc allows using plain functions.
type NoticeSenderFunc func(ctx context.Context, payload ApprovalNoticePayload) error

// Send implements NoticeSender.
func (f NoticeSenderFunc) Send(ctx context.Context, payload ApprovalNoticePayload) error {
	return f(ctx, payload)
}

// NotificationService dispatches approval notifications on the in-memory
// jobs queue. Delivery is fire-and-forget: a failed send never affects
// the review decision that triggered it.
type NotificationService struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NotificationConfig configures queue behaviour.
type NotificationConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// NewNotificationService builds the service and its queue. Call Start
// before enqueuing and Stop on shutdown.
func NewNotificationService(sender NoticeSender, logger *zap.Logger, cfg NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = NoticeSenderFunc(func(_ context.Context, payload ApprovalNoticePayload) error {
			logger.Info("certificate approval notice",
				zap.String("application_id", payload.ApplicationID),
				zap.String("subject_nic", payload.SubjectNIC))
			return nil
		})
	}

	svc := &NotificationService{logger: logger}
	handler := func(ctx context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(ApprovalNoticePayload)
		if !ok {
			return fmt.Errorf("unexpected payload type for job %s", job.ID)
		}
		return sender.Send(ctx, payload)
	}
	svc.queue = jobs.NewQueue("notifications", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return svc
}

// Start launches the queue workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// NotifyApproval enqueues an approval notice. Enqueue failures are
// logged and swallowed.
func (s *NotificationService) NotifyApproval(app *models.Application) {
	if s == nil || app == nil {
		return
	}
	approvedAt := time.Now().UTC()
	if app.ReviewedAt != nil {
		approvedAt = *app.ReviewedAt
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:   uuid.NewString(),
		Type: jobTypeApprovalNotice,
		Payload: ApprovalNoticePayload{
			ApplicationID:   app.ID,
			OwnerID:         app.OwnerID,
			SubjectName:     app.SubjectName,
			SubjectNIC:      app.SubjectNIC,
			CertificateType: app.CertificateType,
			ApprovedAt:      approvedAt,
		},
	})
	if err != nil {
		s.logger.Warn("failed to enqueue approval notice",
			zap.String("application_id", app.ID), zap.Error(err))
	}
}
