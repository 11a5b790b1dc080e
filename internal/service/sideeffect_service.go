package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hirelane/interview-booking-api/internal/models"
	"github.com/hirelane/interview-booking-api/pkg/jobs"
)

const (
	jobInterviewBooked      = "interview.booked"
	jobInterviewConfirmed   = "interview.confirmed"
	jobInterviewCancelled   = "interview.cancelled"
	jobInterviewRescheduled = "interview.rescheduled"
	jobInterviewCompleted   = "interview.completed"
)

type notifier interface {
	SendNotification(ctx context.Context, userID, message string) error
	SetApplicationStatus(ctx context.Context, applicationID, status string) error
}

// SideEffectService fans lifecycle transitions out to collaborators
// through an in-memory queue. Enqueue failures are logged and dropped;
// nothing here can fail a committed transition.
type SideEffectService struct {
	queue  *jobs.Queue
	client notifier
	logger *zap.Logger
}

// NewSideEffectService wires the queue around the collaborator client.
// A nil client produces a no-op service.
func NewSideEffectService(client notifier, cfg jobs.QueueConfig, logger *zap.Logger) *SideEffectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SideEffectService{client: client, logger: logger}
	if client != nil {
		cfg.Logger = logger
		s.queue = jobs.NewQueue("interview-side-effects", s.dispatch, cfg)
	}
	return s
}

// Start begins queue consumption.
func (s *SideEffectService) Start(ctx context.Context) {
	if s.queue != nil {
		s.queue.Start(ctx)
	}
}

// Stop drains the workers.
func (s *SideEffectService) Stop() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

func (s *SideEffectService) InterviewBooked(iv models.Interview)      { s.enqueue(jobInterviewBooked, iv) }
func (s *SideEffectService) InterviewConfirmed(iv models.Interview)   { s.enqueue(jobInterviewConfirmed, iv) }
func (s *SideEffectService) InterviewCancelled(iv models.Interview)   { s.enqueue(jobInterviewCancelled, iv) }
func (s *SideEffectService) InterviewRescheduled(iv models.Interview) { s.enqueue(jobInterviewRescheduled, iv) }
func (s *SideEffectService) InterviewCompleted(iv models.Interview)   { s.enqueue(jobInterviewCompleted, iv) }

func (s *SideEffectService) enqueue(jobType string, iv models.Interview) {
	if s.queue == nil {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobType,
		Payload: iv,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue side effect",
			zap.String("type", jobType), zap.String("interview_id", iv.ID), zap.Error(err))
	}
}

func (s *SideEffectService) dispatch(ctx context.Context, job jobs.Job) error {
	iv, ok := job.Payload.(models.Interview)
	if !ok {
		s.logger.Error("unexpected side effect payload", zap.String("type", job.Type))
		return nil
	}

	var msg string
	switch job.Type {
	case jobInterviewBooked:
		msg = fmt.Sprintf("Interview requested for %s %s-%s", iv.Date, iv.StartTime, iv.EndTime)
		if err := s.client.SetApplicationStatus(ctx, iv.ApplicationID, "INTERVIEW_REQUESTED"); err != nil {
			return err
		}
	case jobInterviewConfirmed:
		msg = fmt.Sprintf("Interview confirmed for %s %s-%s", iv.Date, iv.StartTime, iv.EndTime)
		if err := s.client.SetApplicationStatus(ctx, iv.ApplicationID, "INTERVIEW_SCHEDULED"); err != nil {
			return err
		}
	case jobInterviewCancelled:
		msg = fmt.Sprintf("Interview on %s %s-%s was cancelled", iv.Date, iv.StartTime, iv.EndTime)
	case jobInterviewRescheduled:
		msg = fmt.Sprintf("Interview moved to %s %s-%s", iv.Date, iv.StartTime, iv.EndTime)
	case jobInterviewCompleted:
		msg = fmt.Sprintf("Interview on %s has been completed", iv.Date)
	default:
		s.logger.Warn("unknown side effect type", zap.String("type", job.Type))
		return nil
	}

	if err := s.client.SendNotification(ctx, iv.JobseekerID, msg); err != nil {
		return err
	}
	return s.client.SendNotification(ctx, iv.EmployerID, msg)
}
