package dispatch

import (
	"context"
	"fmt"

	taskRepo "tasknotify/database/repository/task"
	userRepo "tasknotify/database/repository/user"
	"tasknotify/models"
	"tasknotify/services/push"
	"tasknotify/services/reminder"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDispatchService is the production implementation.
type DefaultDispatchService struct {
	Users     userRepo.UserRepository
	Tasks     taskRepo.TaskRepository
	Sender    push.Sender
	Reminders reminder.Scheduler
	Logger    *zap.Logger
}

func NewDefaultDispatchService(
	users userRepo.UserRepository,
	tasks taskRepo.TaskRepository,
	sender push.Sender,
	reminders reminder.Scheduler,
	logger *zap.Logger,
) (*DefaultDispatchService, error) {
	if users == nil || tasks == nil || sender == nil {
		return nil, fmt.Errorf("dispatch service initialization error: missing repository or sender")
	}
	if logger == nil {
		logger = zap.L()
	}
	return &DefaultDispatchService{
		Users:     users,
		Tasks:     tasks,
		Sender:    sender,
		Reminders: reminders,
		Logger:    logger,
	}, nil
}

// Handle routes a change event to the matching lifecycle handler.
func (s *DefaultDispatchService) Handle(ctx context.Context, ev *models.ChangeEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	switch ev.Kind {
	case models.TaskCreated:
		return s.HandleCreate(ctx, ev)
	case models.TaskUpdated:
		return s.HandleUpdate(ctx, ev)
	case models.TaskDeleted:
		return s.HandleDelete(ctx, ev)
	default:
		return fmt.Errorf("unknown change kind %q", ev.Kind)
	}
}

// HandleCreate notifies the owner of a freshly created task.
func (s *DefaultDispatchService) HandleCreate(ctx context.Context, ev *models.ChangeEvent) error {
	task := ev.After
	logger := s.invocationLogger(ev)
	logger.Info("new task created",
		zap.String("taskId", task.ID),
		zap.Int64("startDatetime", task.MetaData.StartDatetime),
	)

	user, err := s.Users.GetByID(task.User.ID)
	if err != nil {
		return fmt.Errorf("HandleCreate: could not load owner of task %s: %w", task.ID, err)
	}

	payload := BuildTaskPayload(models.TaskCreated, task, user)
	if err := s.sendAndReconcile(ctx, logger, user, payload); err != nil {
		return fmt.Errorf("HandleCreate: %w", err)
	}

	s.scheduleReminder(ctx, logger, task)
	return nil
}

// HandleUpdate notifies on significant updates only. The is_done_enabled
// write-back happens after the significance gate and before the user read, so
// the send always sees user state from after our own write. If the task
// changed owners, the previous owner receives a deleted-style retraction
// before the new owner is notified.
func (s *DefaultDispatchService) HandleUpdate(ctx context.Context, ev *models.ChangeEvent) error {
	previous, next := ev.Before, ev.After
	logger := s.invocationLogger(ev)

	if !SignificantChange(previous, next) {
		logger.Debug("suppressing insignificant task update", zap.String("taskId", next.ID))
		return nil
	}

	logger.Info("task updated",
		zap.String("taskId", next.ID),
		zap.Int64("startDatetime", next.MetaData.StartDatetime),
	)

	// Re-enable the client-side 'done' control. This triggers another update
	// event, which the significance gate above suppresses.
	if err := s.Tasks.SetDoneEnabled(ev.Household, ev.TaskID, true); err != nil {
		return fmt.Errorf("HandleUpdate: write-back for task %s failed: %w", next.ID, err)
	}

	if previous.User.ID != next.User.ID {
		if err := s.retractFromPreviousOwner(ctx, logger, previous); err != nil {
			return fmt.Errorf("HandleUpdate: %w", err)
		}
	}

	user, err := s.Users.GetByID(next.User.ID)
	if err != nil {
		return fmt.Errorf("HandleUpdate: could not load owner of task %s: %w", next.ID, err)
	}

	payload := BuildTaskPayload(models.TaskUpdated, next, user)
	if err := s.sendAndReconcile(ctx, logger, user, payload); err != nil {
		return fmt.Errorf("HandleUpdate: %w", err)
	}

	s.scheduleReminder(ctx, logger, next)
	return nil
}

// HandleDelete sends the sparse deletion payload so clients drop the task.
// The document is gone, so there is no write-back.
func (s *DefaultDispatchService) HandleDelete(ctx context.Context, ev *models.ChangeEvent) error {
	task := ev.Before
	logger := s.invocationLogger(ev)

	user, err := s.Users.GetByID(task.User.ID)
	if err != nil {
		return fmt.Errorf("HandleDelete: could not load owner of task %s: %w", task.ID, err)
	}

	logger.Info("task deleted",
		zap.String("taskId", task.ID),
		zap.String("userName", user.Name),
	)

	payload := BuildTaskPayload(models.TaskDeleted, task, user)
	if err := s.sendAndReconcile(ctx, logger, user, payload); err != nil {
		return fmt.Errorf("HandleDelete: %w", err)
	}
	return nil
}

// retractFromPreviousOwner tells the old owner's devices the task is no
// longer theirs, using the same sparse payload as a deletion.
func (s *DefaultDispatchService) retractFromPreviousOwner(ctx context.Context, logger *zap.Logger, previous *models.Task) error {
	prevUser, err := s.Users.GetByID(previous.User.ID)
	if err != nil {
		return fmt.Errorf("could not load previous owner of task %s: %w", previous.ID, err)
	}

	logger.Info("task reassigned, retracting from previous owner",
		zap.String("taskId", previous.ID),
		zap.String("previousUserId", prevUser.ID),
	)

	payload := BuildTaskPayload(models.TaskDeleted, previous, prevUser)
	return s.sendAndReconcile(ctx, logger, prevUser, payload)
}

// sendAndReconcile pushes the payload to every registered device and persists
// the surviving token list. The persist is unconditional; reconciliation is
// idempotent, so rewriting an unchanged list is harmless.
func (s *DefaultDispatchService) sendAndReconcile(ctx context.Context, logger *zap.Logger, user *models.User, data map[string]string) error {
	outcomes, err := s.Sender.Send(ctx, user.RegistrationTokens, data)
	if err != nil {
		return fmt.Errorf("failed to send push to user %s: %w", user.ID, err)
	}

	still := PruneInvalidTokens(logger, user.RegistrationTokens, outcomes)
	if err := s.Users.ReplaceRegistrationTokens(user.ID, still); err != nil {
		return fmt.Errorf("failed to persist tokens for user %s: %w", user.ID, err)
	}

	logger.Debug("tokens reconciled",
		zap.String("userId", user.ID),
		zap.Int("before", len(user.RegistrationTokens)),
		zap.Int("after", len(still)),
	)
	return nil
}

// scheduleReminder enqueues a start-time reminder when the task starts in the
// future. Scheduling failures never fail the dispatch; the notification
// itself already went out.
func (s *DefaultDispatchService) scheduleReminder(ctx context.Context, logger *zap.Logger, task *models.Task) {
	if s.Reminders == nil {
		return
	}
	if err := s.Reminders.ScheduleStartReminder(ctx, task); err != nil {
		logger.Warn("failed to schedule start reminder",
			zap.String("taskId", task.ID),
			zap.Error(err),
		)
	}
}

func (s *DefaultDispatchService) invocationLogger(ev *models.ChangeEvent) *zap.Logger {
	eventID := ev.ID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	return s.Logger.With(
		zap.String("invocation", eventID),
		zap.String("kind", string(ev.Kind)),
		zap.String("household", ev.Household),
	)
}
