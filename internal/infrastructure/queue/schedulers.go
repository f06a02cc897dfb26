package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	offermodel "storefront-backend/internal/domains/offer/model"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/logger"
)

// Scheduler owns the recurring tasks the worker runs on cron.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress, Password: redisPassword, DB: redisDB},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs registers every recurring task.
func (s *Scheduler) RegisterJobs() error {
	return s.registerDeactivateExpiredCampaignsJob()
}

// ================================================
// JOB: Deactivate Expired Campaigns (Hourly)
// ================================================
// Hourly keeps the active set tidy without hammering the table. The
// evaluation path re-checks the window anyway, so this is hygiene, not
// correctness.
func (s *Scheduler) registerDeactivateExpiredCampaignsJob() error {
	payload, err := json.Marshal(offermodel.DeactivateExpiredPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeDeactivateExpiredCampaigns, payload)

	_, err = s.scheduler.Register(
		"0 * * * *", // Hourly at minute 0
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register DeactivateExpiredCampaigns job", err)
		return err
	}

	logger.Info("✓ Registered DeactivateExpiredCampaigns: hourly", map[string]interface{}{})
	return nil
}

// Start blocks until the scheduler stops.
func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
