package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"salonflow/config"
	appointmentRepo "salonflow/database/repository/appointment"
	"salonflow/models"
	"salonflow/services/notification"
	"salonflow/services/scheduling"
	"salonflow/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewTaskClient returns an asynq client for enqueueing scheduled work.
func NewTaskClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// InitSchedulerWorker runs the async worker and the periodic hold sweep in
// the background.
func InitSchedulerWorker(
	holds *scheduling.HoldManager,
	apptRepo appointmentRepo.AppointmentRepository,
	notifSvc notification.NotificationService,
) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(apptRepo, notifSvc))
	mux.HandleFunc(tasks.TypeHoldSweep, handleHoldSweepTask(holds))

	// Start Redis health monitor
	go monitorRedisConnection()

	go func() {
		log.Println("[SchedulerWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SchedulerWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SchedulerWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	startHoldSweepScheduler()
}

// startHoldSweepScheduler registers the recurring expired-hold sweep. The
// interval is validated at config load to be at most one hold TTL.
func startHoldSweepScheduler() {
	scheduler := asynq.NewScheduler(redisOpts(), nil)

	spec := fmt.Sprintf("@every %ds", config.AppConfig.HoldSweepIntervalSec)
	if _, err := scheduler.Register(spec, tasks.NewHoldSweepTask()); err != nil {
		log.Fatalf("[SchedulerWorker] failed to register hold sweep: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[SchedulerWorker] hold sweep scheduler stopped: %v", err)
		}
	}()
}

func handleHoldSweepTask(holds *scheduling.HoldManager) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		removed := holds.CleanupExpiredPreBookings()
		if removed > 0 {
			log.Printf("[HoldSweep] removed %d expired pre-bookings", removed)
		}
		return nil
	}
}

func handleReminderTask(apptRepo appointmentRepo.AppointmentRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		// The appointment may have been cancelled or moved since the task
		// was enqueued; stale reminders are dropped silently. A storage
		// fault is returned so asynq retries the task.
		appt, err := apptRepo.GetByID(ctx, p.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrNotFound) {
				log.Printf("[ReminderHandler] appointment %s gone, skipping", p.AppointmentID)
				return nil
			}
			return err
		}
		if !appt.Occupies() {
			return nil
		}

		data := map[string]string{
			"appointmentId": p.AppointmentID,
			"fireDate":      p.FireDate,
		}

		if err := notifSvc.SendStylistPush(ctx, p.StylistID, p.Title, p.Body, data); err != nil {
			log.Printf("[ReminderHandler] stylist push failed: %v", err)
		}
		if err := notifSvc.SendClientPush(ctx, p.ClientID, p.Title, p.Body, data); err != nil {
			log.Printf("[ReminderHandler] client push failed: %v", err)
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[SchedulerWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
