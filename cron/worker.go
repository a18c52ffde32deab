// Package cron runs the reschedule-sweep background worker: a periodic
// asynq task that re-attempts reassignment for every reservation left in
// PENDING_RESCHEDULE, so capacity freed after a blocking is picked up
// without operator intervention.
package cron

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"schedulingengine/config"
	"schedulingengine/internal/engine"
)

// TypeRescheduleSweep is the asynq task type the periodic scheduler
// enqueues for the reschedule sweep.
const TypeRescheduleSweep = "reschedule:sweep"

// InitRescheduleWorker starts the asynq server handling reschedule-sweep
// tasks and a periodic scheduler enqueuing one every interval, in
// background goroutines.
func InitRescheduleWorker(eng *engine.Engine, interval time.Duration) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisRescheduleQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRescheduleSweep, handleRescheduleSweep(eng))

	go monitorRedisConnection()
	go runScheduler(redisOpts, interval)

	go func() {
		log.Println("[RescheduleWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[RescheduleWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[RescheduleWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// runScheduler enqueues a TypeRescheduleSweep task on a fixed interval.
func runScheduler(redisOpts asynq.RedisClientOpt, interval time.Duration) {
	client := asynq.NewClient(redisOpts)
	defer client.Close()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		task := asynq.NewTask(TypeRescheduleSweep, nil)
		if _, err := client.Enqueue(task); err != nil {
			log.Printf("[RescheduleWorker] failed to enqueue sweep task: %v", err)
		}
	}
}

func handleRescheduleSweep(eng *engine.Engine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		outcomes := eng.RetrySweep(ctx)
		logger := zap.L()
		for _, o := range outcomes {
			logger.Info("reschedule sweep outcome",
				zap.String("reservation_id", o.ReservationID),
				zap.String("state", string(o.State)),
				zap.String("employee_id", o.EmployeeID),
				zap.String("equipment_id", o.EquipmentID),
			)
		}
		log.Printf("[RescheduleHandler] swept %d pending reservation(s)", len(outcomes))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisRescheduleQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[RescheduleWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
