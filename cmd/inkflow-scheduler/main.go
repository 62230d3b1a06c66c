package main

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
	cli "github.com/urfave/cli/v3"

	"github.com/inkflow/inkflow/pkg/cmd"
	"github.com/inkflow/inkflow/pkg/log"
	"github.com/inkflow/inkflow/pkg/scheduler"
	"github.com/inkflow/inkflow/pkg/workflow"
)

func main() {
	command := &cli.Command{
		Name:                  "inkflow-scheduler",
		Usage:                 "Run workflows on events, cron schedules and delayed resumes",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis connection URL for the delayed execution queue",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.DurationFlag{
				Name:    "delay-cap",
				Usage:   "Upper bound for in-process action delays when no delay queue is configured",
				Value:   workflow.DefaultDelayCap,
				Sources: cli.EnvVars("ACTION_DELAY_CAP"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("scheduler")

			logger.InfoContext(ctx, "Initializing Inkflow Scheduler")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), "inkflow-scheduler", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			registry := cmd.NewRegistry(logger, persistence, eventBus)

			delayQueue, err := newDelayQueue(ctx, command.String("redis-url"))
			if err != nil {
				return err
			}

			engineOpts := []workflow.Option{
				workflow.WithEventPublisher(eventBus),
				workflow.WithDelayCap(command.Duration("delay-cap")),
			}
			if delayQueue != nil {
				engineOpts = append(engineOpts, workflow.WithDelayScheduler(delayQueue))
			}

			engine := workflow.NewEngine(persistence, registry, logger, engineOpts...)

			manager := NewSchedulerManager(
				persistence,
				eventBus,
				engine,
				delayQueue,
				logger,
			)

			return manager.Start(ctx)
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

func newDelayQueue(ctx context.Context, redisURL string) (*scheduler.RedisDelayQueue, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	queue := scheduler.NewRedisDelayQueue(client, "")
	if err := queue.HealthCheck(ctx); err != nil {
		return nil, err
	}

	return queue, nil
}
