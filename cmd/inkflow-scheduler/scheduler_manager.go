// Package main provides the Inkflow scheduler daemon. It consumes domain
// events from the bus, fires cron-scheduled workflows and resumes executions
// suspended on a delayed action.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkflow/inkflow/pkg/eventbus"
	"github.com/inkflow/inkflow/pkg/events"
	"github.com/inkflow/inkflow/pkg/persistence"
	"github.com/inkflow/inkflow/pkg/scheduler"
	"github.com/inkflow/inkflow/pkg/workflow"
)

type SchedulerManager struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	engine      *workflow.Engine
	cron        *scheduler.CronRunner
	delayWorker *scheduler.DelayWorker
}

func NewSchedulerManager(
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	engine *workflow.Engine,
	delayQueue *scheduler.RedisDelayQueue,
	logger *slog.Logger,
) *SchedulerManager {
	return &SchedulerManager{
		logger:      logger.With("module", "inkflow-scheduler"),
		persistence: persistence,
		eventBus:    eventBus,
		engine:      engine,
		cron:        scheduler.NewCronRunner(persistence.WorkflowRepository(), engine, logger),
		delayWorker: scheduler.NewDelayWorker(delayQueue, persistence.ExecutionRepository(), engine, logger),
	}
}

func (m *SchedulerManager) Start(ctx context.Context) error {
	m.logger.InfoContext(ctx, "Starting scheduler manager")

	m.eventBus.Handle(events.DomainEventType, m.handleDomainEvent)

	if err := m.eventBus.Subscribe(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	if err := m.cron.Start(ctx); err != nil {
		return err
	}
	defer m.cron.Stop()

	m.delayWorker.Start(ctx)
	defer m.delayWorker.Stop()

	m.logger.InfoContext(ctx, "Scheduler started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	m.logger.InfoContext(ctx, "Shutting down scheduler...")

	return nil
}

func (m *SchedulerManager) handleDomainEvent(ctx context.Context, event any) error {
	domainEvent, ok := event.(*events.DomainEvent)
	if !ok {
		m.logger.ErrorContext(ctx, "Invalid event type for DomainEvent")

		return nil
	}

	logger := m.logger.With(
		"event", domainEvent.Name,
		"entity_type", domainEvent.EntityType,
		"entity_id", domainEvent.EntityID,
	)
	logger.InfoContext(ctx, "Processing domain event")

	executions, err := m.engine.TriggerWorkflows(
		ctx,
		domainEvent.Name,
		domainEvent.EntityType,
		domainEvent.EntityID,
		domainEvent.Data,
	)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to trigger workflows", "error", err)

		return err
	}

	logger.InfoContext(ctx, "Domain event processed", "executions", len(executions))

	return nil
}
