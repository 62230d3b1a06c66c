package cmd

import (
	"log/slog"

	"github.com/inkflow/inkflow/pkg/actions/createnotification"
	"github.com/inkflow/inkflow/pkg/actions/sendemail"
	"github.com/inkflow/inkflow/pkg/actions/sendsms"
	"github.com/inkflow/inkflow/pkg/actions/unimplemented"
	"github.com/inkflow/inkflow/pkg/actions/updatestatus"
	"github.com/inkflow/inkflow/pkg/actions/wait"
	"github.com/inkflow/inkflow/pkg/actions/webhook"
	"github.com/inkflow/inkflow/pkg/communication"
	"github.com/inkflow/inkflow/pkg/eventbus"
	"github.com/inkflow/inkflow/pkg/models"
	"github.com/inkflow/inkflow/pkg/notification"
	"github.com/inkflow/inkflow/pkg/persistence"
	"github.com/inkflow/inkflow/pkg/registry"
)

// NewRegistry builds the action registry with every native action factory
// wired to its collaborators.
func NewRegistry(logger *slog.Logger, p persistence.Persistence, publisher eventbus.EventPublisher) *registry.Registry {
	reg := registry.NewRegistry(logger)

	registerNativeActions(reg, logger, p, publisher)

	return reg
}

func registerNativeActions(reg *registry.Registry, logger *slog.Logger, p persistence.Persistence, publisher eventbus.EventPublisher) {
	sender := newSender(logger)
	notifications := notification.NewService(p.NotificationRepository(), publisher, logger)

	reg.RegisterAction(sendemail.NewActionFactory(sender))
	reg.RegisterAction(sendsms.NewActionFactory(sender))
	reg.RegisterAction(createnotification.NewActionFactory(notifications))
	reg.RegisterAction(updatestatus.NewActionFactory(p.EntityRepository()))
	reg.RegisterAction(webhook.NewActionFactory())
	reg.RegisterAction(wait.NewActionFactory())

	// Known to the model but not yet backed by a native implementation.
	reg.RegisterAction(unimplemented.NewActionFactory(models.ActionCreateTask))
	reg.RegisterAction(unimplemented.NewActionFactory(models.ActionCreateAppointment))
	reg.RegisterAction(unimplemented.NewActionFactory(models.ActionSendPaymentLink))
}

// newSender picks the outbound messaging provider. Without COMM_EMAIL_URL and
// COMM_SMS_URL configured, messages are logged instead of delivered.
func newSender(logger *slog.Logger) communication.Sender {
	if provider := communication.NewHTTPProviderFromEnv(); provider != nil {
		return provider
	}

	return communication.NewLogProvider(logger)
}
