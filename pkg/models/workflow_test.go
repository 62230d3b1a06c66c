package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflow_Matches(t *testing.T) {
	testCases := []struct {
		name       string
		trigger    Trigger
		event      string
		entityType string
		want       bool
	}{
		{
			name:       "event and entity type match",
			trigger:    Trigger{Kind: TriggerKindEvent, Event: "appointment_created", EntityType: "appointment"},
			event:      "appointment_created",
			entityType: "appointment",
			want:       true,
		},
		{
			name:       "different event",
			trigger:    Trigger{Kind: TriggerKindEvent, Event: "appointment_created", EntityType: "appointment"},
			event:      "appointment_cancelled",
			entityType: "appointment",
			want:       false,
		},
		{
			name:       "different entity type",
			trigger:    Trigger{Kind: TriggerKindEvent, Event: "appointment_created", EntityType: "appointment"},
			event:      "appointment_created",
			entityType: "payment",
			want:       false,
		},
		{
			name:       "empty entity type matches any",
			trigger:    Trigger{Kind: TriggerKindEvent, Event: "payment_completed"},
			event:      "payment_completed",
			entityType: "payment",
			want:       true,
		},
		{
			name:       "schedule triggers never match events",
			trigger:    Trigger{Kind: TriggerKindSchedule, Filter: map[string]any{"cron": "0 3 * * *"}},
			event:      "appointment_created",
			entityType: "appointment",
			want:       false,
		},
		{
			name:       "manual triggers never match events",
			trigger:    Trigger{Kind: TriggerKindManual},
			event:      "appointment_created",
			entityType: "appointment",
			want:       false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			workflow := &Workflow{Trigger: tc.trigger}
			assert.Equal(t, tc.want, workflow.Matches(tc.event, tc.entityType))
		})
	}
}
