package cmd

import (
	"fmt"
	"slices"
	"time"

	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/report"
	"github.com/frahmantamala/asset-custody/internal/report/rediscache"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish custody events by hand, e.g. to drop cached dashboard reports after a manual data fix.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a custody event",
	Long:  `Publish an event to a bus carrying the same subscribers as the server. Known types: ` + fmt.Sprint(events.AllTypes),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishEvent(cmd, args[0])
	},
}

var (
	eventEntity   string
	eventEntityID int64
)

func publishEvent(cmd *cobra.Command, eventType string) error {
	if !slices.Contains(events.AllTypes, eventType) {
		return fmt.Errorf("unknown event type %q", eventType)
	}

	deps, err := initializeDependencies(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	if deps.Redis == nil {
		deps.Logger.Info("redis not configured; nothing subscribes to report events")
		return nil
	}
	report.NewEventHandler(rediscache.NewCache(deps.Redis, ""), deps.Logger).Register(deps.Bus)

	event := events.BaseEvent{
		ID:        fmt.Sprintf("cli-%s-%d", eventEntity, eventEntityID),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"entity":    eventEntity,
			"entity_id": eventEntityID,
			"source":    "cli-command",
		},
	}

	deps.Logger.Info("publishing event", "event_type", eventType, "event_id", event.ID)
	if err := deps.Bus.PublishSync(cmd.Context(), event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	deps.Logger.Info("event published")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventEntity, "entity", "manual", "entity the event is about")
	publishEventCmd.Flags().Int64Var(&eventEntityID, "id", 0, "id of the entity")

	eventCmd.AddCommand(publishEventCmd)
}
