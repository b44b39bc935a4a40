package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/asset-custody/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("delivers to every subscriber before Publish returns", func() {
		var seen []string
		bus.Subscribe(events.EventTypeAssignmentIssued, func(_ context.Context, e events.Event) error {
			seen = append(seen, "first:"+e.EventType())
			return nil
		})
		bus.Subscribe(events.EventTypeAssignmentIssued, func(_ context.Context, e events.Event) error {
			issued := e.(*events.AssignmentIssuedEvent)
			seen = append(seen, issued.AssignmentNumber)
			return errors.New("ignored")
		})

		bus.Publish(context.Background(), events.NewAssignmentIssuedEvent(1, "ASG-20261016-000001", 2, 3, 4))

		Expect(seen).To(Equal([]string{"first:assignment.issued", "ASG-20261016-000001"}))
	})

	It("stops at the first failure when publishing synchronously", func() {
		calls := 0
		bus.Subscribe(events.EventTypeAssignmentClosed, func(context.Context, events.Event) error {
			calls++
			return errors.New("cache down")
		})
		bus.Subscribe(events.EventTypeAssignmentClosed, func(context.Context, events.Event) error {
			calls++
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewAssignmentClosedEvent(1, 2, "lost", 3))
		Expect(err).To(MatchError(ContainSubstring("cache down")))
		Expect(calls).To(Equal(1))
	})

	It("ignores events nobody listens to", func() {
		Expect(bus.PublishSync(context.Background(), events.NewDirectoryChangedEvent("item", 1, "created", 1))).To(Succeed())
	})
})
