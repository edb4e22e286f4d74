package dispatch

import (
	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
)

const topicProgress = "lint:progress"

// Status is a lifecycle state of one streaming lint job.
type Status string

const (
	StatusStarted    Status = "STARTED"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusError      Status = "ERROR"
)

// Event is one progress datapoint for a streaming job. Events are ephemeral:
// emission order per job is the only guarantee, there is no persistence or
// replay.
type Event struct {
	JobID      string `json:"job_id"`
	Status     Status `json:"status"`
	Step       int    `json:"step,omitempty"`
	TotalSteps int    `json:"total_steps,omitempty"`
	Payload    any    `json:"payload,omitempty"`
}

// NewJobID returns a generated job identifier. IDs are random rather than
// content-derived so identical documents never collide and document content
// never leaks through the identifier.
func NewJobID() string {
	return "lint-job-" + uuid.NewString()
}

// Hub fans progress events out to listening transports over an event bus.
type Hub struct {
	bus    evbus.Bus
	logger Logger
}

// NewHub creates an event hub.
func NewHub(logger Logger) *Hub {
	return &Hub{
		bus:    evbus.New(),
		logger: logger,
	}
}

// Publish emits one event synchronously; subscriber callbacks observe events
// in publish order.
func (h *Hub) Publish(evt Event) {
	if h.logger != nil {
		h.logger.DebugTag("EVENTS", "job %s -> %s", evt.JobID, evt.Status)
	}
	h.bus.Publish(topicProgress, evt)
}

// Subscribe attaches fn to the progress feed until Unsubscribe.
func (h *Hub) Subscribe(fn func(Event)) error {
	return h.bus.Subscribe(topicProgress, fn)
}

// Unsubscribe detaches a previously subscribed fn.
func (h *Hub) Unsubscribe(fn func(Event)) error {
	return h.bus.Unsubscribe(topicProgress, fn)
}
