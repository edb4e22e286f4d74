package toolapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ansible-lint-server-go/internal/domain/dispatch"
)

const (
	// subscriberBuffer bounds how far a slow consumer may lag before
	// non-terminal events are shed.
	subscriberBuffer = 256

	// terminalSendTimeout bounds how long a terminal event waits on a full
	// subscriber before being dropped with a warning.
	terminalSendTimeout = time.Second

	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

var wsUpgrader = &websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscribe attaches a buffered feed to the progress hub, optionally filtered
// to one job. Non-terminal events are shed when the consumer lags; terminal
// events get a bounded grace period so a COMPLETED or ERROR is only lost to a
// genuinely stuck client.
func (s *Service) subscribe(jobID string) (<-chan dispatch.Event, func(), error) {
	ch := make(chan dispatch.Event, subscriberBuffer)

	fn := func(evt dispatch.Event) {
		if jobID != "" && evt.JobID != jobID {
			return
		}
		select {
		case ch <- evt:
			return
		default:
		}
		if evt.Status == dispatch.StatusCompleted || evt.Status == dispatch.StatusError {
			select {
			case ch <- evt:
			case <-time.After(terminalSendTimeout):
				s.logger.WarnTag("EVENTS", "dropped terminal event for job %s: subscriber stuck", evt.JobID)
			}
			return
		}
		s.logger.DebugTag("EVENTS", "shed progress event for job %s: subscriber lagging", evt.JobID)
	}

	if err := s.hub.Subscribe(fn); err != nil {
		return nil, nil, err
	}
	cancel := func() {
		s.hub.Unsubscribe(fn)
	}
	return ch, cancel, nil
}

// handleEventsSSE streams progress events as server-sent events until the
// client disconnects. An optional job_id query restricts the feed to one job.
func (s *Service) handleEventsSSE(c *gin.Context) {
	ch, cancel, err := s.subscribe(c.Query("job_id"))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientGone := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case evt := <-ch:
			data, err := json.Marshal(evt)
			if err != nil {
				s.logger.ErrorTag("EVENTS", "failed to encode event: %v", err)
				return true
			}
			c.SSEvent("progress", string(data))
			return true
		}
	})
}

// handleEventsWS serves the same feed over a websocket, one JSON event per
// text message.
func (s *Service) handleEventsWS(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.WarnTag("EVENTS", "websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch, cancel, err := s.subscribe(c.Query("job_id"))
	if err != nil {
		s.logger.ErrorTag("EVENTS", "subscribe failed: %v", err)
		return
	}
	defer cancel()

	// Read pump only drains control frames and detects disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case evt := <-ch:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(evt); err != nil {
				s.logger.DebugTag("EVENTS", "websocket write failed: %v", err)
				return
			}
		}
	}
}
