package app

import (
	"go.uber.org/zap"

	"github.com/ayusman/particula/internal/status"
	"github.com/ayusman/particula/internal/store"
)

// journal writes status events into the session journal. It sits behind a
// status.Changes filter, so per-frame commands only land on change.
type journal struct {
	events  *store.EventRepository
	session func() string
	log     *zap.Logger
}

func newJournal(events *store.EventRepository, session func() string, log *zap.Logger) *journal {
	return &journal{events: events, session: session, log: log}
}

// Report implements status.Sink.
func (j *journal) Report(e status.Event) {
	id := j.session()
	if id == "" {
		return
	}
	err := j.events.Append(&store.Event{
		SessionID: id,
		Kind:      string(e.Kind),
		Value:     e.Value,
		CreatedAt: e.At,
	})
	if err != nil {
		j.log.Warn("journal write failed", zap.String("kind", string(e.Kind)), zap.Error(err))
	}
}
