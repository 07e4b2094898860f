package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Log(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func TestDispatcherDeliversBeforeClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, zap.NewNop())

	d.Dispatch(Event{Action: "appointment_created", EntityID: "2025-06-16_10:00_Aluizio"})
	d.Dispatch(Event{Action: "appointment_cancelled"})
	d.Close()

	assert.Len(t, sink.events, 2)
	assert.Equal(t, "appointment_created", sink.events[0].Action)

	// after close events are ignored
	d.Dispatch(Event{Action: "late"})
	d.Close()
	assert.Len(t, sink.events, 2)
}

func TestDispatcherLogsSinkErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	d := NewDispatcher(&recordingSink{err: errors.New("db down")}, zap.New(core))

	d.Dispatch(Event{Action: "appointment_created"})
	d.Close()

	assert.Equal(t, 1, logs.FilterMessage("audit error").Len())
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Dispatch(Event{Action: "x"}) })
}

func TestZapSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewZapSink(zap.New(core))

	assert.NoError(t, s.Log(Event{Action: "appointment_created", Metadata: map[string]string{"barber": "Aluizio"}}))
	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, `{"barber":"Aluizio"}`, entries[0].ContextMap()["metadata"])
	}
}

func TestFilterNormalize(t *testing.T) {
	f := Filter{}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageSize, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f = Filter{Page: 3, Limit: 20}.Normalize()
	assert.Equal(t, 40, f.Offset())

	assert.Equal(t, DefaultPageSize, Filter{Limit: MaxPageSize + 1}.Normalize().Limit)
}
