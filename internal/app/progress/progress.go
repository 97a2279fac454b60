package progress

// Event is one step of a pipeline run. Percent values are strictly
// increasing over the lifetime of a run and reach 100 only on success.
type Event struct {
	Percent int    `json:"percent"`
	Label   string `json:"label"`
}

// Sink receives progress events. Implementations must be cheap: sinks are
// invoked synchronously from inside the pipeline.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})
