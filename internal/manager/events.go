package manager

// Event names published by the manager, in lifecycle order.
const (
	EventInitializeStart  = "initialize_start"
	EventInitializeFailed = "initialize_failed"
	EventReady            = "ready"
	EventPredictFailed    = "predict_failed"
	EventDrainStart       = "drain_start"
	EventDrainDone        = "drain_done"
	EventDrainTimeout     = "drain_timeout"
)

// Event is one lifecycle notification: a name, the model it concerns and
// optional fields.
type Event struct {
	Name   string
	Model  string
	Fields map[string]any
}

// EventPublisher receives events from the manager. Publish is called on the
// request path; it must not block or panic.
type EventPublisher interface {
	Publish(Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// emit publishes name for this manager's model. kv is read as key/value pairs.
func (m *Manager) emit(name string, kv ...any) {
	e := Event{Name: name, Model: m.name}
	if len(kv) > 1 {
		e.Fields = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok {
				e.Fields[k] = kv[i+1]
			}
		}
	}
	m.publisher.Publish(e)
}
