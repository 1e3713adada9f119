package domain

import (
	"encoding/json"
	"time"
)

// Envelope is an event as recorded in a tab's stream.
type Envelope struct {
	TabID      TabID
	Sequence   int64
	Type       string
	Version    string
	Event      Event
	RecordedAt time.Time
}

type envelopeJSON struct {
	TabID      TabID           `json:"tab_id"`
	Sequence   int64           `json:"sequence"`
	Type       string          `json:"type"`
	Version    string          `json:"version"`
	Payload    json.RawMessage `json:"payload"`
	RecordedAt time.Time       `json:"recorded_at"`
}

func NewEnvelope(sequence int64, e Event, recordedAt time.Time) Envelope {
	return Envelope{
		TabID:      e.AggregateID(),
		Sequence:   sequence,
		Type:       e.EventType(),
		Version:    EventVersion,
		Event:      e,
		RecordedAt: recordedAt,
	}
}

func (env Envelope) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(env.Event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelopeJSON{
		TabID:      env.TabID,
		Sequence:   env.Sequence,
		Type:       env.Type,
		Version:    env.Version,
		Payload:    payload,
		RecordedAt: env.RecordedAt,
	})
}

func (env *Envelope) UnmarshalJSON(data []byte) error {
	var raw envelopeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	event, err := DecodeEvent(raw.Type, raw.Payload)
	if err != nil {
		return err
	}
	*env = Envelope{
		TabID:      raw.TabID,
		Sequence:   raw.Sequence,
		Type:       raw.Type,
		Version:    raw.Version,
		Event:      event,
		RecordedAt: raw.RecordedAt,
	}
	return nil
}

// Events strips the envelopes down to their events, preserving order.
func Events(envs []Envelope) []Event {
	events := make([]Event, 0, len(envs))
	for _, env := range envs {
		events = append(events, env.Event)
	}
	return events
}

// LastSequence is the stream version after envs, zero for an empty stream.
func LastSequence(envs []Envelope) int64 {
	if len(envs) == 0 {
		return 0
	}
	return envs[len(envs)-1].Sequence
}
