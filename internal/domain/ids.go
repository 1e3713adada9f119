package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// TabID identifies a tab. It is minted once, when the tab is opened, and is the
// partition key of the tab's event stream.
type TabID struct{ uuid.UUID }

// WaiterID identifies the waiter serving a tab.
type WaiterID struct{ uuid.UUID }

func NewTabID() TabID { return TabID{uuid.New()} }

func NewWaiterID() WaiterID { return WaiterID{uuid.New()} }

func ParseTabID(s string) (TabID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TabID{}, fmt.Errorf("invalid tab id %q: %w", s, err)
	}
	return TabID{id}, nil
}

func ParseWaiterID(s string) (WaiterID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return WaiterID{}, fmt.Errorf("invalid waiter id %q: %w", s, err)
	}
	return WaiterID{id}, nil
}

func (id TabID) IsZero() bool { return id.UUID == uuid.Nil }

func (id WaiterID) IsZero() bool { return id.UUID == uuid.Nil }
