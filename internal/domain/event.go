package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// EventVersion is the schema version stamped on every stored event.
const EventVersion = "1.0"

const (
	TypeTabOpened        = "TabOpened"
	TypeFoodOrderPlaced  = "FoodOrderPlaced"
	TypeDrinkOrderPlaced = "DrinkOrderPlaced"
	TypeFoodPrepared     = "FoodPrepared"
	TypeFoodServed       = "FoodServed"
	TypeDrinkServed      = "DrinkServed"
	TypeTabClosed        = "TabClosed"
)

// Event is an immutable fact about a tab. The set of events is closed: only the
// types in this file implement it.
type Event interface {
	// EventType is the stable name used in storage and on the wire.
	EventType() string
	// AggregateID is the tab the event belongs to.
	AggregateID() TabID
	isEvent()
}

type TabOpened struct {
	ID          TabID    `json:"id"`
	WaiterID    WaiterID `json:"waiter_id"`
	TableNumber int      `json:"table_number"`
}

type FoodOrderPlaced struct {
	ID       TabID        `json:"id"`
	MenuItem MenuLineItem `json:"menu_item"`
}

type DrinkOrderPlaced struct {
	ID       TabID        `json:"id"`
	MenuItem MenuLineItem `json:"menu_item"`
}

type FoodPrepared struct {
	ID         TabID `json:"id"`
	MenuNumber int   `json:"menu_number"`
}

type FoodServed struct {
	ID         TabID `json:"id"`
	MenuNumber int   `json:"menu_number"`
}

type DrinkServed struct {
	ID         TabID `json:"id"`
	MenuNumber int   `json:"menu_number"`
}

type TabClosed struct {
	ID         TabID           `json:"id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	OrderValue decimal.Decimal `json:"order_value"`
	TipValue   decimal.Decimal `json:"tip_value"`
}

func (e TabOpened) EventType() string        { return TypeTabOpened }
func (e FoodOrderPlaced) EventType() string  { return TypeFoodOrderPlaced }
func (e DrinkOrderPlaced) EventType() string { return TypeDrinkOrderPlaced }
func (e FoodPrepared) EventType() string     { return TypeFoodPrepared }
func (e FoodServed) EventType() string       { return TypeFoodServed }
func (e DrinkServed) EventType() string      { return TypeDrinkServed }
func (e TabClosed) EventType() string        { return TypeTabClosed }

func (e TabOpened) AggregateID() TabID        { return e.ID }
func (e FoodOrderPlaced) AggregateID() TabID  { return e.ID }
func (e DrinkOrderPlaced) AggregateID() TabID { return e.ID }
func (e FoodPrepared) AggregateID() TabID     { return e.ID }
func (e FoodServed) AggregateID() TabID       { return e.ID }
func (e DrinkServed) AggregateID() TabID      { return e.ID }
func (e TabClosed) AggregateID() TabID        { return e.ID }

func (TabOpened) isEvent()        {}
func (FoodOrderPlaced) isEvent()  {}
func (DrinkOrderPlaced) isEvent() {}
func (FoodPrepared) isEvent()     {}
func (FoodServed) isEvent()       {}
func (DrinkServed) isEvent()      {}
func (TabClosed) isEvent()        {}

// DecodeEvent rebuilds an event from its stored type name and JSON payload.
func DecodeEvent(eventType string, payload []byte) (Event, error) {
	switch eventType {
	case TypeTabOpened:
		return decode[TabOpened](payload)
	case TypeFoodOrderPlaced:
		return decode[FoodOrderPlaced](payload)
	case TypeDrinkOrderPlaced:
		return decode[DrinkOrderPlaced](payload)
	case TypeFoodPrepared:
		return decode[FoodPrepared](payload)
	case TypeFoodServed:
		return decode[FoodServed](payload)
	case TypeDrinkServed:
		return decode[DrinkServed](payload)
	case TypeTabClosed:
		return decode[TabClosed](payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, eventType)
	}
}

func decode[E Event](payload []byte) (Event, error) {
	var e E
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("decode %s: %w", e.EventType(), err)
	}
	return e, nil
}
