package domain

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Tab is the state of one table's tab, rebuilt by folding its events.
type Tab struct {
	ID           TabID          `json:"id"`
	TableNumber  int            `json:"table_number"`
	Open         bool           `json:"open"`
	Closed       bool           `json:"closed"`
	WaiterID     WaiterID       `json:"waiter_id"`
	FoodLines    []MenuLineItem `json:"food_lines"`
	DrinkLines   []MenuLineItem `json:"drink_lines"`
	FoodPrepared map[int]int    `json:"food_prepared"`
	FoodServed   map[int]int    `json:"food_served"`
	DrinksServed map[int]int    `json:"drinks_served"`
}

// Fold replays events over the zero tab.
func Fold(events []Event) (Tab, error) {
	var t Tab
	for _, e := range events {
		next, err := t.Apply(e)
		if err != nil {
			return Tab{}, err
		}
		t = next
	}
	return t, nil
}

// Handle validates cmd against the tab and returns the events it produces. The
// receiver is never modified.
func (t Tab) Handle(cmd Command) ([]Event, error) {
	if _, ok := cmd.(OpenTab); !ok {
		if t.Closed {
			return nil, ErrTabClosed
		}
		if !t.Open {
			return nil, ErrTabNotOpened
		}
	}

	switch c := cmd.(type) {
	case OpenTab:
		return t.openTab(c)
	case PlaceOrder:
		return t.placeOrder(c), nil
	case MarkFoodPrepared:
		return t.markFoodPrepared(c)
	case MarkFoodServed:
		return t.markFoodServed(c)
	case MarkDrinksServed:
		return t.markDrinksServed(c)
	case CloseTab:
		return t.closeTab(c)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

func (t Tab) openTab(c OpenTab) ([]Event, error) {
	if t.Open {
		return nil, &TabIsOpenError{ID: t.ID}
	}
	if t.Closed {
		return nil, ErrTabClosed
	}
	id := t.ID
	if id.IsZero() {
		id = NewTabID()
	}
	return []Event{TabOpened{ID: id, WaiterID: c.WaiterID, TableNumber: c.TableNumber}}, nil
}

func (t Tab) placeOrder(c PlaceOrder) []Event {
	events := make([]Event, 0, len(c.Items))
	for _, item := range c.Items {
		if item.IsDrink {
			events = append(events, DrinkOrderPlaced{ID: t.ID, MenuItem: item.line()})
		} else {
			events = append(events, FoodOrderPlaced{ID: t.ID, MenuItem: item.line()})
		}
	}
	return events
}

func (t Tab) markFoodPrepared(c MarkFoodPrepared) ([]Event, error) {
	pending := make(map[int]int)
	events := make([]Event, 0, len(c.MenuNumbers))
	for _, n := range c.MenuNumbers {
		if orderedQuantity(t.FoodLines, n)-t.FoodPrepared[n]-pending[n] <= 0 {
			return nil, &MenuItemError{Err: ErrFoodNotOutstanding, MenuNumber: n}
		}
		pending[n]++
		events = append(events, FoodPrepared{ID: t.ID, MenuNumber: n})
	}
	return events, nil
}

func (t Tab) markFoodServed(c MarkFoodServed) ([]Event, error) {
	pending := make(map[int]int)
	events := make([]Event, 0, len(c.MenuNumbers))
	for _, n := range c.MenuNumbers {
		ordered := orderedQuantity(t.FoodLines, n)
		served := t.FoodServed[n] + pending[n]
		if ordered == 0 || served >= ordered {
			return nil, &MenuItemError{Err: ErrFoodNotOutstanding, MenuNumber: n}
		}
		if t.FoodPrepared[n]-served <= 0 {
			return nil, &MenuItemError{Err: ErrFoodNotPrepared, MenuNumber: n}
		}
		pending[n]++
		events = append(events, FoodServed{ID: t.ID, MenuNumber: n})
	}
	return events, nil
}

func (t Tab) markDrinksServed(c MarkDrinksServed) ([]Event, error) {
	pending := make(map[int]int)
	events := make([]Event, 0, len(c.MenuNumbers))
	for _, n := range c.MenuNumbers {
		ordered := orderedQuantity(t.DrinkLines, n)
		if ordered == 0 || t.DrinksServed[n]+pending[n] >= ordered {
			return nil, &MenuItemError{Err: ErrDrinkNotOutstanding, MenuNumber: n}
		}
		pending[n]++
		events = append(events, DrinkServed{ID: t.ID, MenuNumber: n})
	}
	return events, nil
}

func (t Tab) closeTab(c CloseTab) ([]Event, error) {
	subtotal := t.Subtotal()
	if c.AmountPaid.LessThan(subtotal) {
		return nil, ErrMustPayEnough
	}
	return []Event{TabClosed{
		ID:         t.ID,
		AmountPaid: c.AmountPaid,
		OrderValue: subtotal,
		TipValue:   c.AmountPaid.Sub(subtotal),
	}}, nil
}

// Apply returns the tab with e applied. The receiver and its slices and maps
// are left untouched.
func (t Tab) Apply(e Event) (Tab, error) {
	switch ev := e.(type) {
	case TabOpened:
		return Tab{
			ID:          ev.ID,
			TableNumber: ev.TableNumber,
			Open:        true,
			WaiterID:    ev.WaiterID,
		}, nil
	case FoodOrderPlaced:
		t.FoodLines = mergeLine(t.FoodLines, ev.MenuItem)
	case DrinkOrderPlaced:
		t.DrinkLines = mergeLine(t.DrinkLines, ev.MenuItem)
	case FoodPrepared:
		t.FoodPrepared = increment(t.FoodPrepared, ev.MenuNumber)
	case FoodServed:
		t.FoodServed = increment(t.FoodServed, ev.MenuNumber)
	case DrinkServed:
		t.DrinksServed = increment(t.DrinksServed, ev.MenuNumber)
	case TabClosed:
		t.Open = false
		t.Closed = true
	default:
		return t, fmt.Errorf("%w: %T", ErrUnknownEvent, e)
	}
	return t, nil
}

// Subtotal is the value of everything ordered, served or not.
func (t Tab) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range t.FoodLines {
		total = total.Add(l.Total())
	}
	for _, l := range t.DrinkLines {
		total = total.Add(l.Total())
	}
	return total
}

func orderedQuantity(lines []MenuLineItem, menuNumber int) int {
	qty := 0
	for _, l := range lines {
		if l.MenuNumber == menuNumber {
			qty += l.Quantity
		}
	}
	return qty
}

func mergeLine(lines []MenuLineItem, item MenuLineItem) []MenuLineItem {
	out := slices.Clone(lines)
	for i := range out {
		if out[i].MenuNumber == item.MenuNumber {
			out[i].Quantity += item.Quantity
			return out
		}
	}
	return append(out, item)
}

func increment(counts map[int]int, menuNumber int) map[int]int {
	out := maps.Clone(counts)
	if out == nil {
		out = make(map[int]int)
	}
	out[menuNumber]++
	return out
}
