package projection

import (
	"slices"

	"cafe-tab/internal/domain"
)

const (
	KitchenViewName = "kitchen"
	WaiterViewName  = "waiter"
	TabsViewName    = "tabs"
)

// QueueItem is one unit waiting to be prepared or served.
type QueueItem struct {
	MenuNumber  int    `json:"menu_number"`
	Description string `json:"description"`
}

// KitchenTab lists food units of a tab not yet prepared.
type KitchenTab struct {
	TabID domain.TabID `json:"tab_id"`
	Items []QueueItem  `json:"items"`
}

// WaiterTab lists food and drink units of a tab not yet served.
type WaiterTab struct {
	TabID       domain.TabID    `json:"tab_id"`
	WaiterID    domain.WaiterID `json:"waiter_id"`
	TableNumber int             `json:"table_number"`
	Items       []QueueItem     `json:"items"`
}

// KitchenUpdate adds a queue entry per ordered food unit and drops one per
// prepared unit.
func KitchenUpdate(view KitchenTab, env domain.Envelope) (KitchenTab, bool) {
	switch e := env.Event.(type) {
	case domain.FoodOrderPlaced:
		view.TabID = e.ID
		view.Items = addUnits(view.Items, e.MenuItem)
	case domain.FoodPrepared:
		view.TabID = e.ID
		view.Items = removeUnit(view.Items, e.MenuNumber)
	default:
		return view, false
	}
	return view, true
}

// WaiterUpdate adds a queue entry per ordered unit and drops one per served
// unit. TabOpened creates the group so it can be found per waiter.
func WaiterUpdate(view WaiterTab, env domain.Envelope) (WaiterTab, bool) {
	switch e := env.Event.(type) {
	case domain.TabOpened:
		view.TabID = e.ID
		view.WaiterID = e.WaiterID
		view.TableNumber = e.TableNumber
		if view.Items == nil {
			view.Items = []QueueItem{}
		}
	case domain.FoodOrderPlaced:
		view.TabID = e.ID
		view.Items = addUnits(view.Items, e.MenuItem)
	case domain.DrinkOrderPlaced:
		view.TabID = e.ID
		view.Items = addUnits(view.Items, e.MenuItem)
	case domain.FoodServed:
		view.TabID = e.ID
		view.Items = removeUnit(view.Items, e.MenuNumber)
	case domain.DrinkServed:
		view.TabID = e.ID
		view.Items = removeUnit(view.Items, e.MenuNumber)
	default:
		return view, false
	}
	return view, true
}

func addUnits(items []QueueItem, line domain.MenuLineItem) []QueueItem {
	out := slices.Clone(items)
	if out == nil {
		out = make([]QueueItem, 0, line.Quantity)
	}
	for i := 0; i < line.Quantity; i++ {
		out = append(out, QueueItem{MenuNumber: line.MenuNumber, Description: line.Description})
	}
	return out
}

// removeUnit drops the first entry for menuNumber. The result is never nil so
// an emptied group stays visible.
func removeUnit(items []QueueItem, menuNumber int) []QueueItem {
	out := slices.Clone(items)
	if out == nil {
		out = []QueueItem{}
	}
	i := slices.IndexFunc(out, func(it QueueItem) bool { return it.MenuNumber == menuNumber })
	if i < 0 {
		return out
	}
	return slices.Delete(out, i, i+1)
}
