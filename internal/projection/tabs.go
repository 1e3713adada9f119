package projection

import (
	"slices"

	"cafe-tab/internal/domain"

	"github.com/shopspring/decimal"
)

// TabInvoice is the running bill of a tab, used to look tabs up by table.
type TabInvoice struct {
	TabID       domain.TabID          `json:"tab_id"`
	TableNumber int                   `json:"table_number"`
	WaiterID    domain.WaiterID       `json:"waiter_id"`
	Lines       []domain.MenuLineItem `json:"lines"`
	Closed      bool                  `json:"closed"`
}

func (i TabInvoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range i.Lines {
		total = total.Add(l.Total())
	}
	return total
}

func InvoiceUpdate(view TabInvoice, env domain.Envelope) (TabInvoice, bool) {
	switch e := env.Event.(type) {
	case domain.TabOpened:
		return TabInvoice{
			TabID:       e.ID,
			TableNumber: e.TableNumber,
			WaiterID:    e.WaiterID,
			Lines:       []domain.MenuLineItem{},
		}, true
	case domain.FoodOrderPlaced:
		view.Lines = addLine(view.Lines, e.MenuItem)
	case domain.DrinkOrderPlaced:
		view.Lines = addLine(view.Lines, e.MenuItem)
	case domain.TabClosed:
		view.Closed = true
	default:
		return view, false
	}
	return view, true
}

func addLine(lines []domain.MenuLineItem, item domain.MenuLineItem) []domain.MenuLineItem {
	out := slices.Clone(lines)
	for i := range out {
		if out[i].MenuNumber == item.MenuNumber {
			out[i].Quantity += item.Quantity
			return out
		}
	}
	return append(out, item)
}
