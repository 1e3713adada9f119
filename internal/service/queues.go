package service

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/projection"
)

var ErrTableNotFound = errors.New("no open tab for table")

// QueueService answers read-side queries from the projected views.
type QueueService struct {
	views projection.Views
}

func NewQueueService(views projection.Views) *QueueService {
	return &QueueService{views: views}
}

func (s *QueueService) KitchenQueue(ctx context.Context) ([]projection.KitchenTab, error) {
	tabs, err := s.views.Kitchen.All(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(tabs, func(a, b projection.KitchenTab) int {
		return cmp.Compare(a.TabID.String(), b.TabID.String())
	})
	return tabs, nil
}

func (s *QueueService) KitchenTab(ctx context.Context, id domain.TabID) (projection.KitchenTab, error) {
	tab, ok, err := s.views.Kitchen.Get(ctx, id)
	if err != nil {
		return projection.KitchenTab{}, err
	}
	if !ok {
		return projection.KitchenTab{}, ErrTabNotFound
	}
	return tab, nil
}

func (s *QueueService) WaiterQueue(ctx context.Context) ([]projection.WaiterTab, error) {
	tabs, err := s.views.Waiter.All(ctx)
	if err != nil {
		return nil, err
	}
	sortWaiterTabs(tabs)
	return tabs, nil
}

func (s *QueueService) WaiterTab(ctx context.Context, id domain.TabID) (projection.WaiterTab, error) {
	tab, ok, err := s.views.Waiter.Get(ctx, id)
	if err != nil {
		return projection.WaiterTab{}, err
	}
	if !ok {
		return projection.WaiterTab{}, ErrTabNotFound
	}
	return tab, nil
}

// WaiterTodo is the waiter queue restricted to tabs served by waiterID.
func (s *QueueService) WaiterTodo(ctx context.Context, waiterID domain.WaiterID) ([]projection.WaiterTab, error) {
	tabs, err := s.WaiterQueue(ctx)
	if err != nil {
		return nil, err
	}
	todo := make([]projection.WaiterTab, 0, len(tabs))
	for _, tab := range tabs {
		if tab.WaiterID == waiterID {
			todo = append(todo, tab)
		}
	}
	return todo, nil
}

func (s *QueueService) ActiveTables(ctx context.Context) ([]int, error) {
	invoices, err := s.openInvoices(ctx)
	if err != nil {
		return nil, err
	}
	tables := make([]int, 0, len(invoices))
	for _, inv := range invoices {
		tables = append(tables, inv.TableNumber)
	}
	slices.Sort(tables)
	return slices.Compact(tables), nil
}

func (s *QueueService) InvoiceForTable(ctx context.Context, table int) (projection.TabInvoice, error) {
	invoices, err := s.openInvoices(ctx)
	if err != nil {
		return projection.TabInvoice{}, err
	}
	for _, inv := range invoices {
		if inv.TableNumber == table {
			return inv, nil
		}
	}
	return projection.TabInvoice{}, ErrTableNotFound
}

func (s *QueueService) TabForTable(ctx context.Context, table int) (domain.TabID, error) {
	inv, err := s.InvoiceForTable(ctx, table)
	if err != nil {
		return domain.TabID{}, err
	}
	return inv.TabID, nil
}

func (s *QueueService) openInvoices(ctx context.Context) ([]projection.TabInvoice, error) {
	all, err := s.views.Tabs.All(ctx)
	if err != nil {
		return nil, err
	}
	open := all[:0]
	for _, inv := range all {
		if !inv.Closed {
			open = append(open, inv)
		}
	}
	slices.SortFunc(open, func(a, b projection.TabInvoice) int {
		return cmp.Compare(a.TabID.String(), b.TabID.String())
	})
	return open, nil
}

func sortWaiterTabs(tabs []projection.WaiterTab) {
	slices.SortFunc(tabs, func(a, b projection.WaiterTab) int {
		if c := cmp.Compare(a.TableNumber, b.TableNumber); c != 0 {
			return c
		}
		return cmp.Compare(a.TabID.String(), b.TabID.String())
	})
}
