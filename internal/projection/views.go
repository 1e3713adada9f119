package projection

// Views groups the read models maintained from the tab stream.
type Views struct {
	Kitchen *View[KitchenTab]
	Waiter  *View[WaiterTab]
	Tabs    *View[TabInvoice]
}

func NewViews(
	kitchen ViewStore[Record[KitchenTab]],
	waiter ViewStore[Record[WaiterTab]],
	tabs ViewStore[Record[TabInvoice]],
) Views {
	return Views{
		Kitchen: NewView[KitchenTab](KitchenViewName, kitchen, KitchenUpdate),
		Waiter:  NewView[WaiterTab](WaiterViewName, waiter, WaiterUpdate),
		Tabs:    NewView[TabInvoice](TabsViewName, tabs, InvoiceUpdate),
	}
}

func (v Views) All() []Projection {
	return []Projection{v.Kitchen, v.Waiter, v.Tabs}
}
