package domain

import "github.com/shopspring/decimal"

// Command is a request to change a tab. The set of commands is closed: only the
// types in this file implement it.
type Command interface {
	isCommand()
}

type OpenTab struct {
	WaiterID    WaiterID
	TableNumber int
}

type PlaceOrder struct {
	Items []OrderItem
}

type MarkFoodPrepared struct {
	MenuNumbers []int
}

type MarkFoodServed struct {
	MenuNumbers []int
}

type MarkDrinksServed struct {
	MenuNumbers []int
}

type CloseTab struct {
	AmountPaid decimal.Decimal
}

func (OpenTab) isCommand()          {}
func (PlaceOrder) isCommand()       {}
func (MarkFoodPrepared) isCommand() {}
func (MarkFoodServed) isCommand()   {}
func (MarkDrinksServed) isCommand() {}
func (CloseTab) isCommand()         {}
