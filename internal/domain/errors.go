package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTabNotOpened        = errors.New("tab is not open")
	ErrTabIsOpen           = errors.New("tab is already open")
	ErrTabClosed           = errors.New("tab is closed")
	ErrFoodNotOutstanding  = errors.New("food is not outstanding")
	ErrDrinkNotOutstanding = errors.New("drink is not outstanding")
	ErrFoodNotPrepared     = errors.New("food is not prepared")
	ErrMustPayEnough       = errors.New("payment amount is not enough")

	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownEvent   = errors.New("unknown event")
)

// TabIsOpenError is returned when OpenTab targets a tab that is already open.
type TabIsOpenError struct {
	ID TabID
}

func (e *TabIsOpenError) Error() string {
	return fmt.Sprintf("tab %s is already open", e.ID)
}

func (e *TabIsOpenError) Is(target error) bool { return target == ErrTabIsOpen }

// MenuItemError reports which menu number failed a preparation or service check.
type MenuItemError struct {
	Err        error
	MenuNumber int
}

func (e *MenuItemError) Error() string {
	return fmt.Sprintf("%v: menu number %d", e.Err, e.MenuNumber)
}

func (e *MenuItemError) Unwrap() error { return e.Err }
