package httpapi

import (
	"errors"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/projection"

	"github.com/shopspring/decimal"
)

var (
	errMissingTable       = errors.New("table_number must be positive")
	errMissingItems       = errors.New("items must not be empty")
	errMissingMenuNumbers = errors.New("menu_numbers must not be empty")
	errInvalidMenuNumber  = errors.New("menu_number must be positive")
	errNegativePrice      = errors.New("unit_price must not be negative")
	errNegativeAmount     = errors.New("amount_paid must not be negative")
)

type commandRequest interface {
	command() (domain.Command, error)
}

type openTabRequest struct {
	WaiterID    string `json:"waiter_id"`
	TableNumber int    `json:"table_number"`
}

func (req openTabRequest) command() (domain.Command, error) {
	waiterID, err := domain.ParseWaiterID(req.WaiterID)
	if err != nil {
		return nil, err
	}
	if req.TableNumber <= 0 {
		return nil, errMissingTable
	}
	return domain.OpenTab{WaiterID: waiterID, TableNumber: req.TableNumber}, nil
}

type placeOrderRequest struct {
	Items []domain.OrderItem `json:"items"`
}

func (req *placeOrderRequest) command() (domain.Command, error) {
	if len(req.Items) == 0 {
		return nil, errMissingItems
	}
	for _, item := range req.Items {
		if item.MenuNumber <= 0 {
			return nil, errInvalidMenuNumber
		}
		if item.UnitPrice.IsNegative() {
			return nil, errNegativePrice
		}
	}
	return domain.PlaceOrder{Items: req.Items}, nil
}

type menuNumbersRequest struct {
	MenuNumbers []int `json:"menu_numbers"`

	build func([]int) domain.Command
}

func (req *menuNumbersRequest) command() (domain.Command, error) {
	if len(req.MenuNumbers) == 0 {
		return nil, errMissingMenuNumbers
	}
	return req.build(req.MenuNumbers), nil
}

type closeTabRequest struct {
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

func (req *closeTabRequest) command() (domain.Command, error) {
	if req.AmountPaid.IsNegative() {
		return nil, errNegativeAmount
	}
	return domain.CloseTab{AmountPaid: req.AmountPaid}, nil
}

type invoiceResponse struct {
	projection.TabInvoice
	Total decimal.Decimal `json:"total"`
}
