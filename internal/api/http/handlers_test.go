package httpapi_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "cafe-tab/internal/api/http"
	"cafe-tab/internal/domain"
	"cafe-tab/internal/mocks"
	"cafe-tab/internal/projection"
	"cafe-tab/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(commands *mocks.CommandService, queues *mocks.QueryService, qr *mocks.QRGenerator) *mux.Router {
	handler := &httpapi.Handler{Commands: commands, Queues: queues, QR: qr}
	r := mux.NewRouter()
	handler.RegisterCommandRoutes(r)
	handler.RegisterQueryRoutes(r)
	return r
}

func TestHandler_openTab(t *testing.T) {
	commands := mocks.NewCommandService(t)
	router := setupTestRouter(commands, nil, nil)
	waiter := domain.NewWaiterID()
	id := domain.NewTabID()

	tests := []struct {
		name         string
		payload      string
		prepareMocks func()
		expectedCode int
		expectedBody string
	}{
		{
			name:    "success",
			payload: fmt.Sprintf(`{"waiter_id":%q,"table_number":1}`, waiter),
			prepareMocks: func() {
				commands.On("Execute", mock.Anything, domain.TabID{}, domain.OpenTab{WaiterID: waiter, TableNumber: 1}).
					Return(id, []domain.Envelope{domain.NewEnvelope(1, domain.TabOpened{ID: id, WaiterID: waiter, TableNumber: 1}, time.Now())}, nil).Once()
			},
			expectedCode: http.StatusCreated,
			expectedBody: id.String(),
		},
		{
			name:         "invalid_json",
			payload:      `bad json`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "invalid_waiter",
			payload:      `{"waiter_id":"nope","table_number":1}`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing_table",
			payload:      fmt.Sprintf(`{"waiter_id":%q}`, waiter),
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.prepareMocks()
			req := httptest.NewRequest("POST", "/api/tabs", bytes.NewBufferString(testCase.payload))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestHandler_commands(t *testing.T) {
	commands := mocks.NewCommandService(t)
	router := setupTestRouter(commands, nil, nil)
	id := domain.NewTabID()

	tests := []struct {
		name         string
		path         string
		payload      string
		prepareMocks func()
		expectedCode int
	}{
		{
			name:    "place_order",
			path:    "/api/tabs/" + id.String() + "/orders",
			payload: `{"items":[{"menu_number":1,"description":"Steak","is_drink":false,"unit_price":"10"}]}`,
			prepareMocks: func() {
				commands.On("Execute", mock.Anything, id, mock.MatchedBy(func(c domain.PlaceOrder) bool {
					return len(c.Items) == 1 && c.Items[0].UnitPrice.Equal(decimal.NewFromInt(10))
				})).Return(id, []domain.Envelope{}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "place_order_empty",
			path:         "/api/tabs/" + id.String() + "/orders",
			payload:      `{"items":[]}`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "place_order_negative_price",
			path:         "/api/tabs/" + id.String() + "/orders",
			payload:      `{"items":[{"menu_number":1,"unit_price":"-1"}]}`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "mark_food_prepared_not_outstanding",
			path:    "/api/tabs/" + id.String() + "/food/prepared",
			payload: `{"menu_numbers":[1]}`,
			prepareMocks: func() {
				commands.On("Execute", mock.Anything, id, domain.MarkFoodPrepared{MenuNumbers: []int{1}}).
					Return(domain.TabID{}, nil, &domain.MenuItemError{Err: domain.ErrFoodNotOutstanding, MenuNumber: 1}).Once()
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:    "mark_food_served_tab_not_opened",
			path:    "/api/tabs/" + id.String() + "/food/served",
			payload: `{"menu_numbers":[1]}`,
			prepareMocks: func() {
				commands.On("Execute", mock.Anything, id, domain.MarkFoodServed{MenuNumbers: []int{1}}).
					Return(domain.TabID{}, nil, domain.ErrTabNotOpened).Once()
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:    "mark_drinks_served",
			path:    "/api/tabs/" + id.String() + "/drinks/served",
			payload: `{"menu_numbers":[2,2]}`,
			prepareMocks: func() {
				commands.On("Execute", mock.Anything, id, domain.MarkDrinksServed{MenuNumbers: []int{2, 2}}).
					Return(id, []domain.Envelope{}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "mark_drinks_served_empty",
			path:         "/api/tabs/" + id.String() + "/drinks/served",
			payload:      `{"menu_numbers":[]}`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "close_tab_must_pay_enough",
			path:    "/api/tabs/" + id.String() + "/close",
			payload: `{"amount_paid":"14.99"}`,
			prepareMocks: func() {
				commands.On("Execute", mock.Anything, id, mock.AnythingOfType("domain.CloseTab")).
					Return(domain.TabID{}, nil, domain.ErrMustPayEnough).Once()
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:    "close_tab_retries_exhausted",
			path:    "/api/tabs/" + id.String() + "/close",
			payload: `{"amount_paid":"20"}`,
			prepareMocks: func() {
				commands.On("Execute", mock.Anything, id, mock.AnythingOfType("domain.CloseTab")).
					Return(domain.TabID{}, nil, service.ErrRetriesExhausted).Once()
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "invalid_tab_id",
			path:         "/api/tabs/not-a-uuid/close",
			payload:      `{"amount_paid":"20"}`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.prepareMocks()
			req := httptest.NewRequest("POST", testCase.path, bytes.NewBufferString(testCase.payload))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
		})
	}
}

func TestHandler_tabReads(t *testing.T) {
	commands := mocks.NewCommandService(t)
	qr := mocks.NewQRGenerator(t)
	router := setupTestRouter(commands, nil, qr)
	id := domain.NewTabID()
	missing := domain.NewTabID()

	commands.On("State", mock.Anything, id).Return(service.TabState{Tab: domain.Tab{ID: id, Open: true}, Version: 3}, nil)
	commands.On("State", mock.Anything, missing).Return(service.TabState{}, service.ErrTabNotFound)
	commands.On("History", mock.Anything, id).Return([]domain.Envelope{domain.NewEnvelope(1, domain.TabOpened{ID: id}, time.Now())}, nil).Once()
	commands.On("Redeliver", mock.Anything, id).Return(1, nil).Once()
	qr.On("Generate", id).Return([]byte("\x89PNG"), nil).Once()

	tests := []struct {
		name         string
		method       string
		path         string
		expectedCode int
		expectedBody string
	}{
		{name: "state", method: "GET", path: "/api/tabs/" + id.String(), expectedCode: http.StatusOK, expectedBody: `"version":3`},
		{name: "state_missing", method: "GET", path: "/api/tabs/" + missing.String(), expectedCode: http.StatusNotFound},
		{name: "events", method: "GET", path: "/api/tabs/" + id.String() + "/events", expectedCode: http.StatusOK, expectedBody: `"type":"TabOpened"`},
		{name: "replay", method: "POST", path: "/api/tabs/" + id.String() + "/replay", expectedCode: http.StatusOK, expectedBody: `"redelivered":1`},
		{name: "qrcode", method: "GET", path: "/api/tabs/" + id.String() + "/qrcode", expectedCode: http.StatusOK, expectedBody: "PNG"},
		{name: "qrcode_missing", method: "GET", path: "/api/tabs/" + missing.String() + "/qrcode", expectedCode: http.StatusNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(testCase.method, testCase.path, nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestHandler_queues(t *testing.T) {
	queues := mocks.NewQueryService(t)
	router := setupTestRouter(nil, queues, nil)
	id := domain.NewTabID()
	waiter := domain.NewWaiterID()
	items := []projection.QueueItem{{MenuNumber: 1, Description: "Steak"}}

	queues.On("KitchenQueue", mock.Anything).Return([]projection.KitchenTab{{TabID: id, Items: items}}, nil).Once()
	queues.On("KitchenTab", mock.Anything, id).Return(projection.KitchenTab{}, service.ErrTabNotFound).Once()
	queues.On("WaiterQueue", mock.Anything).Return(nil, errors.New("redis down")).Once()
	queues.On("WaiterTab", mock.Anything, id).Return(projection.WaiterTab{TabID: id, Items: items}, nil).Once()
	queues.On("WaiterTodo", mock.Anything, waiter).Return([]projection.WaiterTab{{TabID: id, WaiterID: waiter}}, nil).Once()
	queues.On("ActiveTables", mock.Anything).Return([]int{2, 5}, nil).Once()
	queues.On("InvoiceForTable", mock.Anything, 5).Return(projection.TabInvoice{
		TabID: id, TableNumber: 5,
		Lines: []domain.MenuLineItem{{MenuNumber: 1, Description: "Steak", UnitPrice: decimal.NewFromInt(10), Quantity: 2}},
	}, nil).Once()
	queues.On("InvoiceForTable", mock.Anything, 6).Return(projection.TabInvoice{}, service.ErrTableNotFound).Once()

	tests := []struct {
		name         string
		path         string
		expectedCode int
		expectedBody string
	}{
		{name: "kitchen_queue", path: "/api/kitchen/queue", expectedCode: http.StatusOK, expectedBody: `"description":"Steak"`},
		{name: "kitchen_tab_missing", path: "/api/kitchen/queue/" + id.String(), expectedCode: http.StatusNotFound},
		{name: "waiter_queue_failure", path: "/api/waiter/queue", expectedCode: http.StatusInternalServerError},
		{name: "waiter_tab", path: "/api/waiter/queue/" + id.String(), expectedCode: http.StatusOK, expectedBody: id.String()},
		{name: "waiter_todo", path: "/api/waiters/" + waiter.String() + "/queue", expectedCode: http.StatusOK, expectedBody: waiter.String()},
		{name: "waiter_todo_invalid", path: "/api/waiters/bob/queue", expectedCode: http.StatusBadRequest},
		{name: "tables", path: "/api/tables", expectedCode: http.StatusOK, expectedBody: `"tables":[2,5]`},
		{name: "invoice", path: "/api/tables/5/invoice", expectedCode: http.StatusOK, expectedBody: `"total":"20"`},
		{name: "invoice_missing", path: "/api/tables/6/invoice", expectedCode: http.StatusNotFound},
		{name: "invoice_invalid", path: "/api/tables/zero/invoice", expectedCode: http.StatusBadRequest},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", testCase.path, nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestNewRouter_Health(t *testing.T) {
	router := httpapi.NewRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}
