package service

import (
	"context"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/projection"
	"cafe-tab/internal/storage"

	"github.com/segmentio/kafka-go"
)

type EventStore interface {
	Load(ctx context.Context, id domain.TabID) ([]domain.Envelope, error)
	Append(ctx context.Context, id domain.TabID, expectedVersion int64, events []domain.Event) ([]domain.Envelope, error)
}

type CommandService interface {
	Execute(ctx context.Context, id domain.TabID, cmd domain.Command) (domain.TabID, []domain.Envelope, error)
	State(ctx context.Context, id domain.TabID) (TabState, error)
	History(ctx context.Context, id domain.TabID) ([]domain.Envelope, error)
	Redeliver(ctx context.Context, id domain.TabID) (int, error)
}

type QueryService interface {
	KitchenQueue(ctx context.Context) ([]projection.KitchenTab, error)
	KitchenTab(ctx context.Context, id domain.TabID) (projection.KitchenTab, error)
	WaiterQueue(ctx context.Context) ([]projection.WaiterTab, error)
	WaiterTab(ctx context.Context, id domain.TabID) (projection.WaiterTab, error)
	WaiterTodo(ctx context.Context, waiterID domain.WaiterID) ([]projection.WaiterTab, error)
	ActiveTables(ctx context.Context) ([]int, error)
	InvoiceForTable(ctx context.Context, table int) (projection.TabInvoice, error)
	TabForTable(ctx context.Context, table int) (domain.TabID, error)
}

type QRGenerator interface {
	Generate(id domain.TabID) ([]byte, error)
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

var (
	_ EventStore     = (*storage.PostgresEventStore)(nil)
	_ EventStore     = (*storage.MemoryEventStore)(nil)
	_ CommandService = (*Dispatcher)(nil)
	_ QueryService   = (*QueueService)(nil)
	_ QRGenerator    = DefaultQRGenerator{}
	_ MessageReader  = (*kafka.Reader)(nil)

	_ projection.Projection = (*storage.KafkaPublisher)(nil)
)
