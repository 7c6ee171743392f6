// Package notify delivers low-stock alerts through the notification
// outbox and the WhatsApp Cloud API.
package notify

import (
	"context"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/domain/supply"
	"broilerfarm/internal/infrastructure/storage/postgres"
)

// KindLowStock identifies low-stock alerts in the outbox.
const KindLowStock = "supply.low_stock"

// LowStockAlert is the outbox payload for a supply item that dropped
// to or below its buffer stock.
type LowStockAlert struct {
	ItemID       id.ID  `json:"itemId"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	CurrentStock string `json:"currentStock"`
	BufferStock  string `json:"bufferStock"`
}

// LowStockAlerter enqueues alerts when a supply update leaves an item
// at or below its buffer stock. It subscribes to the after-update
// hooks of the supply service and the reconciliation engine; both run
// hooks inside the stock-change transaction, so the alert commits with
// the stock change.
type LowStockAlerter struct {
	queue *postgres.NotificationQueue
}

// NewLowStockAlerter creates a new low-stock alerter.
func NewLowStockAlerter(queue *postgres.NotificationQueue) *LowStockAlerter {
	return &LowStockAlerter{queue: queue}
}

// OnSupplyUpdate is a supply AfterUpdate hook.
func (a *LowStockAlerter) OnSupplyUpdate(ctx context.Context, item *supply.Item) error {
	if !item.IsLowStock() {
		return nil
	}

	alert := LowStockAlert{
		ItemID:       item.ID,
		Name:         item.Name,
		Unit:         item.Unit,
		CurrentStock: item.CurrentStock.String(),
		BufferStock:  item.BufferStock.String(),
	}
	return a.queue.Enqueue(ctx, item.OwnerID, KindLowStock, "supply_item", item.ID, alert)
}
