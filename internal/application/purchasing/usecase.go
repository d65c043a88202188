// Package purchasing records received goods and completes the matching
// purchase orders.
package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/pharmstock/pharmstock-api/internal/application/dto"
	"github.com/pharmstock/pharmstock-api/internal/application/notify"
	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
	"github.com/pharmstock/pharmstock-api/pkg/logger"
)

// TxRunner runs a function inside one DB transaction with repositories
// bound to that transaction. Recording the receipt and completing its
// purchase order commit together.
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		purchases repository.PurchaseRepository,
		purchaseOrders repository.PurchaseOrderRepository,
	) error) error
}

// UseCase drives goods receipt and the purchase order ledger.
type UseCase struct {
	purchaseOrders repository.PurchaseOrderRepository
	txRunner       TxRunner
	notifier       *notify.Notifier
	log            *logger.Logger
}

// NewUseCase builds the purchasing use case.
func NewUseCase(
	purchaseOrders repository.PurchaseOrderRepository,
	txRunner TxRunner,
	notifier *notify.Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		purchaseOrders: purchaseOrders,
		txRunner:       txRunner,
		notifier:       notifier,
		log:            log,
	}
}

// RecordPurchase stores the receipt and, when a po_number is given, flips
// that purchase order to Completed in the same transaction. A po_number
// that matches no order fails the whole receipt; an empty po_number records
// a free-standing receipt.
func (uc *UseCase) RecordPurchase(ctx context.Context, actor entity.Actor, req dto.RecordPurchaseRequest) error {
	if req.SupplierID <= 0 {
		return fmt.Errorf("supplier_id is required: %w", domain.ErrInvalidInput)
	}
	if req.Amount.IsNegative() {
		return fmt.Errorf("amount cannot be negative: %w", domain.ErrInvalidInput)
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	purchase := &entity.Purchase{
		PONumber:   req.PONumber,
		SupplierID: req.SupplierID,
		Date:       date,
		Amount:     req.Amount,
	}

	var completed *entity.PurchaseOrder
	err := uc.txRunner.RunPurchasing(ctx, func(
		purchases repository.PurchaseRepository,
		purchaseOrders repository.PurchaseOrderRepository,
	) error {
		if err := purchases.Create(ctx, purchase); err != nil {
			return fmt.Errorf("record purchase: %w", err)
		}
		if req.PONumber == "" {
			return nil
		}
		po, err := purchaseOrders.GetByNumber(ctx, req.PONumber)
		if err != nil {
			return fmt.Errorf("purchase order %s: %w", req.PONumber, err)
		}
		if po.Status == entity.POStatusCompleted {
			return nil
		}
		if err := purchaseOrders.UpdateStatus(ctx, po.ID, entity.POStatusCompleted); err != nil {
			return fmt.Errorf("complete purchase order %s: %w", req.PONumber, err)
		}
		completed = po
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("po_number", req.PONumber).
		Str("amount", req.Amount.String()).
		Msg("purchase recorded")

	if completed != nil {
		uc.notifier.Emit(ctx, actor, notify.EventPOCompleted,
			"Purchase Order Completed",
			"Purchase order {{po_number}} was completed at {{timestamp}}.",
			map[string]string{"po_number": completed.PONumber})
	}
	return nil
}

// GetPurchaseOrder loads the order with its items.
func (uc *UseCase) GetPurchaseOrder(ctx context.Context, id int64) (*entity.PurchaseOrder, []*entity.PurchaseOrderItem, error) {
	po, err := uc.purchaseOrders.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("purchase order %d: %w", id, err)
	}
	items, err := uc.purchaseOrders.ListItems(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("purchase order %d items: %w", id, err)
	}
	return po, items, nil
}

// ListPurchaseOrders returns every purchase order.
func (uc *UseCase) ListPurchaseOrders(ctx context.Context) ([]*entity.PurchaseOrder, error) {
	pos, err := uc.purchaseOrders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return pos, nil
}

// DeletePurchaseOrder removes the order and its items.
func (uc *UseCase) DeletePurchaseOrder(ctx context.Context, actor entity.Actor, id int64) error {
	po, err := uc.purchaseOrders.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("purchase order %d: %w", id, err)
	}
	if err := uc.purchaseOrders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete purchase order %d: %w", id, err)
	}
	uc.notifier.Emit(ctx, actor, notify.EventPODeleted,
		"Purchase Order Deleted",
		"{{performer_name}} deleted purchase order {{po_number}} at {{timestamp}}.",
		map[string]string{"po_number": po.PONumber})
	return nil
}
