// Package inventory implements replenishment: the idempotent low-stock scan
// and the fan-out of purchase orders to suppliers.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/application/dto"
	"github.com/pharmstock/pharmstock-api/internal/application/notify"
	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
	"github.com/pharmstock/pharmstock-api/pkg/logger"
)

// UseCase drives the replenishment flow.
type UseCase struct {
	lowStock       repository.LowStockItemRepository
	products       repository.ProductRepository
	suppliers      repository.SupplierRepository
	purchaseOrders repository.PurchaseOrderRepository
	txRunner       TxRunner
	mailer         Mailer
	notifier       *notify.Notifier
	threshold      decimal.Decimal
	log            *logger.Logger
}

// NewUseCase builds the replenishment use case. threshold is the aggregate
// stock below which a product needs reordering.
func NewUseCase(
	lowStock repository.LowStockItemRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	purchaseOrders repository.PurchaseOrderRepository,
	txRunner TxRunner,
	mailer Mailer,
	notifier *notify.Notifier,
	threshold int,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		lowStock:       lowStock,
		products:       products,
		suppliers:      suppliers,
		purchaseOrders: purchaseOrders,
		txRunner:       txRunner,
		mailer:         mailer,
		notifier:       notifier,
		threshold:      decimal.NewFromInt(int64(threshold)),
		log:            log,
	}
}

// Generate scans aggregate product stock and raises one Pending request per
// (product, supplier) pair below the threshold. Re-running changes nothing:
// existing rows are left exactly as they are, and their ids are still
// reported. Products without a supplier are skipped.
func (uc *UseCase) Generate(ctx context.Context, actor entity.Actor) (*dto.GenerateLowStockResponse, error) {
	candidates, err := uc.products.ListReplenishmentCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}

	resp := &dto.GenerateLowStockResponse{}
	for _, c := range candidates {
		if c.CurrentStock.GreaterThanOrEqual(uc.threshold) {
			continue
		}
		if c.SupplierID == nil {
			uc.log.Warn().
				Int64("product_id", c.ProductID).
				Str("stock", c.CurrentStock.String()).
				Msg("low stock but no supplier, skipping")
			continue
		}
		item := &entity.LowStockItem{
			ProductID:    c.ProductID,
			SupplierID:   *c.SupplierID,
			RequestedQty: c.CurrentStock,
			BuyPrice:     c.BuyPrice,
			Status:       entity.LowStockStatusPending,
		}
		id, created, err := uc.lowStock.FirstOrCreate(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("record low stock for product %d: %w", c.ProductID, err)
		}
		resp.IDs = append(resp.IDs, id)
		if created {
			resp.Created++
		}
	}

	uc.log.Info().
		Int("candidates", len(candidates)).
		Int("flagged", len(resp.IDs)).
		Int("created", resp.Created).
		Msg("low stock scan complete")

	if resp.Created > 0 {
		uc.notifier.Emit(ctx, actor, notify.EventLowStockGenerate,
			"Low Stock Items Generated",
			"{{performer_name}} generated {{count}} low stock item(s) at {{timestamp}}.",
			map[string]string{"count": fmt.Sprintf("%d", resp.Created)})
	}
	return resp, nil
}

// CreateManual records a replenishment request by hand, subject to the same
// (product, supplier) uniqueness as the scan.
func (uc *UseCase) CreateManual(ctx context.Context, actor entity.Actor, req dto.CreateLowStockRequest) (*dto.LowStockItemResponse, error) {
	if req.ProductID <= 0 || req.SupplierID <= 0 {
		return nil, fmt.Errorf("product_id and supplier_id are required: %w", domain.ErrInvalidInput)
	}
	if req.RequestedQty.IsNegative() || req.BuyPrice.IsNegative() {
		return nil, fmt.Errorf("requested_qty and buy_price cannot be negative: %w", domain.ErrInvalidInput)
	}
	if _, err := uc.products.GetByID(ctx, req.ProductID); err != nil {
		return nil, fmt.Errorf("product %d: %w", req.ProductID, err)
	}
	if _, err := uc.suppliers.GetByID(ctx, req.SupplierID); err != nil {
		return nil, fmt.Errorf("supplier %d: %w", req.SupplierID, err)
	}

	item := &entity.LowStockItem{
		ProductID:    req.ProductID,
		SupplierID:   req.SupplierID,
		RequestedQty: req.RequestedQty,
		BuyPrice:     req.BuyPrice,
		Status:       entity.LowStockStatusPending,
	}
	if err := uc.lowStock.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create low stock item: %w", err)
	}

	uc.notifier.Emit(ctx, actor, notify.EventLowStockCreated,
		"Low Stock Item Added",
		"{{performer_name}} added a low stock item for product #{{product_id}} at {{timestamp}}.",
		map[string]string{"product_id": fmt.Sprintf("%d", req.ProductID)})

	return toLowStockResponse(item), nil
}

// List returns every replenishment request.
func (uc *UseCase) List(ctx context.Context) ([]*dto.LowStockItemResponse, error) {
	items, err := uc.lowStock.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock items: %w", err)
	}
	out := make([]*dto.LowStockItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toLowStockResponse(item))
	}
	return out, nil
}

// SendToSuppliers raises one purchase order per supplier group, marks the
// matching low-stock rows Sent in the same transaction, and emails each
// supplier after their order commits. A failed email does not undo the
// order; it is logged and reported.
func (uc *UseCase) SendToSuppliers(ctx context.Context, actor entity.Actor, req dto.SendLowStockRequest) (*dto.SendLowStockResponse, error) {
	if len(req.Suppliers) == 0 {
		return nil, fmt.Errorf("at least one supplier group is required: %w", domain.ErrInvalidInput)
	}

	resp := &dto.SendLowStockResponse{}
	for _, group := range req.Suppliers {
		if len(group.Items) == 0 {
			return nil, fmt.Errorf("supplier %d: empty item list: %w", group.SupplierID, domain.ErrInvalidInput)
		}
		supplier, err := uc.suppliers.GetByID(ctx, group.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("supplier %d: %w", group.SupplierID, err)
		}

		poNumber, err := uc.newPONumber(ctx)
		if err != nil {
			return nil, err
		}
		po := &entity.PurchaseOrder{
			PONumber:   poNumber,
			SupplierID: group.SupplierID,
			Status:     entity.POStatusOrderCreated,
		}
		if !group.DeliveryDeadline.IsZero() {
			deadline := group.DeliveryDeadline
			po.DeliveryDeadline = &deadline
		}

		var items []*entity.PurchaseOrderItem
		err = uc.txRunner.RunProcurement(ctx, func(
			lowStock repository.LowStockItemRepository,
			purchaseOrders repository.PurchaseOrderRepository,
		) error {
			if err := purchaseOrders.Create(ctx, po); err != nil {
				return fmt.Errorf("create purchase order %s: %w", poNumber, err)
			}
			for _, in := range group.Items {
				item := &entity.PurchaseOrderItem{
					PurchaseOrderID: po.ID,
					ProductID:       in.ProductID,
					RequestedQty:    in.RequestedQty,
					BuyPrice:        in.BuyPrice,
				}
				if err := purchaseOrders.CreateItem(ctx, item); err != nil {
					return fmt.Errorf("create purchase order item (product %d): %w", in.ProductID, err)
				}
				items = append(items, item)

				if err := lowStock.MarkSent(ctx, &entity.LowStockItem{
					ProductID:    in.ProductID,
					SupplierID:   group.SupplierID,
					RequestedQty: in.RequestedQty,
					BuyPrice:     in.BuyPrice,
					Status:       entity.LowStockStatusSent,
				}); err != nil {
					return fmt.Errorf("mark low stock sent (product %d): %w", in.ProductID, err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		resp.PONumbers = append(resp.PONumbers, poNumber)

		uc.mailSupplier(ctx, supplier, po, items)

		uc.notifier.Emit(ctx, actor, notify.EventLowStockSent,
			"Purchase Order Sent",
			"{{performer_name}} sent purchase order {{po_number}} to {{supplier}} at {{timestamp}}.",
			map[string]string{"po_number": poNumber, "supplier": supplier.Name})
	}
	return resp, nil
}

// mailSupplier delivers the purchase order. The order already committed, so
// a delivery failure is logged rather than propagated.
func (uc *UseCase) mailSupplier(ctx context.Context, supplier *entity.Supplier, po *entity.PurchaseOrder, items []*entity.PurchaseOrderItem) {
	if supplier.Email == "" {
		uc.log.Warn().
			Int64("supplier_id", supplier.ID).
			Str("po_number", po.PONumber).
			Msg("supplier has no email, purchase order not mailed")
		return
	}
	names := make(map[int64]string, len(items))
	for _, item := range items {
		if product, err := uc.products.GetByID(ctx, item.ProductID); err == nil {
			names[item.ProductID] = product.Name
		}
	}
	if err := uc.mailer.SendPurchaseOrder(ctx, supplier.Email, supplier, po, items, names); err != nil {
		uc.log.Error().Err(err).
			Str("po_number", po.PONumber).
			Str("to", supplier.Email).
			Msg("mail purchase order")
	}
}

// newPONumber draws PO-<6 uppercase chars> and retries on collision.
func (uc *UseCase) newPONumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		raw := strings.ReplaceAll(uuid.NewString(), "-", "")
		candidate := "PO-" + strings.ToUpper(raw[:6])
		_, err := uc.purchaseOrders.GetByNumber(ctx, candidate)
		if errors.Is(err, domain.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check purchase order number: %w", err)
		}
	}
	return "", fmt.Errorf("could not draw a unique purchase order number")
}

func toLowStockResponse(item *entity.LowStockItem) *dto.LowStockItemResponse {
	return &dto.LowStockItemResponse{
		ID:           item.ID,
		ProductID:    item.ProductID,
		SupplierID:   item.SupplierID,
		RequestedQty: item.RequestedQty,
		BuyPrice:     item.BuyPrice,
		Status:       item.Status,
	}
}
