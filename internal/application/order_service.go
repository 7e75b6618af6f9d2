package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartdine/restaurant-service/internal/domain"
	"github.com/smartdine/restaurant-service/pkg/errors"
	"github.com/smartdine/restaurant-service/pkg/locking"
	"github.com/smartdine/restaurant-service/pkg/logging"
	"github.com/smartdine/restaurant-service/pkg/metrics"
)

// OrderApplicationService drives the order lifecycle. Placing an order
// deducts stock for all lines atomically; cancelling a non-terminal
// order restores that stock exactly once, serialized by a per-order
// lock so concurrent cancels cannot both refund.
type OrderApplicationService struct {
	orders  domain.OrderRepository
	menu    domain.MenuRepository
	tables  domain.TableRepository
	stock   *StockTransactionService
	locks   *locking.KeyedMutex
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewOrderApplicationService creates a new OrderApplicationService
func NewOrderApplicationService(
	orders domain.OrderRepository,
	menu domain.MenuRepository,
	tables domain.TableRepository,
	stock *StockTransactionService,
	locks *locking.KeyedMutex,
	m *metrics.Metrics,
	logger *logging.Logger,
) *OrderApplicationService {
	return &OrderApplicationService{
		orders:  orders,
		menu:    menu,
		tables:  tables,
		stock:   stock,
		locks:   locks,
		metrics: m,
		logger:  logger,
	}
}

// PlaceOrder accepts an order, deducting stock for every line as one
// atomic movement. If any ingredient cannot cover the merged demand
// the whole order is rejected and nothing is written.
func (s *OrderApplicationService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*OrderDTO, error) {
	orderType := domain.OrderType(cmd.Type)
	if !orderType.IsValid() {
		return nil, errors.ErrValidation(fmt.Sprintf("unknown order type %q", cmd.Type))
	}
	if orderType == domain.OrderTypeDineIn && cmd.TableID == "" {
		return nil, errors.ErrValidation("dine-in orders require a table")
	}

	payment := domain.PaymentMethod(cmd.PaymentMethod)
	if payment == "" {
		payment = domain.PaymentCard
	}
	if !payment.IsValid() {
		return nil, errors.ErrValidation(fmt.Sprintf("unknown payment method %q", cmd.PaymentMethod))
	}

	lines, err := s.resolveLines(ctx, cmd.Lines)
	if err != nil {
		return nil, err
	}

	order, err := domain.NewOrder(uuid.New().String(), cmd.CustomerName, orderType, payment, cmd.TableID, lines)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	required, err := s.stock.RequirementsForLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	note := fmt.Sprintf("Used for order #%s", order.ID)
	if _, err := s.stock.DeductRequirements(ctx, required, note); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		// Stock is already committed; put it back before failing.
		restoreNote := fmt.Sprintf("Restored from failed order #%s", order.ID)
		if _, restoreErr := s.stock.RestoreRequirements(ctx, required, restoreNote); restoreErr != nil {
			s.logger.Error("Failed to restore stock after order save failure",
				"orderId", order.ID, "error", restoreErr)
		}
		s.logger.Error("Failed to save order", "orderId", order.ID, "error", err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if orderType == domain.OrderTypeDineIn {
		s.occupyTable(ctx, cmd.TableID)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(string(orderType))
	}
	s.logger.Info("Placed order", "orderId", order.ID, "type", string(orderType), "total", order.Total)
	return ToOrderDTO(order), nil
}

// GetOrder retrieves an order by ID
func (s *OrderApplicationService) GetOrder(ctx context.Context, id string) (*OrderDTO, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, errors.ErrNotFoundWithID("order", id)
	}
	return ToOrderDTO(order), nil
}

// ListOrders returns all orders, optionally filtered by status
func (s *OrderApplicationService) ListOrders(ctx context.Context, status string) ([]*OrderDTO, error) {
	var orders []*domain.Order
	var err error
	if status != "" {
		filter := domain.OrderStatus(status)
		if !filter.IsValid() {
			return nil, errors.ErrValidation(fmt.Sprintf("unknown order status %q", status))
		}
		orders, err = s.orders.FindByStatus(ctx, filter)
	} else {
		orders, err = s.orders.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return ToOrderDTOs(orders), nil
}

// UpdateStatus moves an order along its lifecycle. A transition to
// Cancelled triggers the one-time stock restoration.
func (s *OrderApplicationService) UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (*OrderDTO, error) {
	next := domain.OrderStatus(cmd.Status)
	if !next.IsValid() {
		return nil, errors.ErrValidation(fmt.Sprintf("unknown order status %q", cmd.Status))
	}

	if next == domain.OrderCancelled {
		return s.cancel(ctx, cmd.OrderID)
	}

	order, err := s.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, errors.ErrNotFoundWithID("order", cmd.OrderID)
	}

	if err := order.TransitionTo(next); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("Failed to update order", "orderId", order.ID, "error", err)
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if next == domain.OrderCompleted && order.Type == domain.OrderTypeDineIn {
		s.releaseTable(ctx, order.TableID)
	}

	s.logger.Info("Updated order status", "orderId", order.ID, "status", string(next))
	return ToOrderDTO(order), nil
}

// Cancel cancels a non-terminal order and restores its stock
func (s *OrderApplicationService) Cancel(ctx context.Context, orderID string) (*OrderDTO, error) {
	return s.cancel(ctx, orderID)
}

// cancel holds the per-order lock across the whole read-check-restore
// sequence. Without it, two concurrent cancels could each load a
// Pending snapshot, each pass the StockRestored guard, and refund the
// ingredients twice.
func (s *OrderApplicationService) cancel(ctx context.Context, orderID string) (*OrderDTO, error) {
	unlock := s.locks.Lock(orderID)
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, errors.ErrNotFoundWithID("order", orderID)
	}

	if err := order.Cancel(); err != nil {
		return nil, errors.ErrConflict(err.Error())
	}

	// StockRestored guards re-entry: a cancellation that already
	// refunded its ingredients must never refund them again.
	if !order.StockRestored {
		required, err := s.stock.RequirementsForLines(ctx, order.Lines)
		if err != nil {
			return nil, err
		}

		note := fmt.Sprintf("Restored from cancelled order #%s", order.ID)
		if _, err := s.stock.RestoreRequirements(ctx, required, note); err != nil {
			return nil, err
		}
		order.MarkStockRestored()
	}

	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("Failed to update cancelled order", "orderId", order.ID, "error", err)
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if order.Type == domain.OrderTypeDineIn {
		s.releaseTable(ctx, order.TableID)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCancelled()
	}
	s.logger.Info("Cancelled order", "orderId", order.ID)
	return ToOrderDTO(order), nil
}

func (s *OrderApplicationService) resolveLines(ctx context.Context, inputs []OrderLineInput) ([]domain.OrderLine, error) {
	if len(inputs) == 0 {
		return nil, errors.ErrValidation("order must contain at least one line")
	}

	lines := make([]domain.OrderLine, 0, len(inputs))
	for _, input := range inputs {
		if input.Quantity <= 0 {
			return nil, errors.ErrValidation("line quantity must be positive")
		}

		item, err := s.menu.FindByID(ctx, input.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to get menu item: %w", err)
		}
		if item == nil {
			return nil, errors.ErrNotFoundWithID("menu item", input.MenuItemID)
		}

		lines = append(lines, domain.OrderLine{
			MenuItemID:   item.ID,
			MenuItemName: item.Name,
			Quantity:     input.Quantity,
			UnitPrice:    item.Price,
			Instructions: input.Instructions,
		})
	}
	return lines, nil
}

func (s *OrderApplicationService) occupyTable(ctx context.Context, tableID string) {
	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil || table == nil {
		s.logger.Warn("Could not occupy table", "tableId", tableID, "error", err)
		return
	}
	table.Occupy()
	if err := s.tables.Update(ctx, table); err != nil {
		s.logger.Warn("Failed to update table status", "tableId", tableID, "error", err)
	}
}

func (s *OrderApplicationService) releaseTable(ctx context.Context, tableID string) {
	if tableID == "" {
		return
	}
	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil || table == nil {
		s.logger.Warn("Could not release table", "tableId", tableID, "error", err)
		return
	}
	table.Release()
	if err := s.tables.Update(ctx, table); err != nil {
		s.logger.Warn("Failed to update table status", "tableId", tableID, "error", err)
	}
}
