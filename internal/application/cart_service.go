package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartdine/restaurant-service/internal/domain"
	"github.com/smartdine/restaurant-service/pkg/errors"
	"github.com/smartdine/restaurant-service/pkg/logging"
)

// CartApplicationService manages session carts. Carts reserve nothing;
// stock is only committed at checkout, which funnels through the order
// service's atomic deduction.
type CartApplicationService struct {
	carts  domain.CartRepository
	menu   domain.MenuRepository
	orders *OrderApplicationService
	logger *logging.Logger
}

// NewCartApplicationService creates a new CartApplicationService
func NewCartApplicationService(
	carts domain.CartRepository,
	menu domain.MenuRepository,
	orders *OrderApplicationService,
	logger *logging.Logger,
) *CartApplicationService {
	return &CartApplicationService{
		carts:  carts,
		menu:   menu,
		orders: orders,
		logger: logger,
	}
}

// GetCart returns the cart for a session, creating an empty one if the
// session has none yet
func (s *CartApplicationService) GetCart(ctx context.Context, sessionID string) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ToCartDTO(cart), nil
}

// AddItem adds a menu item to the session cart
func (s *CartApplicationService) AddItem(ctx context.Context, cmd AddCartItemCommand) (*CartDTO, error) {
	item, err := s.menu.FindByID(ctx, cmd.MenuItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return nil, errors.ErrNotFoundWithID("menu item", cmd.MenuItemID)
	}

	cart, err := s.loadOrCreate(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	if err := cart.AddItem(item.ID, item.Name, cmd.Quantity, item.Price); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", "sessionId", cmd.SessionID, "error", err)
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return ToCartDTO(cart), nil
}

// UpdateItem changes the quantity of a cart line; zero removes it
func (s *CartApplicationService) UpdateItem(ctx context.Context, cmd UpdateCartItemCommand) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	if err := cart.UpdateItem(cmd.MenuItemID, cmd.Quantity); err != nil {
		if err == domain.ErrMenuItemNotFound {
			return nil, errors.ErrNotFoundWithID("cart item", cmd.MenuItemID)
		}
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", "sessionId", cmd.SessionID, "error", err)
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return ToCartDTO(cart), nil
}

// RemoveItem deletes one line from the session cart
func (s *CartApplicationService) RemoveItem(ctx context.Context, sessionID, menuItemID string) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := cart.RemoveItem(menuItemID); err != nil {
		if err == domain.ErrMenuItemNotFound {
			return nil, errors.ErrNotFoundWithID("cart item", menuItemID)
		}
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", "sessionId", sessionID, "error", err)
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return ToCartDTO(cart), nil
}

// ClearCart empties the session cart without placing an order
func (s *CartApplicationService) ClearCart(ctx context.Context, sessionID string) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.Clear()
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to clear cart", "sessionId", sessionID, "error", err)
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	return ToCartDTO(cart), nil
}

// Checkout converts the session cart into an order. The cart is
// cleared only after the order commits; a rejected checkout leaves the
// cart intact so the customer can amend it.
func (s *CartApplicationService) Checkout(ctx context.Context, cmd CheckoutCommand) (*OrderDTO, error) {
	cart, err := s.loadOrCreate(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, errors.ErrValidation(domain.ErrEmptyCart.Error())
	}

	lineInputs := make([]OrderLineInput, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lineInputs = append(lineInputs, OrderLineInput{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
		})
	}

	order, err := s.orders.PlaceOrder(ctx, PlaceOrderCommand{
		CustomerName:  cmd.CustomerName,
		Type:          cmd.Type,
		TableID:       cmd.TableID,
		PaymentMethod: cmd.PaymentMethod,
		Lines:         lineInputs,
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Delete(ctx, cart.ID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout", "sessionId", cmd.SessionID, "error", err)
	}

	s.logger.Info("Checked out cart", "sessionId", cmd.SessionID, "orderId", order.ID)
	return order, nil
}

func (s *CartApplicationService) loadOrCreate(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, errors.ErrValidation("session ID is required")
	}

	cart, err := s.carts.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		cart = domain.NewCart(uuid.New().String(), sessionID)
	}
	return cart, nil
}
