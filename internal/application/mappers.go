package application

import (
	"github.com/smartdine/restaurant-service/internal/domain"
)

// ToIngredientDTO converts a domain Ingredient to its DTO
func ToIngredientDTO(i *domain.Ingredient) *IngredientDTO {
	return &IngredientDTO{
		ID:              i.ID,
		Name:            i.Name,
		Unit:            string(i.Unit),
		Quantity:        i.Quantity,
		ReorderLevel:    i.ReorderLevel,
		ReorderQuantity: i.ReorderQuantity,
		PricePerUnit:    i.PricePerUnit,
		Status:          string(i.Status()),
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// ToIngredientDTOs converts a slice of ingredients
func ToIngredientDTOs(items []*domain.Ingredient) []*IngredientDTO {
	dtos := make([]*IngredientDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ToIngredientDTO(item))
	}
	return dtos
}

// ToLedgerEntryDTO converts a ledger entry to its DTO
func ToLedgerEntryDTO(e *domain.StockLedgerEntry) *LedgerEntryDTO {
	return &LedgerEntryDTO{
		ID:               e.ID,
		IngredientID:     e.IngredientID,
		IngredientName:   e.IngredientName,
		Action:           string(e.Action),
		QuantityChanged:  e.QuantityChanged,
		PreviousQuantity: e.PreviousQuantity,
		NewQuantity:      e.NewQuantity,
		Note:             e.Note,
		CreatedAt:        e.CreatedAt,
	}
}

// ToLedgerEntryDTOs converts a slice of ledger entries
func ToLedgerEntryDTOs(entries []*domain.StockLedgerEntry) []*LedgerEntryDTO {
	dtos := make([]*LedgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, ToLedgerEntryDTO(e))
	}
	return dtos
}

// ToRequirementDTO converts a recipe requirement to its DTO
func ToRequirementDTO(r *domain.RecipeRequirement) *RequirementDTO {
	return &RequirementDTO{
		MenuItemID:   r.MenuItemID,
		IngredientID: r.IngredientID,
		Quantity:     r.Quantity,
	}
}

// ToRequirementDTOs converts a slice of recipe requirements
func ToRequirementDTOs(rows []*domain.RecipeRequirement) []*RequirementDTO {
	dtos := make([]*RequirementDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, ToRequirementDTO(row))
	}
	return dtos
}

// ToMenuItemDTO converts a menu item to its DTO
func ToMenuItemDTO(m *domain.MenuItem) *MenuItemDTO {
	return &MenuItemDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Price:       m.Price,
	}
}

// ToOrderDTO converts an order to its DTO
func ToOrderDTO(o *domain.Order) *OrderDTO {
	lines := make([]OrderLineDTO, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, OrderLineDTO{
			MenuItemID:   line.MenuItemID,
			MenuItemName: line.MenuItemName,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			Instructions: line.Instructions,
		})
	}

	return &OrderDTO{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		Type:          string(o.Type),
		TableID:       o.TableID,
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		Lines:         lines,
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		CompletedAt:   o.CompletedAt,
	}
}

// ToOrderDTOs converts a slice of orders
func ToOrderDTOs(orders []*domain.Order) []*OrderDTO {
	dtos := make([]*OrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, ToOrderDTO(o))
	}
	return dtos
}

// ToCartDTO converts a cart to its DTO
func ToCartDTO(c *domain.Cart) *CartDTO {
	lines := make([]OrderLineDTO, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, OrderLineDTO{
			MenuItemID:   line.MenuItemID,
			MenuItemName: line.MenuItemName,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
		})
	}

	return &CartDTO{
		SessionID: c.SessionID,
		Lines:     lines,
		Total:     c.Total(),
	}
}

// ToTableDTO converts a table to its DTO
func ToTableDTO(t *domain.Table) *TableDTO {
	return &TableDTO{
		ID:       t.ID,
		Number:   t.Number,
		Capacity: t.Capacity,
		Status:   string(t.Status),
	}
}

// ToReservationDTO converts a reservation to its DTO
func ToReservationDTO(r *domain.Reservation) *ReservationDTO {
	return &ReservationDTO{
		ID:            r.ID,
		TableID:       r.TableID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		PartySize:     r.PartySize,
		BookingTime:   r.BookingTime,
		Status:        string(r.Status),
		Note:          r.Note,
		CreatedAt:     r.CreatedAt,
	}
}

// ToReservationDTOs converts a slice of reservations
func ToReservationDTOs(reservations []*domain.Reservation) []*ReservationDTO {
	dtos := make([]*ReservationDTO, 0, len(reservations))
	for _, r := range reservations {
		dtos = append(dtos, ToReservationDTO(r))
	}
	return dtos
}
