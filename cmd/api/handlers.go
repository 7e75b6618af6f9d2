package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smartdine/restaurant-service/internal/application"
	"github.com/smartdine/restaurant-service/pkg/errors"
	"github.com/smartdine/restaurant-service/pkg/logging"
	"github.com/smartdine/restaurant-service/pkg/middleware"
)

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.AbortWithAppError(c, errors.ErrValidation(err.Error()))
		return false
	}
	return true
}

func registerIngredientRoutes(api *gin.RouterGroup, service *application.InventoryApplicationService, logger *logging.Logger) {
	group := api.Group("/ingredients")

	group.POST("", func(c *gin.Context) {
		var cmd application.CreateIngredientCommand
		if !bindJSON(c, &cmd) {
			return
		}
		ingredient, err := service.CreateIngredient(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ingredient)
	})

	group.GET("", func(c *gin.Context) {
		ingredients, err := service.ListIngredients(c.Request.Context())
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredients)
	})

	group.GET("/low-stock", func(c *gin.Context) {
		ingredients, err := service.ListLowStock(c.Request.Context())
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredients)
	})

	group.GET("/ledger", func(c *gin.Context) {
		entries, err := service.FullLedger(c.Request.Context(), queryLimit(c))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	})

	group.GET("/:id", func(c *gin.Context) {
		ingredient, err := service.GetIngredient(c.Request.Context(), application.GetIngredientQuery{IngredientID: c.Param("id")})
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredient)
	})

	group.PUT("/:id/adjust", func(c *gin.Context) {
		var cmd application.AdjustStockCommand
		if !bindJSON(c, &cmd) {
			return
		}
		cmd.IngredientID = c.Param("id")
		ingredient, err := service.Adjust(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredient)
	})

	group.POST("/:id/refill", func(c *gin.Context) {
		var cmd application.RefillStockCommand
		if !bindJSON(c, &cmd) {
			return
		}
		cmd.IngredientID = c.Param("id")
		ingredient, err := service.Refill(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredient)
	})

	group.POST("/:id/return", func(c *gin.Context) {
		var cmd application.RefillStockCommand
		if !bindJSON(c, &cmd) {
			return
		}
		cmd.IngredientID = c.Param("id")
		ingredient, err := service.Return(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredient)
	})

	group.POST("/:id/damage", func(c *gin.Context) {
		var cmd application.RecordDamageCommand
		if !bindJSON(c, &cmd) {
			return
		}
		cmd.IngredientID = c.Param("id")
		ingredient, err := service.RecordDamage(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredient)
	})

	group.POST("/:id/restock", func(c *gin.Context) {
		ingredient, err := service.RestockToReorderLevel(c.Request.Context(), application.RestockCommand{IngredientID: c.Param("id")})
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredient)
	})

	group.GET("/:id/history", func(c *gin.Context) {
		entries, err := service.History(c.Request.Context(), application.LedgerHistoryQuery{
			IngredientID: c.Param("id"),
			Limit:        queryLimit(c),
		})
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	})

	group.DELETE("/:id", func(c *gin.Context) {
		if err := service.DeleteIngredient(c.Request.Context(), c.Param("id")); err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func registerMenuRoutes(api *gin.RouterGroup, recipes *application.RecipeApplicationService, availability *application.AvailabilityService, logger *logging.Logger) {
	group := api.Group("/menu")

	group.POST("", func(c *gin.Context) {
		var cmd application.CreateMenuItemCommand
		if !bindJSON(c, &cmd) {
			return
		}
		item, err := recipes.CreateMenuItem(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	})

	group.GET("", func(c *gin.Context) {
		items, err := recipes.ListMenu(c.Request.Context())
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	})

	group.GET("/availability", func(c *gin.Context) {
		results, err := availability.MenuAvailability(c.Request.Context())
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	})

	group.GET("/:id", func(c *gin.Context) {
		item, err := recipes.GetMenuItem(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	})

	group.DELETE("/:id", func(c *gin.Context) {
		if err := recipes.DeleteMenuItem(c.Request.Context(), c.Param("id")); err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	group.GET("/:id/availability", func(c *gin.Context) {
		servings := 1.0
		if raw := c.Query("servings"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed <= 0 {
				middleware.AbortWithAppError(c, errors.ErrValidation("servings must be a positive number"))
				return
			}
			servings = parsed
		}
		result, err := availability.CheckAvailability(c.Request.Context(), application.AvailabilityQuery{
			MenuItemID: c.Param("id"),
			Servings:   servings,
		})
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	group.GET("/:id/recipe", func(c *gin.Context) {
		rows, err := recipes.GetRecipe(c.Request.Context(), application.GetRecipeQuery{MenuItemID: c.Param("id")})
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	group.PUT("/:id/recipe", func(c *gin.Context) {
		var cmd application.UpsertRequirementCommand
		if !bindJSON(c, &cmd) {
			return
		}
		cmd.MenuItemID = c.Param("id")
		row, err := recipes.UpsertRequirement(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	})

	group.DELETE("/:id/recipe/:ingredientId", func(c *gin.Context) {
		err := recipes.RemoveRequirement(c.Request.Context(), application.RemoveRequirementCommand{
			MenuItemID:   c.Param("id"),
			IngredientID: c.Param("ingredientId"),
		})
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func registerStockRoutes(api *gin.RouterGroup, service *application.StockTransactionService, logger *logging.Logger) {
	group := api.Group("/stock")

	group.POST("/deduct", func(c *gin.Context) {
		var cmd application.DeductCommand
		if !bindJSON(c, &cmd) {
			return
		}
		updated, err := service.Deduct(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	group.POST("/restore", func(c *gin.Context) {
		var cmd application.RestoreCommand
		if !bindJSON(c, &cmd) {
			return
		}
		updated, err := service.Restore(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})
}

func registerOrderRoutes(api *gin.RouterGroup, service *application.OrderApplicationService, logger *logging.Logger) {
	group := api.Group("/orders")

	group.POST("", func(c *gin.Context) {
		var cmd application.PlaceOrderCommand
		if !bindJSON(c, &cmd) {
			return
		}
		order, err := service.PlaceOrder(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	})

	group.GET("", func(c *gin.Context) {
		orders, err := service.ListOrders(c.Request.Context(), c.Query("status"))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	})

	group.GET("/:id", func(c *gin.Context) {
		order, err := service.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})

	group.PUT("/:id/status", func(c *gin.Context) {
		var cmd application.UpdateOrderStatusCommand
		if !bindJSON(c, &cmd) {
			return
		}
		cmd.OrderID = c.Param("id")
		order, err := service.UpdateStatus(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})

	group.POST("/:id/cancel", func(c *gin.Context) {
		order, err := service.Cancel(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})
}

func registerCartRoutes(api *gin.RouterGroup, service *application.CartApplicationService, logger *logging.Logger) {
	group := api.Group("/cart")

	group.GET("/:sessionId", func(c *gin.Context) {
		cart, err := service.GetCart(c.Request.Context(), c.Param("sessionId"))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	})

	group.POST("/:sessionId/items", func(c *gin.Context) {
		var cmd application.AddCartItemCommand
		if !bindJSON(c, &cmd) {
			return
		}
		cmd.SessionID = c.Param("sessionId")
		cart, err := service.AddItem(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	})

	group.PUT("/:sessionId/items/:menuItemId", func(c *gin.Context) {
		var cmd application.UpdateCartItemCommand
		if !bindJSON(c, &cmd) {
			return
		}
		cmd.SessionID = c.Param("sessionId")
		cmd.MenuItemID = c.Param("menuItemId")
		cart, err := service.UpdateItem(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	})

	group.DELETE("/:sessionId/items/:menuItemId", func(c *gin.Context) {
		cart, err := service.RemoveItem(c.Request.Context(), c.Param("sessionId"), c.Param("menuItemId"))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	})

	group.DELETE("/:sessionId", func(c *gin.Context) {
		cart, err := service.ClearCart(c.Request.Context(), c.Param("sessionId"))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	})

	group.POST("/:sessionId/checkout", func(c *gin.Context) {
		var cmd application.CheckoutCommand
		if !bindJSON(c, &cmd) {
			return
		}
		cmd.SessionID = c.Param("sessionId")
		order, err := service.Checkout(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	})
}

func registerReservationRoutes(api *gin.RouterGroup, service *application.ReservationApplicationService, logger *logging.Logger) {
	tables := api.Group("/tables")

	tables.POST("", func(c *gin.Context) {
		var cmd application.CreateTableCommand
		if !bindJSON(c, &cmd) {
			return
		}
		table, err := service.CreateTable(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, table)
	})

	tables.GET("", func(c *gin.Context) {
		list, err := service.ListTables(c.Request.Context())
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	group := api.Group("/reservations")

	group.POST("", func(c *gin.Context) {
		var cmd application.RequestReservationCommand
		if !bindJSON(c, &cmd) {
			return
		}
		reservation, err := service.RequestReservation(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, reservation)
	})

	group.GET("", func(c *gin.Context) {
		list, err := service.ListReservations(c.Request.Context())
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	group.GET("/:id", func(c *gin.Context) {
		reservation, err := service.GetReservation(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, reservation)
	})

	group.POST("/:id/approve", func(c *gin.Context) {
		reservation, err := service.Approve(c.Request.Context(), application.ApproveReservationCommand{ReservationID: c.Param("id")})
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, reservation)
	})

	group.POST("/:id/reject", func(c *gin.Context) {
		// The note body is optional.
		var cmd application.RejectReservationCommand
		_ = c.ShouldBindJSON(&cmd)
		cmd.ReservationID = c.Param("id")
		reservation, err := service.Reject(c.Request.Context(), cmd)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, reservation)
	})

	group.POST("/:id/cancel", func(c *gin.Context) {
		reservation, err := service.Cancel(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, reservation)
	})

	group.POST("/:id/complete", func(c *gin.Context) {
		reservation, err := service.Complete(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, reservation)
	})
}

func queryLimit(c *gin.Context) int64 {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
