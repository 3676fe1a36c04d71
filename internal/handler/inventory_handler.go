package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/service"
)

// InventoryHandler exposes the ledger and its derived stock views.
type InventoryHandler struct {
	ledger service.LedgerService
	stocks service.StockService
}

func NewInventoryHandler(ledger service.LedgerService, stocks service.StockService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, stocks: stocks}
}

// CreateTransaction appends one movement record and returns it together with
// the product's post-append stock.
func (h *InventoryHandler) CreateTransaction(c *fiber.Ctx) error {
	var req model.Transaction
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	record, currentStock, err := h.ledger.Append(&req, principal(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Transaction recorded",
		"data":          record,
		"current_stock": currentStock,
	})
}

func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	records, err := h.ledger.ListAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(records)
}

// GetRecentTransactions returns the newest records, bounded by ?limit=
// (default 10).
func (h *InventoryHandler) GetRecentTransactions(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}
	records, err := h.ledger.ListRecent(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(records)
}

func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	record, err := h.ledger.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(record)
}

func (h *InventoryHandler) GetProductTransactions(c *fiber.Ctx) error {
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	records, err := h.ledger.ListByProduct(productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(records)
}

func (h *InventoryHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	if err := h.ledger.Delete(id, principal(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

// GetProductStock returns the derived stock position of one product.
func (h *InventoryHandler) GetProductStock(c *fiber.Ctx) error {
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	stock, err := h.stocks.ProductStock(productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stock)
}

func (h *InventoryHandler) GetAllStock(c *fiber.Ctx) error {
	rows, err := h.stocks.AllStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	rows, err := h.stocks.LowStockProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}
