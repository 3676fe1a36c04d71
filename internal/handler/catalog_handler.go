package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/service"
)

// CatalogHandler exposes product, category, and supplier CRUD.
type CatalogHandler struct {
	catalog service.CatalogService
}

func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalog.CreateProduct(&product, principal(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.catalog.UpdateProduct(id, &product, principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.catalog.DeleteProduct(id, principal(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	product, err := h.catalog.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.catalog.CreateCategory(&category); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID"})
	}
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	updated, err := h.catalog.UpdateCategory(id, &category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": updated})
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID"})
	}
	if err := h.catalog.DeleteCategory(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.catalog.CreateSupplier(&supplier); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *CatalogHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.catalog.ListSuppliers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suppliers)
}

func (h *CatalogHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}
	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	updated, err := h.catalog.UpdateSupplier(id, &supplier)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated", "data": updated})
}

func (h *CatalogHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}
	if err := h.catalog.DeleteSupplier(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}
