package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gymstock/internal/domain"
	applog "gymstock/internal/log"
	"gymstock/internal/repos"
	"gymstock/internal/services"
	"gymstock/internal/validate"
)

type EquipmentHandler struct {
	Equipment *repos.EquipmentRepo
	Ledger    *services.LedgerService
}

// GET /api/v1/equipment?inventory=main|counter&q=
func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	inventory := c.Query("inventory", domain.InventoryMain)
	if inventory != domain.InventoryMain && inventory != domain.InventoryCounter {
		return fail(c, fiber.StatusBadRequest, "invalid inventory")
	}
	if q := c.Query("q"); q != "" {
		items, err := h.Equipment.Search(inventory, q)
		if err != nil {
			applog.Error(c, "equipment.search.fail", err, nil)
			return fail(c, fiber.StatusInternalServerError, "could not load equipment")
		}
		return c.JSON(items)
	}
	items, err := h.Equipment.List(inventory)
	if err != nil {
		applog.Error(c, "equipment.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load equipment")
	}
	return c.JSON(items)
}

// GET /api/v1/equipment/available: student browse, stock > 0 only
func (h *EquipmentHandler) ListAvailable(c *fiber.Ctx) error {
	items, err := h.Equipment.ListAvailable(domain.InventoryMain)
	if err != nil {
		applog.Error(c, "equipment.available.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load equipment")
	}
	return c.JSON(items)
}

type equipmentBody struct {
	Name          string `json:"name"`
	SportType     string `json:"sportType"`
	Category      string `json:"category"`
	Quantity      int    `json:"quantity"`
	Condition     string `json:"condition"`
	EquipmentType string `json:"equipmentType"`
}

func (b *equipmentBody) validate() (string, bool) {
	if _, ok := validate.Name(b.Name); !ok {
		return "invalid name", false
	}
	if b.SportType == "" {
		return "missing sport type", false
	}
	if b.Quantity < 0 {
		return "invalid quantity", false
	}
	switch b.Condition {
	case domain.ConditionNew, domain.ConditionGood, domain.ConditionFair, domain.ConditionPoor:
	default:
		return "invalid condition", false
	}
	switch b.EquipmentType {
	case domain.TypeConsumable, domain.TypeNonConsumable:
	default:
		return "invalid equipment type", false
	}
	return "", true
}

// POST /api/v1/equipment: manager adds main-inventory stock
func (h *EquipmentHandler) Create(c *fiber.Ctx) error {
	var body equipmentBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg, ok := body.validate(); !ok {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	item := &domain.EquipmentItem{
		ID:            uuid.NewString(),
		Name:          body.Name,
		SportType:     body.SportType,
		Category:      body.Category,
		Quantity:      body.Quantity,
		Condition:     body.Condition,
		EquipmentType: body.EquipmentType,
		Inventory:     domain.InventoryMain,
	}
	if err := h.Equipment.Insert(item); err != nil {
		applog.Error(c, "equipment.create.fail", err, map[string]any{"name": body.Name})
		return fail(c, fiber.StatusInternalServerError, "could not save equipment")
	}
	applog.Audit(c, "equipment.create", map[string]any{"id": item.ID, "name": item.Name, "qty": item.Quantity})
	return c.Status(fiber.StatusCreated).JSON(item)
}

// PUT /api/v1/equipment/:id?inventory=
func (h *EquipmentHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	inventory := c.Query("inventory", domain.InventoryMain)

	var body equipmentBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg, ok := body.validate(); !ok {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	item := &domain.EquipmentItem{
		ID:            id,
		Name:          body.Name,
		SportType:     body.SportType,
		Category:      body.Category,
		Quantity:      body.Quantity,
		Condition:     body.Condition,
		EquipmentType: body.EquipmentType,
		Inventory:     inventory,
	}
	if err := h.Equipment.Update(item); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, fiber.StatusNotFound, "record not found")
		}
		applog.Error(c, "equipment.update.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "could not save equipment")
	}
	applog.Audit(c, "equipment.update", map[string]any{"id": id, "qty": item.Quantity})
	return c.JSON(item)
}

// DELETE /api/v1/equipment/:id?inventory=
func (h *EquipmentHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	inventory := c.Query("inventory", domain.InventoryMain)
	if err := h.Equipment.Delete(id, inventory); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, fiber.StatusNotFound, "record not found")
		}
		applog.Error(c, "equipment.delete.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "could not delete equipment")
	}
	applog.Audit(c, "equipment.delete", map[string]any{"id": id, "inventory": inventory})
	return c.JSON(fiber.Map{"ok": true})
}

// POST /api/v1/equipment/:id/damage: pull stock out of circulation
func (h *EquipmentHandler) MarkDamaged(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	var body struct {
		Inventory string `json:"inventory"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	d, err := h.Ledger.MarkDamaged(body.Inventory, id, body.Quantity)
	if err != nil {
		applog.Error(c, "equipment.damage.fail", err, map[string]any{"id": id, "qty": body.Quantity})
		return failDomain(c, err)
	}
	applog.Audit(c, "equipment.damage", map[string]any{"id": id, "qty": d.Quantity, "source": d.OriginalInventory})
	return c.Status(fiber.StatusCreated).JSON(d)
}

// GET /api/v1/equipment/damaged
func (h *EquipmentHandler) ListDamaged(c *fiber.Ctx) error {
	items, err := h.Equipment.ListDamaged()
	if err != nil {
		applog.Error(c, "equipment.damaged.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load damaged equipment")
	}
	return c.JSON(items)
}
