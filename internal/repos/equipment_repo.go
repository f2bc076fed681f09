package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"gymstock/internal/domain"
)

type EquipmentRepo struct{ db *sqlx.DB }

func NewEquipmentRepo(db *sqlx.DB) *EquipmentRepo { return &EquipmentRepo{db: db} }

const equipmentCols = `id, inventory, name, sport_type, category, quantity, condition, equipment_type, created_at, updated_at`

// List returns every item in a partition, largest stock first.
func (r *EquipmentRepo) List(inventory string) ([]domain.EquipmentItem, error) {
	var items []domain.EquipmentItem
	err := r.db.Select(&items, `
		SELECT `+equipmentCols+` FROM equipment
		WHERE inventory = ?
		ORDER BY name`, inventory)
	return items, err
}

// ListAvailable returns partition items with stock remaining (student browse).
func (r *EquipmentRepo) ListAvailable(inventory string) ([]domain.EquipmentItem, error) {
	var items []domain.EquipmentItem
	err := r.db.Select(&items, `
		SELECT `+equipmentCols+` FROM equipment
		WHERE inventory = ? AND quantity > 0
		ORDER BY name`, inventory)
	return items, err
}

// Search matches name or sport type within a partition.
func (r *EquipmentRepo) Search(inventory, q string) ([]domain.EquipmentItem, error) {
	var items []domain.EquipmentItem
	pat := "%" + q + "%"
	err := r.db.Select(&items, `
		SELECT `+equipmentCols+` FROM equipment
		WHERE inventory = ? AND (name LIKE ? OR sport_type LIKE ?)
		ORDER BY name`, inventory, pat, pat)
	return items, err
}

// Get returns sql.ErrNoRows when the item is absent from the partition.
func (r *EquipmentRepo) Get(id, inventory string) (*domain.EquipmentItem, error) {
	var it domain.EquipmentItem
	err := r.db.Get(&it, `SELECT `+equipmentCols+` FROM equipment WHERE id = ? AND inventory = ?`, id, inventory)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetTx is Get on the ledger transaction's own connection. Reads that feed a
// deduction must run here so they see the transaction's snapshot and never
// check a second connection out of the pool.
func (r *EquipmentRepo) GetTx(tx *sqlx.Tx, id, inventory string) (*domain.EquipmentItem, error) {
	var it domain.EquipmentItem
	err := tx.Get(&it, `SELECT `+equipmentCols+` FROM equipment WHERE id = ? AND inventory = ?`, id, inventory)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Qty returns current stock for an item in a partition; 0 when no row exists.
func (r *EquipmentRepo) Qty(id, inventory string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT quantity FROM equipment WHERE id = ? AND inventory = ?`, id, inventory)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return qty, err
}

func (r *EquipmentRepo) Insert(it *domain.EquipmentItem) error {
	_, err := r.db.Exec(`
		INSERT INTO equipment(id, inventory, name, sport_type, category, quantity, condition, equipment_type)
		VALUES (?,?,?,?,?,?,?,?)`,
		it.ID, it.Inventory, it.Name, it.SportType, it.Category, it.Quantity, it.Condition, it.EquipmentType)
	return err
}

func (r *EquipmentRepo) Update(it *domain.EquipmentItem) error {
	res, err := r.db.Exec(`
		UPDATE equipment
		SET name = ?, sport_type = ?, category = ?, quantity = ?, condition = ?, equipment_type = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND inventory = ?`,
		it.Name, it.SportType, it.Category, it.Quantity, it.Condition, it.EquipmentType, it.ID, it.Inventory)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *EquipmentRepo) Delete(id, inventory string) error {
	res, err := r.db.Exec(`DELETE FROM equipment WHERE id = ? AND inventory = ?`, id, inventory)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DecrementTx subtracts "by" units inside a ledger transaction. The qty guard
// makes over-deduction impossible; zero affected rows means the stock check
// failed (or the row is gone), reported as domain.ErrInsufficientStock.
func (r *EquipmentRepo) DecrementTx(tx *sqlx.Tx, id, inventory string, by int) error {
	res, err := tx.Exec(`
		UPDATE equipment
		SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND inventory = ? AND quantity >= ?`,
		by, id, inventory, by)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// PruneZeroTx removes an item once a deduction empties it. Main and counter
// partitions never hold zero-quantity rows.
func (r *EquipmentRepo) PruneZeroTx(tx *sqlx.Tx, id, inventory string) error {
	_, err := tx.Exec(`DELETE FROM equipment WHERE id = ? AND inventory = ? AND quantity = 0`, id, inventory)
	return err
}

// AddToCounterTx adds quantity to the item's issue-counter row, creating it
// from the source item's details when the item has never been issued before.
func (r *EquipmentRepo) AddToCounterTx(tx *sqlx.Tx, src *domain.EquipmentItem, by int) error {
	_, err := tx.Exec(`
		INSERT INTO equipment(id, inventory, name, sport_type, category, quantity, condition, equipment_type)
		VALUES (?,'counter',?,?,?,?,?,?)
		ON CONFLICT(id, inventory) DO UPDATE SET
		  quantity = quantity + excluded.quantity,
		  updated_at = CURRENT_TIMESTAMP`,
		src.ID, src.Name, src.SportType, src.Category, by, src.Condition, src.EquipmentType)
	return err
}

// ReturnToCounterTx credits a returned quantity to the issue counter. The
// counter row normally exists from the original issue; when it was emptied in
// the meantime (damaged out, deleted) it is recreated from the record's
// details with a Good condition.
func (r *EquipmentRepo) ReturnToCounterTx(tx *sqlx.Tx, rec *domain.IssueRecord) error {
	_, err := tx.Exec(`
		INSERT INTO equipment(id, inventory, name, sport_type, category, quantity, condition, equipment_type)
		VALUES (?,'counter',?,?,?,?,'Good','non-consumable')
		ON CONFLICT(id, inventory) DO UPDATE SET
		  quantity = quantity + excluded.quantity,
		  updated_at = CURRENT_TIMESTAMP`,
		rec.EquipmentID, rec.EquipmentName, rec.SportType, rec.Category, rec.Quantity)
	return err
}

// GetMainByName matches procured descriptions against existing main stock.
func (r *EquipmentRepo) GetMainByName(name string) (*domain.EquipmentItem, error) {
	var it domain.EquipmentItem
	err := r.db.Get(&it, `
		SELECT `+equipmentCols+` FROM equipment
		WHERE inventory = 'main' AND LOWER(name) = LOWER(?)`, name)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// AddQuantity merges procured stock into an existing main item, or reports
// sql.ErrNoRows so the caller can insert a fresh row.
func (r *EquipmentRepo) AddQuantity(id string, by int) error {
	res, err := r.db.Exec(`
		UPDATE equipment
		SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND inventory = 'main'`, by, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// InsertDamagedTx appends to the damaged ledger inside the same transaction
// that deducts the source partition.
func (r *EquipmentRepo) InsertDamagedTx(tx *sqlx.Tx, d *domain.DamagedItem) error {
	_, err := tx.Exec(`
		INSERT INTO damaged_equipment(id, equipment_id, name, sport_type, category, quantity, condition, equipment_type, original_inventory, damaged_date)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		d.ID, d.EquipmentID, d.Name, d.SportType, d.Category, d.Quantity, d.Condition, d.EquipmentType, d.OriginalInventory, d.DamagedDate)
	return err
}

func (r *EquipmentRepo) ListDamaged() ([]domain.DamagedItem, error) {
	var items []domain.DamagedItem
	err := r.db.Select(&items, `
		SELECT id, equipment_id, name, sport_type, category, quantity, condition, equipment_type, original_inventory, damaged_date
		FROM damaged_equipment
		ORDER BY damaged_date DESC`)
	return items, err
}

// TotalQuantity sums a partition's stock (dashboard stats, conservation checks).
func (r *EquipmentRepo) TotalQuantity(inventory string) (int, error) {
	var total int
	err := r.db.Get(&total, `SELECT COALESCE(SUM(quantity),0) FROM equipment WHERE inventory = ?`, inventory)
	return total, err
}

func (r *EquipmentRepo) TotalDamaged() (int, error) {
	var total int
	err := r.db.Get(&total, `SELECT COALESCE(SUM(quantity),0) FROM damaged_equipment`)
	return total, err
}
