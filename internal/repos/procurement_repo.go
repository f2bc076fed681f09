package repos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ProcurementRepo struct{ db *sqlx.DB }

func NewProcurementRepo(db *sqlx.DB) *ProcurementRepo { return &ProcurementRepo{db: db} }

// ProcurementEntry is one line of a procurement bill. Costs stay decimal
// strings in storage; only reporting touches them.
type ProcurementEntry struct {
	ID              string          `db:"id" json:"id"`
	SerialNumber    string          `db:"serial_number" json:"serialNumber"`
	Description     string          `db:"description" json:"description"`
	Sport           string          `db:"sport" json:"sport"`
	Quantity        int             `db:"quantity" json:"quantity"`
	CostPerArticle  decimal.Decimal `db:"-" json:"costPerArticle"`
	TotalValue      decimal.Decimal `db:"-" json:"totalValue"`
	CostRaw         string          `db:"cost_per_article" json:"-"`
	TotalRaw        string          `db:"total_value" json:"-"`
	SupplierInfo    string          `db:"supplier_info" json:"supplierInfo,omitempty"`
	BillParticulars string          `db:"bill_particulars" json:"billParticulars,omitempty"`
	ProcurementDate string          `db:"procurement_date" json:"procurementDate,omitempty"`
	CreatedAt       string          `db:"created_at" json:"createdAt,omitempty"`
}

// PreviousYearPurchase snapshots the latest intake per equipment id, used by
// the procurement planning view.
type PreviousYearPurchase struct {
	EquipmentID   string `db:"equipment_id" json:"equipmentId"`
	EquipmentName string `db:"equipment_name" json:"equipmentName"`
	Quantity      int    `db:"quantity" json:"quantity"`
	Brand         string `db:"brand" json:"brand,omitempty"`
	PurchaseDate  string `db:"purchase_date" json:"purchaseDate"`
}

func (r *ProcurementRepo) InsertEntry(e *ProcurementEntry) error {
	_, err := r.db.Exec(`
		INSERT INTO procurement_entries(id, serial_number, description, sport, quantity, cost_per_article, total_value, supplier_info, bill_particulars, procurement_date)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.SerialNumber, e.Description, e.Sport, e.Quantity,
		e.CostPerArticle.String(), e.TotalValue.String(),
		e.SupplierInfo, e.BillParticulars, e.ProcurementDate)
	return err
}

func (r *ProcurementRepo) ListEntries() ([]ProcurementEntry, error) {
	var es []ProcurementEntry
	err := r.db.Select(&es, `
		SELECT id, serial_number, description, sport, quantity, cost_per_article, total_value, supplier_info, bill_particulars, procurement_date, created_at
		FROM procurement_entries
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	for i := range es {
		if es[i].CostPerArticle, err = decimal.NewFromString(es[i].CostRaw); err != nil {
			return nil, fmt.Errorf("entry %s: bad cost: %w", es[i].ID, err)
		}
		if es[i].TotalValue, err = decimal.NewFromString(es[i].TotalRaw); err != nil {
			return nil, fmt.Errorf("entry %s: bad total: %w", es[i].ID, err)
		}
	}
	return es, nil
}

// TotalSpend sums total_value across all entries.
func (r *ProcurementRepo) TotalSpend() (decimal.Decimal, error) {
	entries, err := r.ListEntries()
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.TotalValue)
	}
	return total, nil
}

func (r *ProcurementRepo) UpsertPreviousYearPurchase(p *PreviousYearPurchase) error {
	_, err := r.db.Exec(`
		INSERT INTO previous_year_purchases(equipment_id, equipment_name, quantity, brand, purchase_date)
		VALUES (?,?,?,?,?)
		ON CONFLICT(equipment_id) DO UPDATE SET
		  equipment_name = excluded.equipment_name,
		  quantity = excluded.quantity,
		  brand = excluded.brand,
		  purchase_date = excluded.purchase_date`,
		p.EquipmentID, p.EquipmentName, p.Quantity, p.Brand, p.PurchaseDate)
	return err
}

func (r *ProcurementRepo) GetPreviousYearPurchase(equipmentID string) (*PreviousYearPurchase, error) {
	var p PreviousYearPurchase
	err := r.db.Get(&p, `
		SELECT equipment_id, equipment_name, quantity, brand, purchase_date
		FROM previous_year_purchases WHERE equipment_id = ?`, equipmentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProcurementRepo) ListPreviousYearPurchases() ([]PreviousYearPurchase, error) {
	var ps []PreviousYearPurchase
	err := r.db.Select(&ps, `
		SELECT equipment_id, equipment_name, quantity, brand, purchase_date
		FROM previous_year_purchases
		ORDER BY equipment_name`)
	return ps, err
}
