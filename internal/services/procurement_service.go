package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gymstock/internal/domain"
	"gymstock/internal/repos"
)

// ProcurementLine is one row of a procurement bill as entered by a manager.
type ProcurementLine struct {
	SerialNumber   string          `json:"serialNumber"`
	Description    string          `json:"description"`
	Sport          string          `json:"sport"`
	Category       string          `json:"category"`
	EquipmentType  string          `json:"equipmentType"`
	Quantity       int             `json:"quantity"`
	CostPerArticle decimal.Decimal `json:"costPerArticle"`
}

// ProcurementService folds new purchases into main inventory and keeps the
// spend/bill records on the side. Cost arithmetic stays in decimals here and
// never reaches the quantity ledger.
type ProcurementService struct {
	Equipment   *repos.EquipmentRepo
	Procurement *repos.ProcurementRepo
}

func NewProcurementService(eq *repos.EquipmentRepo, pr *repos.ProcurementRepo) *ProcurementService {
	return &ProcurementService{Equipment: eq, Procurement: pr}
}

// Intake processes a bill: each line either tops up the matching main item
// (by name) or creates a fresh one, and is recorded as a procurement entry
// plus a previous-year purchase snapshot.
func (s *ProcurementService) Intake(lines []ProcurementLine, supplierInfo, billParticulars, procurementDate string) ([]repos.ProcurementEntry, error) {
	var entries []repos.ProcurementEntry
	for _, line := range lines {
		if line.Quantity < 1 || line.CostPerArticle.IsNegative() || line.CostPerArticle.IsZero() {
			return nil, domain.ErrInvalidQuantity
		}

		equipmentID, err := s.mergeIntoMain(line)
		if err != nil {
			return nil, err
		}

		entry := repos.ProcurementEntry{
			ID:              uuid.NewString(),
			SerialNumber:    line.SerialNumber,
			Description:     line.Description,
			Sport:           line.Sport,
			Quantity:        line.Quantity,
			CostPerArticle:  line.CostPerArticle,
			TotalValue:      line.CostPerArticle.Mul(decimal.NewFromInt(int64(line.Quantity))),
			SupplierInfo:    supplierInfo,
			BillParticulars: billParticulars,
			ProcurementDate: procurementDate,
		}
		if err := s.Procurement.InsertEntry(&entry); err != nil {
			return nil, err
		}

		purchaseDate := procurementDate
		if purchaseDate == "" {
			purchaseDate = time.Now().UTC().Format(time.RFC3339)
		}
		snap := &repos.PreviousYearPurchase{
			EquipmentID:   equipmentID,
			EquipmentName: line.Description,
			Quantity:      line.Quantity,
			PurchaseDate:  purchaseDate,
		}
		if err := s.Procurement.UpsertPreviousYearPurchase(snap); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *ProcurementService) mergeIntoMain(line ProcurementLine) (string, error) {
	existing, err := s.Equipment.GetMainByName(line.Description)
	if err == nil {
		return existing.ID, s.Equipment.AddQuantity(existing.ID, line.Quantity)
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	equipmentType := line.EquipmentType
	if equipmentType != domain.TypeConsumable && equipmentType != domain.TypeNonConsumable {
		equipmentType = domain.TypeConsumable
	}
	item := &domain.EquipmentItem{
		ID:            uuid.NewString(),
		Name:          line.Description,
		SportType:     line.Sport,
		Category:      line.Category,
		Quantity:      line.Quantity,
		Condition:     domain.ConditionNew,
		EquipmentType: equipmentType,
		Inventory:     domain.InventoryMain,
	}
	return item.ID, s.Equipment.Insert(item)
}
