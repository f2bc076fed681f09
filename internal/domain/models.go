package domain

// Inventory partitions. An equipment row lives in exactly one.
const (
	InventoryMain    = "main"
	InventoryCounter = "counter"
)

// Equipment conditions
const (
	ConditionNew  = "New"
	ConditionGood = "Good"
	ConditionFair = "Fair"
	ConditionPoor = "Poor"
)

// Equipment types
const (
	TypeConsumable    = "consumable"
	TypeNonConsumable = "non-consumable"
)

// Request / move-request statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
	StatusRejected = "rejected"
)

type EquipmentItem struct {
	ID            string `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	SportType     string `db:"sport_type" json:"sportType"`
	Category      string `db:"category" json:"category,omitempty"`
	Quantity      int    `db:"quantity" json:"quantity"`
	Condition     string `db:"condition" json:"condition"`
	EquipmentType string `db:"equipment_type" json:"equipmentType"`
	Inventory     string `db:"inventory" json:"inventory"` // main | counter
	CreatedAt     string `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt     string `db:"updated_at" json:"updatedAt,omitempty"`
}

// DamagedItem is stock permanently removed from circulation.
type DamagedItem struct {
	ID                string `db:"id" json:"id"`
	EquipmentID       string `db:"equipment_id" json:"equipmentId"`
	Name              string `db:"name" json:"name"`
	SportType         string `db:"sport_type" json:"sportType"`
	Category          string `db:"category" json:"category,omitempty"`
	Quantity          int    `db:"quantity" json:"quantity"`
	Condition         string `db:"condition" json:"condition"`
	EquipmentType     string `db:"equipment_type" json:"equipmentType"`
	OriginalInventory string `db:"original_inventory" json:"originalInventory"` // main | counter
	DamagedDate       string `db:"damaged_date" json:"damagedDate"`
}

// Borrower identifies the student an issue record belongs to.
type Borrower struct {
	StudentName        string `db:"student_name" json:"studentName"`
	RegistrationNumber string `db:"registration_number" json:"registrationNumber"`
	Branch             string `db:"branch" json:"branch"`
}

// IssueRecord tracks quantity handed to a borrower. EquipmentID is a weak
// reference: the main-inventory item may be deleted while the record is live.
// ExpectedReturnTime is a bare HH:MM wall clock interpreted against IssueTime's
// calendar date; empty means no deadline and the record is never promoted.
type IssueRecord struct {
	ID            string `db:"id" json:"id"`
	EquipmentID   string `db:"equipment_id" json:"equipmentId"`
	EquipmentName string `db:"equipment_name" json:"equipmentName"`
	SportType     string `db:"sport_type" json:"sportType"`
	Category      string `db:"category" json:"category,omitempty"`
	Quantity      int    `db:"quantity" json:"quantity"`
	Borrower
	IssueTime          string `db:"issue_time" json:"issueTime"` // RFC 3339
	ExpectedReturnTime string `db:"expected_return_time" json:"expectedReturnTime,omitempty"`
}

// OverdueRecord has the same shape as an IssueRecord; it lives in its own
// collection once the expected return instant has passed un-returned.
type OverdueRecord = IssueRecord

// LogRecord is the append-only history of a completed issue cycle.
type LogRecord struct {
	IssueRecord
	ReturnTime string `db:"return_time" json:"returnTime"`
	WasOverdue bool   `db:"was_overdue" json:"wasOverdue"`
}

// Request is a student borrow request awaiting a manager's decision.
type Request struct {
	ID            string `db:"id" json:"id"`
	EquipmentID   string `db:"equipment_id" json:"equipmentId"`
	EquipmentName string `db:"equipment_name" json:"equipmentName"`
	SportType     string `db:"sport_type" json:"sportType"`
	Category      string `db:"category" json:"category,omitempty"`
	Quantity      int    `db:"quantity" json:"quantity"`
	Borrower
	Purpose            string `db:"purpose" json:"purpose"`
	ExpectedReturnTime string `db:"expected_return_time" json:"expectedReturnTime"`
	RequestTime        string `db:"request_time" json:"requestTime"`
	Status             string `db:"status" json:"status"` // pending | approved | denied
	DecidedBy          string `db:"decided_by" json:"decidedBy,omitempty"`
	DecidedTime        string `db:"decided_time" json:"decidedTime,omitempty"`
	DenialReason       string `db:"denial_reason" json:"denialReason,omitempty"`
}

// MoveRequest is a manager's request to transfer stock main -> counter,
// decided by an admin.
type MoveRequest struct {
	ID              string `db:"id" json:"id"`
	EquipmentID     string `db:"equipment_id" json:"equipmentId"`
	EquipmentName   string `db:"equipment_name" json:"equipmentName"`
	Quantity        int    `db:"quantity" json:"quantity"`
	Reason          string `db:"reason" json:"reason"`
	RequestedBy     string `db:"requested_by" json:"requestedBy"`
	RequestTime     string `db:"request_time" json:"requestTime"`
	Status          string `db:"status" json:"status"` // pending | approved | rejected
	DecidedBy       string `db:"decided_by" json:"decidedBy,omitempty"`
	DecidedTime     string `db:"decided_time" json:"decidedTime,omitempty"`
	RejectionReason string `db:"rejection_reason" json:"rejectionReason,omitempty"`
}

// Feedback is a student's note on the sports team selection process.
type Feedback struct {
	ID                 string `db:"id" json:"id"`
	StudentName        string `db:"student_name" json:"studentName"`
	RegistrationNumber string `db:"registration_number" json:"registrationNumber"`
	SportType          string `db:"sport_type" json:"sportType"`
	Rating             int    `db:"rating" json:"rating"`
	Comments           string `db:"comments" json:"comments"`
	Status             string `db:"status" json:"status"` // pending | in-progress | resolved
	SubmittedAt        string `db:"submitted_at" json:"submittedAt"`
}
