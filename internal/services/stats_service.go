package services

import (
	"gymstock/internal/domain"
	"gymstock/internal/repos"
)

// DashboardStats feeds the role dashboards. Everything here is a thin
// aggregation over the collections; none of it mutates state.
type DashboardStats struct {
	MainQuantity    int `json:"mainQuantity"`
	CounterQuantity int `json:"counterQuantity"`
	DamagedQuantity int `json:"damagedQuantity"`
	ActiveQuantity  int `json:"activeQuantity"` // out with borrowers (issued + overdue)
	IssuedCount     int `json:"issuedCount"`
	OverdueCount    int `json:"overdueCount"`
	PendingRequests int `json:"pendingRequests"`
	PendingMoves    int `json:"pendingMoves"`
}

type StatsService struct {
	Equipment *repos.EquipmentRepo
	Issues    *repos.IssueRepo
	Requests  *repos.RequestRepo
}

func NewStatsService(eq *repos.EquipmentRepo, is *repos.IssueRepo, rq *repos.RequestRepo) *StatsService {
	return &StatsService{Equipment: eq, Issues: is, Requests: rq}
}

func (s *StatsService) Dashboard() (*DashboardStats, error) {
	st := &DashboardStats{}
	var err error

	if st.MainQuantity, err = s.Equipment.TotalQuantity(domain.InventoryMain); err != nil {
		return nil, err
	}
	if st.CounterQuantity, err = s.Equipment.TotalQuantity(domain.InventoryCounter); err != nil {
		return nil, err
	}
	if st.DamagedQuantity, err = s.Equipment.TotalDamaged(); err != nil {
		return nil, err
	}
	if st.ActiveQuantity, err = s.Issues.ActiveQuantity(); err != nil {
		return nil, err
	}
	if st.IssuedCount, err = s.Issues.CountIssued(); err != nil {
		return nil, err
	}
	if st.OverdueCount, err = s.Issues.CountOverdue(); err != nil {
		return nil, err
	}
	if st.PendingRequests, err = s.Requests.CountPending(); err != nil {
		return nil, err
	}
	moves, err := s.Requests.ListMoves(domain.StatusPending)
	if err != nil {
		return nil, err
	}
	st.PendingMoves = len(moves)
	return st, nil
}
