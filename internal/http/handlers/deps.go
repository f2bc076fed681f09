package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"gymstock/internal/config"
	"gymstock/internal/repos"
	"gymstock/internal/services"
)

type Deps struct {
	AuthHandler        *AuthHandler
	EquipmentHandler   *EquipmentHandler
	IssueHandler       *IssueHandler
	RequestHandler     *RequestHandler
	AdminHandler       *AdminHandler
	FeedbackHandler    *FeedbackHandler
	ProcurementHandler *ProcurementHandler

	Auth *services.AuthService
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	eqRepo := repos.NewEquipmentRepo(db)
	issueRepo := repos.NewIssueRepo(db)
	reqRepo := repos.NewRequestRepo(db)
	fbRepo := repos.NewFeedbackRepo(db)
	procRepo := repos.NewProcurementRepo(db)

	authSvc := &services.AuthService{Users: userRepo}
	ledgerSvc := services.NewLedgerService(db, eqRepo, issueRepo, reqRepo)
	overdueSvc := services.NewOverdueService(db, issueRepo, time.Local)
	requestSvc := services.NewRequestService(db, reqRepo, eqRepo, ledgerSvc)
	statsSvc := services.NewStatsService(eqRepo, issueRepo, reqRepo)
	procSvc := services.NewProcurementService(eqRepo, procRepo)

	return &Deps{
		AuthHandler:        &AuthHandler{Auth: authSvc},
		EquipmentHandler:   &EquipmentHandler{Equipment: eqRepo, Ledger: ledgerSvc},
		IssueHandler:       &IssueHandler{Ledger: ledgerSvc, Overdue: overdueSvc, Issues: issueRepo},
		RequestHandler:     &RequestHandler{Workflow: requestSvc, Ledger: ledgerSvc, Requests: reqRepo},
		AdminHandler:       &AdminHandler{Users: userRepo, Feedback: fbRepo, Auth: authSvc, Stats: statsSvc},
		FeedbackHandler:    &FeedbackHandler{Feedback: fbRepo},
		ProcurementHandler: &ProcurementHandler{Procure: procSvc, Repo: procRepo},
		Auth:               authSvc,
	}
}
