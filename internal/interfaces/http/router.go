package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/retail-audit-api/internal/application/analytics"
	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/application/auth"
	"github.com/jhoicas/retail-audit-api/internal/application/usecase"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	StoreUC     *usecase.StoreUseCase
	ChecklistUC *usecase.ChecklistUseCase
	AuditUC     *auditing.AuditUseCase
	ActionUC    *auditing.ActionUseCase
	CommentUC   *auditing.CommentUseCase
	VisitUC     *auditing.VisitUseCase
	ReportUC    *auditing.ReportUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/me/capabilities", authHandler.Capabilities)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)

	// Users
	userHandler := NewUserHandler(deps.UserUC, deps.StoreUC)
	users := protected.Group("/users")
	users.Post("/", RequireCapability(access.ActionManageUsers), userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id/stores", userHandler.Stores)
	users.Get("/:id/team", userHandler.Team)

	// Stores
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores := protected.Group("/stores")
	stores.Post("/", RequireCapability(access.ActionManageStores), storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Put("/:id/dot", RequireCapability(access.ActionManageStores), storeHandler.SetDOT)
	stores.Put("/:id/aderente", RequireCapability(access.ActionManageStores), storeHandler.SetAderente)

	// Checklists (solo lectura)
	checklistHandler := NewChecklistHandler(deps.ChecklistUC)
	protected.Get("/checklists", checklistHandler.List)
	protected.Get("/checklists/:id", checklistHandler.GetByID)
	protected.Post("/checklists/:id/refresh", RequireCapability(access.ActionManageChecklists), checklistHandler.Refresh)

	// Audits
	auditHandler := NewAuditHandler(deps.AuditUC, deps.ReportUC)
	commentHandler := NewCommentHandler(deps.CommentUC)
	actionHandler := NewActionHandler(deps.ActionUC)
	audits := protected.Group("/audits")
	audits.Post("/", RequireCapability(access.ActionCreateAudit), auditHandler.Create)
	audits.Get("/", auditHandler.List)
	audits.Get("/:id", auditHandler.Get)
	audits.Delete("/:id", RequireCapability(access.ActionDeleteAudit), auditHandler.Delete)
	audits.Put("/:id/comments-auditor", auditHandler.UpdateAuditorComments)
	audits.Put("/:id/scores/:criteriaId", auditHandler.UpsertScore)
	audits.Post("/:id/finalize", auditHandler.Finalize)
	audits.Post("/:id/approve", auditHandler.Approve)
	audits.Post("/:id/reject", auditHandler.Reject)
	audits.Post("/:id/close", auditHandler.Close)
	audits.Post("/:id/cancel", auditHandler.Cancel)
	audits.Get("/:id/report.pdf", RequireCapability(access.ActionViewReports), auditHandler.Report)
	audits.Get("/:id/comments", commentHandler.List)
	audits.Post("/:id/comments", commentHandler.Create)
	audits.Get("/:id/actions", actionHandler.ListByAudit)
	audits.Post("/:id/actions", RequireCapability(access.ActionCreateActions), actionHandler.Create)
	audits.Post("/:id/actions/auto-generate", RequireCapability(access.ActionCreateActions), actionHandler.AutoGenerate)

	// Action plans
	actions := protected.Group("/actions")
	actions.Get("/", actionHandler.List)
	actions.Put("/:id", actionHandler.Update)
	actions.Post("/:id/status", actionHandler.ChangeStatus)
	actions.Delete("/:id", actionHandler.Delete)

	// Visits
	visitHandler := NewVisitHandler(deps.VisitUC)
	visits := protected.Group("/visits")
	visits.Post("/", RequireCapability(access.ActionCreateAudit), visitHandler.Create)
	visits.Get("/", visitHandler.List)
	for _, ev := range []string{"start", "end", "close", "cancel"} {
		visits.Post("/:id/"+ev, visitHandler.Transition(ev))
	}
}
