package access

import "github.com/jhoicas/retail-audit-api/internal/domain/entity"

// Dashboard destino de enrutado tras el login.
type Dashboard string

// Paneles disponibles. DashboardNone: la sesión no tiene ningún rol con panel.
const (
	DashboardAdmin    Dashboard = "admin"
	DashboardAmont    Dashboard = "amont"
	DashboardDOT      Dashboard = "dot"
	DashboardAderente Dashboard = "aderente"
	DashboardNone     Dashboard = ""
)

// dashboardPrecedence orden de preferencia para el panel por defecto.
var dashboardPrecedence = []struct {
	role      entity.Role
	dashboard Dashboard
}{
	{entity.RoleAdmin, DashboardAdmin},
	{entity.RoleAmont, DashboardAmont},
	{entity.RoleAderente, DashboardAderente},
	{entity.RoleDOT, DashboardDOT},
}

// DefaultDashboard panel de destino tras el login según la precedencia ADMIN > AMONT > ADERENTE > DOT.
func DefaultDashboard(s Session) Dashboard {
	for _, p := range dashboardPrecedence {
		if s.Has(p.role) {
			return p.dashboard
		}
	}
	return DashboardNone
}

// Capabilities respuesta completa del resolvedor para una sesión (estado-independiente).
type Capabilities struct {
	CanCreateAudit             bool      `json:"can_create_audit"`
	CanDeleteAudit             bool      `json:"can_delete_audit"`
	CanCreateActions           bool      `json:"can_create_actions"`
	CanViewReports             bool      `json:"can_view_reports"`
	CanViewInternalComments    bool      `json:"can_view_internal_comments"`
	CanAccessAdminDashboard    bool      `json:"can_access_admin_dashboard"`
	CanAccessAmontDashboard    bool      `json:"can_access_amont_dashboard"`
	CanAccessDOTDashboard      bool      `json:"can_access_dot_dashboard"`
	CanAccessAderenteDashboard bool      `json:"can_access_aderente_dashboard"`
	DefaultDashboard           Dashboard `json:"default_dashboard"`
}

// Resolve evalúa todas las capacidades que no dependen de una auditoría concreta.
func Resolve(s Session) Capabilities {
	return Capabilities{
		CanCreateAudit:             CanCreateAudit(s),
		CanDeleteAudit:             CanDeleteAudit(s),
		CanCreateActions:           CanCreateActions(s),
		CanViewReports:             CanViewReports(s),
		CanViewInternalComments:    CanViewInternalComments(s),
		CanAccessAdminDashboard:    CanAccessAdminDashboard(s),
		CanAccessAmontDashboard:    CanAccessAmontDashboard(s),
		CanAccessDOTDashboard:      CanAccessDOTDashboard(s),
		CanAccessAderenteDashboard: CanAccessAderenteDashboard(s),
		DefaultDashboard:           DefaultDashboard(s),
	}
}
