package access

import "github.com/jhoicas/retail-audit-api/internal/domain/entity"

// Action acción gobernada por la tabla de capacidades.
type Action string

// Acciones conocidas.
const (
	ActionCreateAudit             Action = "audit:create"
	ActionEditAudit               Action = "audit:edit"
	ActionDeleteAudit             Action = "audit:delete"
	ActionSubmitAudit             Action = "audit:submit"
	ActionReviewAudit             Action = "audit:review" // aprobar o rechazar
	ActionCloseAudit              Action = "audit:close"
	ActionCancelAudit             Action = "audit:cancel"
	ActionCreateActions           Action = "action:create"
	ActionManageActions           Action = "action:manage" // borrar acciones de cualquier autor
	ActionViewReports             Action = "report:view"
	ActionViewInternalComments    Action = "comment:internal"
	ActionManageStores            Action = "store:manage"
	ActionManageUsers             Action = "user:manage"
	ActionManageChecklists        Action = "checklist:manage"
	ActionAccessAdminDashboard    Action = "dashboard:admin"
	ActionAccessAmontDashboard    Action = "dashboard:amont"
	ActionAccessDOTDashboard      Action = "dashboard:dot"
	ActionAccessAderenteDashboard Action = "dashboard:aderente"
)

// grants tabla declarativa rol → acciones. Una sesión con varios roles obtiene la unión.
// Un rol ausente de la tabla (p. ej. etiquetas heredadas sin equivalente) no obtiene nada.
var grants = map[entity.Role][]Action{
	entity.RoleAdmin: {
		ActionCreateAudit, ActionEditAudit, ActionDeleteAudit, ActionSubmitAudit,
		ActionReviewAudit, ActionCloseAudit, ActionCancelAudit,
		ActionCreateActions, ActionManageActions, ActionViewReports, ActionViewInternalComments,
		ActionManageStores, ActionManageUsers, ActionManageChecklists,
		ActionAccessAdminDashboard, ActionAccessAmontDashboard, ActionAccessDOTDashboard, ActionAccessAderenteDashboard,
	},
	entity.RoleAmont: {
		ActionCreateAudit, ActionEditAudit, ActionDeleteAudit,
		ActionReviewAudit, ActionCloseAudit, ActionCancelAudit,
		ActionCreateActions, ActionManageActions, ActionViewReports, ActionViewInternalComments,
		ActionAccessAmontDashboard,
	},
	entity.RoleDOT: {
		ActionCreateAudit, ActionEditAudit, ActionSubmitAudit, ActionReviewAudit,
		ActionCreateActions, ActionViewReports, ActionViewInternalComments,
		ActionAccessDOTDashboard,
	},
	entity.RoleAderente: {
		ActionCreateAudit, ActionEditAudit, ActionSubmitAudit,
		ActionAccessAderenteDashboard,
	},
}

// Can informa si alguno de los roles de la sesión concede la acción.
func (s Session) Can(action Action) bool {
	for _, r := range s.Roles {
		for _, a := range grants[r] {
			if a == action {
				return true
			}
		}
	}
	return false
}

// CanCreateAudit programar auditorías (para sí o para un DOT).
func CanCreateAudit(s Session) bool {
	return s.Can(ActionCreateAudit)
}

// CanEditAudit editar puntuaciones y comentarios del auditor.
// Solo antes de SUBMITTED, y solo el ejecutor o un supervisor (ADMIN/AMONT).
// A partir de SUBMITTED nadie edita contenido: los supervisores solo aprueban o cierran.
func CanEditAudit(s Session, status entity.AuditStatus, ownerID string) bool {
	if !status.ContentEditable() || !s.Can(ActionEditAudit) {
		return false
	}
	if s.UserID != "" && s.UserID == ownerID {
		return true
	}
	return s.IsSupervisor()
}

// CanDeleteAudit borrado administrativo.
func CanDeleteAudit(s Session) bool {
	return s.Can(ActionDeleteAudit)
}

// CanSubmitAudit finalizar (IN_PROGRESS → SUBMITTED).
func CanSubmitAudit(s Session, status entity.AuditStatus) bool {
	return status == entity.StatusInProgress && s.Can(ActionSubmitAudit)
}

// CanCreateActions alta manual de planes de acción.
func CanCreateActions(s Session) bool {
	return s.Can(ActionCreateActions)
}

// CanViewReports informes y PDF de auditoría.
func CanViewReports(s Session) bool {
	return s.Can(ActionViewReports)
}

// CanViewInternalComments comentarios internos (nivel DOT y superiores).
func CanViewInternalComments(s Session) bool {
	return s.Can(ActionViewInternalComments)
}

// CanAccessAdminDashboard panel de administración.
func CanAccessAdminDashboard(s Session) bool { return s.Can(ActionAccessAdminDashboard) }

// CanAccessAmontDashboard panel de supervisor de área.
func CanAccessAmontDashboard(s Session) bool { return s.Can(ActionAccessAmontDashboard) }

// CanAccessDOTDashboard panel del auditor.
func CanAccessDOTDashboard(s Session) bool { return s.Can(ActionAccessDOTDashboard) }

// CanAccessAderenteDashboard panel de la tienda.
func CanAccessAderenteDashboard(s Session) bool { return s.Can(ActionAccessAderenteDashboard) }
