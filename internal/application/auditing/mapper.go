package auditing

import (
	"time"

	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain/audit"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/scoring"
)

func toAuditResponse(a *entity.Audit) *dto.AuditResponse {
	if a == nil {
		return nil
	}
	return &dto.AuditResponse{
		ID:              a.ID,
		StoreID:         a.StoreID,
		UserID:          a.UserID,
		ChecklistID:     a.ChecklistID,
		CreatedBy:       a.CreatedBy,
		DtStart:         a.DtStart,
		DtEnd:           a.DtEnd,
		SubmittedAt:     a.SubmittedAt,
		Status:          a.Status.String(),
		StatusCode:      int(a.Status),
		LegacyStatus:    audit.LegacyStatus(a.Status),
		AuditorComments: a.AuditorComments,
		Score:           a.Score,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toScoreResponse(s *entity.AuditScore) dto.ScoreResponse {
	photos := s.Photos
	if photos == nil {
		photos = []string{}
	}
	return dto.ScoreResponse{
		CriteriaID: s.CriteriaID,
		Score:      s.Score,
		Comment:    s.Comment,
		Photos:     photos,
		UpdatedBy:  s.UpdatedBy,
		UpdatedAt:  s.UpdatedAt,
	}
}

func toSummaryResponse(s scoring.Summary) dto.ScoreSummaryResponse {
	return dto.ScoreSummaryResponse{
		Percentage:         s.Percentage,
		ScoredCount:        s.ScoredCount,
		NotApplicableCount: s.NotApplicableCount,
		UnscoredCount:      s.UnscoredCount,
	}
}

func toActionResponse(a *entity.ActionPlan, now time.Time) dto.ActionResponse {
	return dto.ActionResponse{
		ID:            a.ID,
		AuditID:       a.AuditID,
		CriteriaID:    a.CriteriaID,
		Title:         a.Title,
		Description:   a.Description,
		Responsible:   a.Responsible,
		DueDate:       a.DueDate,
		Status:        a.Status,
		Progress:      a.Progress,
		CreatedBy:     a.CreatedBy,
		CompletedDate: a.CompletedDate,
		Overdue:       a.IsOpen() && now.After(a.DueDate),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toActionResponses(list []*entity.ActionPlan, now time.Time) []dto.ActionResponse {
	out := make([]dto.ActionResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toActionResponse(a, now))
	}
	return out
}

func toCommentResponse(c *entity.AuditComment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         c.ID,
		AuditID:    c.AuditID,
		UserID:     c.UserID,
		Body:       c.Body,
		IsInternal: c.IsInternal,
		CreatedAt:  c.CreatedAt,
	}
}

func toVisitResponse(v *entity.Visit) *dto.VisitResponse {
	if v == nil {
		return nil
	}
	return &dto.VisitResponse{
		ID:           v.ID,
		StoreID:      v.StoreID,
		UserID:       v.UserID,
		CreatedBy:    v.CreatedBy,
		Type:         v.Type,
		DtStart:      v.DtStart,
		DtEnd:        v.DtEnd,
		Status:       v.Status.String(),
		LegacyStatus: audit.LegacyStatus(v.Status),
		Notes:        v.Notes,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
