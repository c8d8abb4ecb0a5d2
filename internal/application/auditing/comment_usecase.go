package auditing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// CommentUseCase discusión de una auditoría (solo inserción).
type CommentUseCase struct {
	base
}

// NewCommentUseCase construye el caso de uso.
func NewCommentUseCase(d Deps) *CommentUseCase {
	return &CommentUseCase{base: newBase(d)}
}

// List comentarios de la auditoría; los internos solo para el nivel DOT y superiores.
func (uc *CommentUseCase) List(ctx context.Context, s access.Session, auditID string) ([]dto.CommentResponse, error) {
	a, err := uc.loadAudit(ctx, s, auditID)
	if err != nil {
		return nil, err
	}
	list, err := uc.Comments.ListByAudit(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("listar comentarios: %w", err)
	}
	internal := access.CanViewInternalComments(s)
	out := make([]dto.CommentResponse, 0, len(list))
	for _, c := range list {
		if c.IsInternal && !internal {
			continue
		}
		out = append(out, toCommentResponse(c))
	}
	return out, nil
}

// Create agrega un comentario. Está permitido en cualquier estado de la auditoría.
func (uc *CommentUseCase) Create(ctx context.Context, s access.Session, auditID string, in dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	a, err := uc.loadAudit(ctx, s, auditID)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: body es requerido", domain.ErrInvalidInput)
	}
	if in.IsInternal && !access.CanViewInternalComments(s) {
		return nil, fmt.Errorf("%w: comentarios internos solo para el nivel DOT", domain.ErrForbidden)
	}
	c := &entity.AuditComment{
		ID:         uc.NewID(),
		AuditID:    a.ID,
		UserID:     s.UserID,
		Body:       body,
		IsInternal: in.IsInternal,
		CreatedAt:  uc.Now(),
	}
	if err := uc.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toCommentResponse(c)
	return &out, nil
}
