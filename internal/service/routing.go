package service

import (
	"context"

	"officina/internal/model"
	"officina/internal/repository"

	"github.com/google/uuid"
)

// Router maps product categories to production boards so tasks created
// from a category land on the right board automatically.
type Router struct {
	boards *repository.BoardRepository
}

func NewRouter(boards *repository.BoardRepository) *Router {
	return &Router{boards: boards}
}

// ProductionBoardFor returns the production board assigned to the
// category, or the site's first production board when the category has no
// dedicated one. A nil categoryID is treated as "no category". Returns
// nil when the site has no production boards at all.
func (r *Router) ProductionBoardFor(ctx context.Context, siteID uuid.UUID, categoryID *uuid.UUID) (*model.Board, error) {
	boards, err := r.boards.ProductionBoards(ctx, siteID)
	if err != nil {
		return nil, storeErr("list production boards", err)
	}
	if len(boards) == 0 {
		return nil, nil
	}

	if categoryID != nil {
		for i := range boards {
			if boards[i].CategoryID != nil && *boards[i].CategoryID == *categoryID {
				return &boards[i], nil
			}
		}
	}
	return &boards[0], nil
}
