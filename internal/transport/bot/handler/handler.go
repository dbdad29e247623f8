package handler

import (
	"context"

	"dealsadmin/internal/domain/entity"
	"dealsadmin/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const defaultPageSize = 5

type DealsLister interface {
	ListDeals(ctx context.Context, status entity.DealStatus) ([]entity.Deal, error)
}

type Handler struct {
	api      DealsLister
	pageSize int
}

func New(api DealsLister) *Handler {
	return &Handler{
		api:      api,
		pageSize: defaultPageSize,
	}
}
