// Copyright (c) 2026 Inkwell. All rights reserved.

package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/datpham-dev/inkwell/internal/platform/middleware"
	"github.com/datpham-dev/inkwell/internal/platform/respond"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// The dashboard is for authors and up.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(editorRoute chi.Router) {
		editorRoute.Use(middleware.RequireRole(sec.RoleEditor))

		editorRoute.Get("/overview", handler.getOverview)
		editorRoute.Get("/activity", handler.getActivity)
	})
}

func (handler *Handler) getOverview(writer http.ResponseWriter, request *http.Request) {
	overview, err := handler.service.Overview(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, overview)
}

func (handler *Handler) getActivity(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.service.RecentActivity(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, items)
}
