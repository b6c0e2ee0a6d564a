// Copyright (c) 2026 Inkwell. All rights reserved.

package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/datpham-dev/inkwell/internal/platform/middleware"
	requestutil "github.com/datpham-dev/inkwell/internal/platform/request"
	"github.com/datpham-dev/inkwell/internal/platform/respond"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
	"github.com/datpham-dev/inkwell/internal/platform/validate"
	"github.com/datpham-dev/inkwell/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// The media library is an author tool, nothing here is public.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(editorRoute chi.Router) {
		editorRoute.Use(middleware.RequireRole(sec.RoleEditor))

		editorRoute.Get("/", handler.listMedia)
		editorRoute.Get("/me", handler.listMyMedia)
		editorRoute.Get("/{id}", handler.getMedia)
		editorRoute.Post("/", handler.createMedia)
		editorRoute.Delete("/{id}", handler.deleteMedia)
	})
}

type createMediaRequest struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Key      string `json:"key"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

func actorFromRequest(request *http.Request) (Actor, error) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: claims.UserID, Role: sec.UserRole(claims.Role)}, nil
}

func (handler *Handler) listMedia(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	items, total, err := handler.service.List(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, items, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) listMyMedia(writer http.ResponseWriter, request *http.Request) {
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	paginationParams := pagination.FromRequest(request)

	items, total, err := handler.service.ListForUser(request.Context(), actor.ID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, items, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getMedia(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.service.GetByID(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) createMedia(writer http.ResponseWriter, request *http.Request) {
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createMediaRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.service.Create(request.Context(), actor, CreateInput{
		Filename: input.Filename,
		URL:      input.URL,
		Key:      input.Key,
		MimeType: input.MimeType,
		Size:     input.Size,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) deleteMedia(writer http.ResponseWriter, request *http.Request) {
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), actor, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
