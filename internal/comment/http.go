package comment

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/datpham-dev/inkwell/internal/platform/apperr"
	"github.com/datpham-dev/inkwell/internal/platform/middleware"
	requestutil "github.com/datpham-dev/inkwell/internal/platform/request"
	"github.com/datpham-dev/inkwell/internal/platform/respond"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
	"github.com/datpham-dev/inkwell/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/post/{postID}", handler.listForPost)
	router.Get("/{id}", handler.getComment)

	// Authenticated users
	router.Group(func(userRoute chi.Router) {
		userRoute.Use(middleware.RequireAuth)

		userRoute.Post("/", handler.createComment)
		userRoute.Get("/me", handler.listMyComments)
		userRoute.Patch("/{id}", handler.updateComment)
		userRoute.Delete("/{id}", handler.deleteComment)
	})

	// Moderation
	router.Group(func(modRoute chi.Router) {
		modRoute.Use(middleware.RequireRole(sec.RoleEditor))

		modRoute.Get("/", handler.findComments)
		modRoute.Patch("/{id}/status", handler.setCommentStatus)
	})
}

func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	comment, err := handler.service.GetByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// An unapproved comment is visible to its author and to moderators only.
	// Everyone else gets the same 404 as a missing row, so the moderation
	// queue leaks nothing.
	if comment.Status != StatusApproved && !canViewUnapproved(request, comment) {
		respond.Error(writer, request, apperr.NotFound("comment"))
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) listForPost(writer http.ResponseWriter, request *http.Request) {
	postID := requestutil.ID(request, "postID")
	take, skip := takeSkipParams(request)

	// The status filter is a moderation tool. Readers without editor claims
	// are pinned to APPROVED no matter what the query string says.
	status := statusParam(request)
	if !isModerator(request) {
		approved := StatusApproved
		status = &approved
	}

	result, err := handler.service.ListForPost(request.Context(), postID, status, take, skip)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) listMyComments(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	take, skip := takeSkipParams(request)
	result, err := handler.service.ListForUser(request.Context(), userID, take, skip)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) findComments(writer http.ResponseWriter, request *http.Request) {
	take, skip := takeSkipParams(request)

	filter := Filter{
		SearchTerm: request.URL.Query().Get("q"),
		AuthorID:   request.URL.Query().Get("author_id"),
		PostID:     request.URL.Query().Get("post_id"),
		Status:     statusParam(request),
		RootOnly:   request.URL.Query().Get("root_only") == "true",
		Take:       take,
		Skip:       skip,
	}

	result, err := handler.service.Find(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), actor, requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) setCommentStatus(writer http.ResponseWriter, request *http.Request) {
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Status Status `json:"status"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.SetStatus(request.Context(), actor, requestutil.ID(request, "id"), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
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

// isModerator reports whether the request carries editor-or-above claims.
func isModerator(request *http.Request) bool {
	claims := requestutil.Claims(request)
	return claims != nil && sec.UserRole(claims.Role).AtLeast(sec.RoleEditor)
}

// canViewUnapproved reports whether the requester may read a comment that is
// not (or no longer) approved.
func canViewUnapproved(request *http.Request, comment *Comment) bool {
	claims := requestutil.Claims(request)
	if claims == nil {
		return false
	}
	return claims.UserID == comment.AuthorID || sec.UserRole(claims.Role).AtLeast(sec.RoleEditor)
}

// actorFromRequest converts the JWT claims into a service-layer [Actor].
func actorFromRequest(request *http.Request) (Actor, error) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: claims.UserID, Role: sec.UserRole(claims.Role)}, nil
}

// takeSkipParams parses the take/skip pagination pair, clamped to the shared
// pagination bounds.
func takeSkipParams(request *http.Request) (take, skip int) {
	take = pagination.DefaultLimit
	if raw := request.URL.Query().Get("take"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			take = n
		}
	}
	if take > pagination.MaxLimit {
		take = pagination.MaxLimit
	}

	if raw := request.URL.Query().Get("skip"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			skip = n
		}
	}
	return take, skip
}

// statusParam parses an optional ?status= filter.
func statusParam(request *http.Request) *Status {
	raw := request.URL.Query().Get("status")
	if raw == "" {
		return nil
	}
	status := Status(raw)
	return &status
}
