package group

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/fkhayef/secretsanta/internal/apperr"
	"github.com/fkhayef/secretsanta/pkg/middleware"
	"github.com/fkhayef/secretsanta/pkg/response"
)

// Handler handles HTTP requests for group operations
type Handler struct {
	service       *Service
	defaultLocale language.Tag
}

// NewHandler creates a new group handler
func NewHandler(service *Service, defaultLocale language.Tag) *Handler {
	return &Handler{service: service, defaultLocale: defaultLocale}
}

// Routes returns the router for group endpoints. Create resolves the caller
// itself so that an anonymous submission gets the form's AUTH_ERROR state.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
	})

	return r
}

// Create handles POST /groups
// @Summary      Create a group and draw it
// @Description  Creates a group owned by the caller, adds the participants, draws the Secret Santa assignments and e-mails every participant. Accepts a form with groupName and parallel name/email fields, or JSON.
// @Tags         groups
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      303 "Redirect to /groups/{id}"
// @Failure      400 {object} response.FormState
// @Failure      401 {object} response.FormState
// @Failure      500 {object} response.FormState
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	locale := apperr.ResolveLocale(r.Header.Get("Accept-Language"), h.defaultLocale)

	req := DecodeCreateRequest(w, r)

	group, err := h.service.CreateGroup(r.Context(), req)
	if err != nil {
		code := apperr.CodeOf(err)
		if code == "" {
			code = apperr.CodeGroupCreation
		}
		response.Form(w, code.HTTPStatus(), false, apperr.Message(locale, code))
		return
	}

	http.Redirect(w, r, "/groups/"+group.ID, http.StatusSeeOther)
}

// GetByID handles GET /groups/{id}
// @Summary      Get group by ID
// @Description  Get a group owned by the caller with its participants. Assignments stay secret.
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      401 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	group, participants, err := h.service.GetByID(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to get group", "group_id", id, "error", err)
		response.InternalError(w, "Failed to get group")
		return
	}

	groupResponse := group.ToResponse()
	groupResponse.Participants = make([]*ParticipantResponse, len(participants))
	for i, p := range participants {
		groupResponse.Participants[i] = p.ToResponse()
	}

	response.JSON(w, http.StatusOK, groupResponse)
}

// List handles GET /groups
// @Summary      List the caller's groups
// @Description  Get a paginated list of the groups the caller created
// @Tags         groups
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /groups [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	groups, total, err := h.service.ListByOwner(r.Context(), userID, page, perPage)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list groups", "error", err)
		response.InternalError(w, "Failed to list groups")
		return
	}

	groupResponses := make([]*GroupResponse, len(groups))
	for i, group := range groups {
		groupResponses[i] = group.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, groupResponses, meta)
}
