package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/divvyup/divvy/internal/adapter/http/dto"
	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/usecase"
)

// GroupService defines the behavior needed by GroupHandler.
type GroupService interface {
	CreateGroup(ctx context.Context, input usecase.CreateGroupInput) (*domain.Group, []*domain.Member, error)
	GetGroup(ctx context.Context, id string) (*domain.Group, error)
	ListGroups(ctx context.Context, input usecase.ListGroupsInput) ([]*domain.Group, error)
	ListMembers(ctx context.Context, groupID string) ([]*domain.Member, error)
	AddMember(ctx context.Context, groupID, name string) (*domain.Member, error)
	GetSummary(ctx context.Context, groupID string) (*usecase.GroupSummary, error)
}

// GroupHandler serves group and roster endpoints.
type GroupHandler struct {
	groupUC GroupService
	logger  zerolog.Logger
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupUC GroupService, logger zerolog.Logger) *GroupHandler {
	return &GroupHandler{groupUC: groupUC, logger: logger}
}

// Create handles POST /api/v1/groups.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, members, err := h.groupUC.CreateGroup(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.GroupDetailResponse{
		GroupResponse: dto.FromGroup(group),
		Members:       dto.FromMembers(members),
	})
}

// Get handles GET /api/v1/groups/{id}.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")

	group, err := h.groupUC.GetGroup(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	members, err := h.groupUC.ListMembers(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupDetailResponse{
		GroupResponse: dto.FromGroup(group),
		Members:       dto.FromMembers(members),
	})
}

// List handles GET /api/v1/groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	groups, err := h.groupUC.ListGroups(r.Context(), usecase.ListGroupsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromGroups(groups))
}

// Summary handles GET /api/v1/groups/{id}/summary.
func (h *GroupHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.groupUC.GetSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromGroupSummary(summary))
}

// AddMember handles POST /api/v1/groups/{id}/members.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req dto.AddMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.groupUC.AddMember(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromMember(member))
}

// ListMembers handles GET /api/v1/groups/{id}/members.
func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.groupUC.ListMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromMembers(members))
}
