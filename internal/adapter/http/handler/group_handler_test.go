package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/usecase"
)

type groupServiceStub struct {
	createFn      func(ctx context.Context, input usecase.CreateGroupInput) (*domain.Group, []*domain.Member, error)
	getFn         func(ctx context.Context, id string) (*domain.Group, error)
	listFn        func(ctx context.Context, input usecase.ListGroupsInput) ([]*domain.Group, error)
	listMembersFn func(ctx context.Context, groupID string) ([]*domain.Member, error)
	addMemberFn   func(ctx context.Context, groupID, name string) (*domain.Member, error)
	summaryFn     func(ctx context.Context, groupID string) (*usecase.GroupSummary, error)
}

func (s *groupServiceStub) CreateGroup(ctx context.Context, input usecase.CreateGroupInput) (*domain.Group, []*domain.Member, error) {
	return s.createFn(ctx, input)
}

func (s *groupServiceStub) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return s.getFn(ctx, id)
}

func (s *groupServiceStub) ListGroups(ctx context.Context, input usecase.ListGroupsInput) ([]*domain.Group, error) {
	return s.listFn(ctx, input)
}

func (s *groupServiceStub) ListMembers(ctx context.Context, groupID string) ([]*domain.Member, error) {
	return s.listMembersFn(ctx, groupID)
}

func (s *groupServiceStub) AddMember(ctx context.Context, groupID, name string) (*domain.Member, error) {
	return s.addMemberFn(ctx, groupID, name)
}

func (s *groupServiceStub) GetSummary(ctx context.Context, groupID string) (*usecase.GroupSummary, error) {
	return s.summaryFn(ctx, groupID)
}

func newGroupRouter(stub *groupServiceStub) http.Handler {
	h := NewGroupHandler(stub, zerolog.Nop())
	r := chi.NewRouter()
	r.Post("/groups", h.Create)
	r.Get("/groups/{id}", h.Get)
	r.Post("/groups/{id}/members", h.AddMember)
	return r
}

func TestGroupHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateGroupInput
	stub := &groupServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateGroupInput) (*domain.Group, []*domain.Member, error) {
			captured = input
			return &domain.Group{ID: "g1", Name: input.Name},
				[]*domain.Member{{ID: "m1", GroupID: "g1", Name: "alice"}},
				nil
		},
	}

	body := bytes.NewBufferString(`{"name":"ski trip","members":["alice"]}`)
	req := httptest.NewRequest(http.MethodPost, "/groups", body)
	rr := httptest.NewRecorder()
	newGroupRouter(stub).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.Name != "ski trip" || len(captured.MemberNames) != 1 {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp struct {
		ID      string `json:"id"`
		Members []struct {
			ID string `json:"id"`
		} `json:"members"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ID != "g1" || len(resp.Members) != 1 {
		t.Fatalf("unexpected response: %s", rr.Body.String())
	}
}

func TestGroupHandler_Create_InvalidBody(t *testing.T) {
	stub := &groupServiceStub{}

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{not json`))
	rr := httptest.NewRecorder()
	newGroupRouter(stub).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGroupHandler_Get_NotFound(t *testing.T) {
	stub := &groupServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Group, error) {
			return nil, domain.ErrGroupNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/groups/missing", nil)
	rr := httptest.NewRecorder()
	newGroupRouter(stub).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGroupHandler_AddMember_EmptyName(t *testing.T) {
	stub := &groupServiceStub{
		addMemberFn: func(ctx context.Context, groupID, name string) (*domain.Member, error) {
			return nil, domain.ErrInvalidName
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/groups/g1/members", bytes.NewBufferString(`{"name":""}`))
	rr := httptest.NewRecorder()
	newGroupRouter(stub).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
