package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/models"
	"github.com/nursultan-dev/campus-hub-api/internal/service"
)

type stubPointsService struct {
	categories []dto.PointCategoryResponse
	grant      dto.PointGrantResponse
	applyErr   error

	appliedStudentID uint
	appliedPayload   dto.PointTransactionCreateRequest
	appliedActor     service.Actor
}

func (s *stubPointsService) ApplyTransaction(ctx context.Context, studentID uint, payload dto.PointTransactionCreateRequest, actor service.Actor) (dto.PointGrantResponse, error) {
	s.appliedStudentID = studentID
	s.appliedPayload = payload
	s.appliedActor = actor
	if s.applyErr != nil {
		return dto.PointGrantResponse{}, s.applyErr
	}
	return s.grant, nil
}

func (s *stubPointsService) ListTransactions(ctx context.Context, studentID uint, page, perPage int) (dto.LedgerResponse, error) {
	return dto.LedgerResponse{}, nil
}

func (s *stubPointsService) ListCategories(ctx context.Context) ([]dto.PointCategoryResponse, error) {
	return s.categories, nil
}

func (s *stubPointsService) CreateCategory(ctx context.Context, payload dto.PointCategoryCreateRequest, actor service.Actor) (dto.PointCategoryResponse, error) {
	return dto.PointCategoryResponse{}, nil
}

func (s *stubPointsService) UpdateCategory(ctx context.Context, id uint, payload dto.PointCategoryUpdateRequest, actor service.Actor) (dto.PointCategoryResponse, error) {
	return dto.PointCategoryResponse{}, nil
}

func newPointsTestApp(svc service.PointsService) *fiber.App {
	app := fiber.New()
	handler := NewPointsHandler(svc, zerolog.Nop())

	// Simulates the JWT middleware populating the request identity.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(99))
		c.Locals("user_role", models.RoleAdmin)
		return c.Next()
	})

	points := app.Group("/points")
	handler.Register(points)
	handler.RegisterAdminRoutes(app.Group("/admin"))
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestPointsHandlerListCategories(t *testing.T) {
	svc := &stubPointsService{categories: []dto.PointCategoryResponse{
		{ID: 1, Name: "Победа в хакатоне", Points: 50, IsActive: true},
	}}
	app := newPointsTestApp(svc)

	status, env := doJSON(t, app, http.MethodGet, "/points/categories", "")
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var categories []dto.PointCategoryResponse
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	require.Len(t, categories, 1)
	require.Equal(t, "Победа в хакатоне", categories[0].Name)
}

func TestPointsHandlerApplyTransaction(t *testing.T) {
	svc := &stubPointsService{grant: dto.PointGrantResponse{
		Transaction: dto.PointTransactionResponse{ID: 1, StudentID: 7, Points: 50, SomEarned: 10},
		Balance:     dto.BalanceResponse{TotalPoints: 50, TotalSom: 10},
	}}
	app := newPointsTestApp(svc)

	status, env := doJSON(t, app, http.MethodPost, "/admin/students/7/points", `{"category_id": 1}`)
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)
	require.Equal(t, uint(7), svc.appliedStudentID)
	require.Equal(t, uint(1), svc.appliedPayload.CategoryID)
	require.Equal(t, uint(99), svc.appliedActor.UserID)
	require.Equal(t, models.RoleAdmin, svc.appliedActor.Role)
}

func TestPointsHandlerErrorMapping(t *testing.T) {
	svc := &stubPointsService{applyErr: service.ErrStudentNotFound}
	app := newPointsTestApp(svc)

	status, env := doJSON(t, app, http.MethodPost, "/admin/students/404/points", `{"category_id": 1}`)
	require.Equal(t, http.StatusNotFound, status)
	require.False(t, env.Success)

	svc.applyErr = service.ErrForbidden
	status, _ = doJSON(t, app, http.MethodPost, "/admin/students/7/points", `{"category_id": 1}`)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodPost, "/admin/students/abc/points", `{"category_id": 1}`)
	require.Equal(t, http.StatusBadRequest, status)
}
