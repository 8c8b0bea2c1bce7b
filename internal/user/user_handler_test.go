package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrms/internal/user"
	usererrors "go-hrms/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeUserService struct {
	getAllEmployeesFn func(ctx context.Context) ([]user.UserResponse, error)
	getByIDFn         func(ctx context.Context, id string) (user.UserResponse, error)
	updateFn          func(ctx context.Context, id string, req user.UpdateUserRequest) (user.UserResponse, error)
	statsOverviewFn   func(ctx context.Context) (user.OverviewStats, error)
}

func (f *fakeUserService) GetAllEmployees(ctx context.Context) ([]user.UserResponse, error) {
	return f.getAllEmployeesFn(ctx)
}
func (f *fakeUserService) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeUserService) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	return f.updateFn(ctx, id, req)
}
func (f *fakeUserService) StatsOverview(ctx context.Context) (user.OverviewStats, error) {
	return f.statsOverviewFn(ctx)
}

func TestUserHandler_GetAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeUserService{
			getAllEmployeesFn: func(ctx context.Context) ([]user.UserResponse, error) {
				return []user.UserResponse{
					{ID: uuid.New().String(), Email: "dina@example.com"},
				}, nil
			},
		}

		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/users", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []user.UserResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 1)
	})
}

func TestUserHandler_GetByID(t *testing.T) {
	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeUserService{
			getByIDFn: func(ctx context.Context, id string) (user.UserResponse, error) {
				return user.UserResponse{}, usererrors.ErrUserNotFound
			},
		}

		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/users/x", nil)
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestUserHandler_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		svc := &fakeUserService{
			updateFn: func(ctx context.Context, target string, req user.UpdateUserRequest) (user.UserResponse, error) {
				assert.Equal(t, id, target)
				assert.Equal(t, "New Name", req.Name)
				return user.UserResponse{ID: target, Name: req.Name}, nil
			},
		}

		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/users/"+id, strings.NewReader(`{"name":"New Name"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.Update(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative missing name", func(t *testing.T) {
		h := user.NewHandler(&fakeUserService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/users/x", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		h.Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserHandler_StatsOverview(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeUserService{
			statsOverviewFn: func(ctx context.Context) (user.OverviewStats, error) {
				return user.OverviewStats{TotalEmployees: 7}, nil
			},
		}

		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/users/stats/overview", nil)

		h.StatsOverview(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got user.OverviewStats
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, int64(7), got.TotalEmployees)
	})
}
