package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appdashboard "github.com/cms/dashboard/internal/application/dashboard"
	appidentity "github.com/cms/dashboard/internal/application/identity"
	"github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/cms/dashboard/internal/domain/identity"
	"github.com/cms/dashboard/internal/infrastructure/auth"
	"github.com/cms/dashboard/internal/infrastructure/config"
	"github.com/cms/dashboard/internal/infrastructure/persistence"
	"github.com/cms/dashboard/internal/infrastructure/persistence/models"
	"github.com/cms/dashboard/internal/interfaces/http/middleware"
	"github.com/cms/dashboard/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer wires the full HTTP stack over an in-memory database
type testServer struct {
	engine     *gin.Engine
	jwtService *auth.JWTService
	members    *persistence.GormMemberRepository
	panels     *persistence.GormPanelRepository
	items      *persistence.GormPanelItemRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PanelModel{}, &models.PanelItemModel{}, &models.MemberModel{}))

	panelRepo := persistence.NewGormPanelRepository(db)
	itemRepo := persistence.NewGormPanelItemRepository(db)
	memberRepo := persistence.NewGormMemberRepository(db)

	registry := dashboard.NewRegistry()
	require.NoError(t, appdashboard.RegisterBuiltinVariants(registry, dashboard.NewModelAdminDirectory()))

	checker := appidentity.NewMemberPermissionChecker(memberRepo)
	providers := appdashboard.NewProviderSet(appdashboard.NewTodoProvider(itemRepo))
	logger := zap.NewNop()

	panelService := appdashboard.NewPanelService(panelRepo, registry, providers, checker, nil, logger)
	itemService := appdashboard.NewItemService(panelRepo, itemRepo, registry, checker, logger)
	layoutService := appdashboard.NewLayoutService(panelRepo, itemRepo, memberRepo, checker, logger)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-key-123456789",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "dashboard-test",
	})
	blacklist := auth.NewMemoryTokenBlacklist()
	authService := appidentity.NewAuthService(memberRepo, jwtService, blacklist, layoutService, logger)

	authMW := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
	})

	engine := gin.New()
	router.NewRouter(engine).
		Register(NewAuthHandler(authService, authMW)).
		Register(NewDashboardHandler(panelService, itemService, layoutService, authMW)).
		Setup()

	return &testServer{
		engine:     engine,
		jwtService: jwtService,
		members:    memberRepo,
		panels:     panelRepo,
		items:      itemRepo,
	}
}

func (s *testServer) createMember(t *testing.T, email string, permissions []string) (*identity.Member, string) {
	t.Helper()
	member, err := identity.NewMember(email, "password123", permissions)
	require.NoError(t, err)
	require.NoError(t, s.members.Save(context.Background(), member))

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		MemberID:    member.GetID(),
		Email:       member.Email,
		Permissions: member.Permissions,
	})
	require.NoError(t, err)
	return member, tokens.AccessToken
}

func (s *testServer) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Data
}

func TestLoginEndpoint(t *testing.T) {
	server := newTestServer(t)
	server.createMember(t, "member@example.com", identity.AllDashboardPermissions)

	t.Run("valid credentials return tokens", func(t *testing.T) {
		w := server.request(t, http.MethodPost, "/api/v1/auth/login", "",
			gin.H{"email": "member@example.com", "password": "password123"})

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		token := data["token"].(map[string]any)
		assert.NotEmpty(t, token["access_token"])
		assert.Equal(t, "Bearer", token["token_type"])
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		w := server.request(t, http.MethodPost, "/api/v1/auth/login", "",
			gin.H{"email": "member@example.com", "password": "nope-nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("first login copies the site default layout", func(t *testing.T) {
		registry := dashboard.NewRegistry()
		require.NoError(t, appdashboard.RegisterBuiltinVariants(registry, dashboard.NewModelAdminDirectory()))
		variant, ok := registry.Lookup(appdashboard.VariantTodo)
		require.True(t, ok)
		require.NoError(t, server.panels.Save(context.Background(), dashboard.NewSiteDefaultPanel(variant)))

		member, token := server.createMember(t, "fresh@example.com", identity.AllDashboardPermissions)

		w := server.request(t, http.MethodPost, "/api/v1/auth/login", "",
			gin.H{"email": "fresh@example.com", "password": "password123"})
		require.Equal(t, http.StatusOK, w.Code)

		layout := server.request(t, http.MethodGet, "/api/v1/dashboard", token, nil)
		require.Equal(t, http.StatusOK, layout.Code)
		data := decodeData(t, layout)
		assert.Len(t, data["panels"], 1)

		saved, err := server.members.FindByID(context.Background(), member.GetID())
		require.NoError(t, err)
		assert.True(t, saved.HasConfiguredDashboard)
	})
}

func TestDashboardEndpoints(t *testing.T) {
	server := newTestServer(t)
	_, token := server.createMember(t, "member@example.com", identity.AllDashboardPermissions)

	t.Run("requires authentication", func(t *testing.T) {
		w := server.request(t, http.MethodGet, "/api/v1/dashboard", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty layout", func(t *testing.T) {
		w := server.request(t, http.MethodGet, "/api/v1/dashboard", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Empty(t, data["panels"])
	})

	t.Run("picker lists installed variants by priority", func(t *testing.T) {
		w := server.request(t, http.MethodGet, "/api/v1/dashboard/available", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 4)
		assert.Equal(t, appdashboard.VariantModelAdmin, resp.Data[0]["type"])
		assert.Equal(t, appdashboard.VariantWeather, resp.Data[1]["type"])
	})

	var panelID string

	t.Run("create panel", func(t *testing.T) {
		w := server.request(t, http.MethodPost, "/api/v1/dashboard/panel", token,
			gin.H{"variant_type": appdashboard.VariantTodo})
		require.Equal(t, http.StatusCreated, w.Code)

		data := decodeData(t, w)
		panel := data["panel"].(map[string]any)
		panelID = panel["id"].(string)
		assert.Equal(t, appdashboard.VariantTodo, panel["variant_type"])
		assert.Equal(t, false, data["configure_on_create"])
	})

	t.Run("unknown variant is rejected", func(t *testing.T) {
		w := server.request(t, http.MethodPost, "/api/v1/dashboard/panel", token,
			gin.H{"variant_type": "nonsense"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("configuration form carries schema and values", func(t *testing.T) {
		w := server.request(t, http.MethodGet,
			fmt.Sprintf("/api/v1/dashboard/panel/%s/configuration", panelID), token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeData(t, w)
		schema := data["schema"].([]any)
		first := schema[0].(map[string]any)
		assert.Equal(t, "title", first["name"])
	})

	t.Run("invalid configuration reports field errors", func(t *testing.T) {
		w := server.request(t, http.MethodPut,
			fmt.Sprintf("/api/v1/dashboard/panel/%s/configuration", panelID), token,
			gin.H{"values": gin.H{"size": "gigantic"}})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Error struct {
				Code    string `json:"code"`
				Details []struct {
					Field string `json:"field"`
				} `json:"details"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "size", resp.Error.Details[0].Field)
	})

	t.Run("valid configuration is applied", func(t *testing.T) {
		w := server.request(t, http.MethodPut,
			fmt.Sprintf("/api/v1/dashboard/panel/%s/configuration", panelID), token,
			gin.H{"values": gin.H{"title": "Chores", "size": "large"}})
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeData(t, w)
		assert.Equal(t, "Chores", data["title"])
		assert.Equal(t, "large", data["size"])
	})

	t.Run("items round trip", func(t *testing.T) {
		w := server.request(t, http.MethodPost,
			fmt.Sprintf("/api/v1/dashboard/panel/%s/items", panelID), token,
			gin.H{"fields": gin.H{"text": "water the plants", "done": "false"}})
		require.Equal(t, http.StatusCreated, w.Code)

		list := server.request(t, http.MethodGet,
			fmt.Sprintf("/api/v1/dashboard/panel/%s/items", panelID), token, nil)
		require.Equal(t, http.StatusOK, list.Code)

		var resp struct {
			Data []map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(list.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		fields := resp.Data[0]["fields"].(map[string]any)
		assert.Equal(t, "water the plants", fields["text"])
	})

	t.Run("items on an itemless panel are rejected", func(t *testing.T) {
		w := server.request(t, http.MethodPost, "/api/v1/dashboard/panel", token,
			gin.H{"variant_type": appdashboard.VariantWeather})
		require.Equal(t, http.StatusCreated, w.Code)
		weatherID := decodeData(t, w)["panel"].(map[string]any)["id"].(string)

		items := server.request(t, http.MethodPost,
			fmt.Sprintf("/api/v1/dashboard/panel/%s/items", weatherID), token,
			gin.H{"fields": gin.H{"text": "x"}})
		assert.Equal(t, http.StatusUnprocessableEntity, items.Code)
	})

	t.Run("unknown panel is 404", func(t *testing.T) {
		w := server.request(t, http.MethodGet,
			fmt.Sprintf("/api/v1/dashboard/panel/%s", uuid.New()), token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("foreign panel is 403", func(t *testing.T) {
		_, otherToken := server.createMember(t, "other@example.com", identity.AllDashboardPermissions)
		w := server.request(t, http.MethodGet,
			fmt.Sprintf("/api/v1/dashboard/panel/%s", panelID), otherToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete panel", func(t *testing.T) {
		w := server.request(t, http.MethodDelete,
			fmt.Sprintf("/api/v1/dashboard/panel/%s", panelID), token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestLayoutAdminEndpoints(t *testing.T) {
	server := newTestServer(t)
	_, memberToken := server.createMember(t, "member@example.com", identity.AllDashboardPermissions)
	_, adminToken := server.createMember(t, "admin@example.com", []string{identity.PermissionAdmin})

	t.Run("set as default requires admin", func(t *testing.T) {
		w := server.request(t, http.MethodPost, "/api/v1/dashboard/setdefault", memberToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin promotes their layout", func(t *testing.T) {
		created := server.request(t, http.MethodPost, "/api/v1/dashboard/panel", adminToken,
			gin.H{"variant_type": appdashboard.VariantTodo})
		require.Equal(t, http.StatusCreated, created.Code)

		w := server.request(t, http.MethodPost, "/api/v1/dashboard/setdefault", adminToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		defaults, err := server.panels.FindByOwner(context.Background(), dashboard.SiteDefaultOwner())
		require.NoError(t, err)
		assert.Len(t, defaults, 1)
	})

	t.Run("apply to all reports the run", func(t *testing.T) {
		w := server.request(t, http.MethodPost, "/api/v1/dashboard/applytoall", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeData(t, w)
		assert.Equal(t, float64(1), data["applied"])
	})
}
