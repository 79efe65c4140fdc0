package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	authsvc "github.com/pawhaven/petshop-backend/internal/auth"
	cartsvc "github.com/pawhaven/petshop-backend/internal/cart"
	ordersvc "github.com/pawhaven/petshop-backend/internal/orders"
	petsvc "github.com/pawhaven/petshop-backend/internal/pets"
	usersvc "github.com/pawhaven/petshop-backend/internal/users"
	wishsvc "github.com/pawhaven/petshop-backend/internal/wishlist"
	pkgauth "github.com/pawhaven/petshop-backend/pkg/auth"
	"github.com/pawhaven/petshop-backend/pkg/auth/session"
	"github.com/pawhaven/petshop-backend/pkg/config"
	"github.com/pawhaven/petshop-backend/pkg/enums"
	"github.com/pawhaven/petshop-backend/pkg/logger"
	"github.com/pawhaven/petshop-backend/pkg/metrics"
	"github.com/pawhaven/petshop-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input authsvc.RegisterInput) (authsvc.AuthResultDTO, error) {
	return authsvc.AuthResultDTO{}, nil
}

func (stubAuthService) Login(ctx context.Context, input authsvc.LoginInput) (authsvc.AuthResultDTO, error) {
	return authsvc.AuthResultDTO{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, input authsvc.RefreshInput) (authsvc.TokenPairDTO, error) {
	return authsvc.TokenPairDTO{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

type stubPetService struct{}

func (stubPetService) List(ctx context.Context, filter petsvc.ListFilter, cursor string, limit int) (types.Page[petsvc.PetDTO], error) {
	return types.Page[petsvc.PetDTO]{}, nil
}

func (stubPetService) Get(ctx context.Context, id uuid.UUID) (petsvc.PetDTO, error) {
	return petsvc.PetDTO{ID: id}, nil
}

func (stubPetService) Create(ctx context.Context, input petsvc.CreatePetInput) (petsvc.PetDTO, error) {
	return petsvc.PetDTO{}, nil
}

func (stubPetService) Update(ctx context.Context, id uuid.UUID, input petsvc.UpdatePetInput) (petsvc.PetDTO, error) {
	return petsvc.PetDTO{}, nil
}

func (stubPetService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, userID uuid.UUID) (cartsvc.CartDTO, error) {
	return cartsvc.CartDTO{Items: []cartsvc.CartLineDTO{}}, nil
}

func (stubCartService) Add(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (cartsvc.CartDTO, error) {
	return cartsvc.CartDTO{}, nil
}

func (stubCartService) SetQuantity(ctx context.Context, userID, petID uuid.UUID, quantity int) (cartsvc.CartDTO, error) {
	return cartsvc.CartDTO{}, nil
}

func (stubCartService) Remove(ctx context.Context, userID, petID uuid.UUID) (cartsvc.CartDTO, error) {
	return cartsvc.CartDTO{}, nil
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubWishlistService struct{}

func (stubWishlistService) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (types.Page[wishsvc.ItemDTO], error) {
	return types.Page[wishsvc.ItemDTO]{}, nil
}

func (stubWishlistService) Add(ctx context.Context, userID, petID uuid.UUID) error {
	return nil
}

func (stubWishlistService) Remove(ctx context.Context, userID, petID uuid.UUID) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) Checkout(ctx context.Context, userID uuid.UUID) (ordersvc.OrderDTO, error) {
	return ordersvc.OrderDTO{}, nil
}

func (stubOrdersService) Get(ctx context.Context, userID, orderID uuid.UUID) (ordersvc.OrderDTO, error) {
	return ordersvc.OrderDTO{}, nil
}

func (stubOrdersService) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (types.Page[ordersvc.OrderDTO], error) {
	return types.Page[ordersvc.OrderDTO]{}, nil
}

func (stubOrdersService) AdminList(ctx context.Context, statusFilter string, cursor string, limit int) (types.Page[ordersvc.OrderDTO], error) {
	return types.Page[ordersvc.OrderDTO]{}, nil
}

func (stubOrdersService) AdminGet(ctx context.Context, orderID uuid.UUID) (ordersvc.OrderDTO, error) {
	return ordersvc.OrderDTO{}, nil
}

func (stubOrdersService) SetStatus(ctx context.Context, orderID uuid.UUID, rawStatus string) (ordersvc.OrderDTO, error) {
	return ordersvc.OrderDTO{}, nil
}

type stubUserAdminService struct{}

func (stubUserAdminService) List(ctx context.Context, cursor string, limit int) (types.Page[usersvc.UserDTO], error) {
	return types.Page[usersvc.UserDTO]{}, nil
}

func (stubUserAdminService) Get(ctx context.Context, id uuid.UUID) (usersvc.UserDTO, error) {
	return usersvc.UserDTO{ID: id}, nil
}

func (stubUserAdminService) Update(ctx context.Context, id uuid.UUID, input usersvc.UpdateUserInput) (usersvc.UserDTO, error) {
	return usersvc.UserDTO{ID: id}, nil
}

func (stubUserAdminService) UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (usersvc.UserDTO, error) {
	return usersvc.UserDTO{ID: id, Role: role}, nil
}

func (stubUserAdminService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "petshop",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	registry := prometheus.NewRegistry()
	return NewRouter(
		cfg,
		logg,
		registry,
		metrics.NewHTTPMetrics(registry),
		stubPinger{},
		nil, // redis: rate limiting is disabled without limits configured
		stubSessionManager{},
		Services{
			Auth:       stubAuthService{},
			PetCatalog: stubPetService{},
			PetAdmin:   stubPetService{},
			Cart:       stubCartService{},
			Wishlist:   stubWishlistService{},
			Orders:     stubOrdersService{},
			OrderAdmin: stubOrdersService{},
			UserAdmin:  stubUserAdminService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestCatalogIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pets", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public catalog got %d", resp.Code)
	}
}

func TestCartRequiresJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleBuyer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	buyer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleBuyer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestOrdersCheckoutRequiresJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleBuyer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 with token got %d", resp.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig())

	live := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, live)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}

	ready := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, ready)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}
