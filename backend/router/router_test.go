package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"store-rating/backend/app/db/dbtest"
	"store-rating/backend/app/dto"
	"store-rating/backend/app/services"
	"store-rating/backend/config"
	"store-rating/backend/initialize"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type api struct {
	t   *testing.T
	srv *httptest.Server
	app *initialize.App
}

func newAPI(t *testing.T, basePath string) *api {
	t.Helper()
	cfg := &config.Config{
		Server: config.Server{BasePath: basePath, CORSOrigins: []string{"http://localhost:5173"}},
		JWT:    config.JWT{Secret: "test-secret", Issuer: "store-rating", TTL: time.Hour},
		Auth:   config.Auth{BcryptCost: bcrypt.MinCost},
	}
	app := initialize.NewApp(cfg, zerolog.New(io.Discard), dbtest.Open(t), nil)
	srv := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		srv.Close()
		app.Users.Drain()
	})
	return &api{t: t, srv: srv, app: app}
}

func (a *api) do(method, path, token string, body any, out any) int {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	if err != nil {
		a.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.srv.Client().Do(req)
	if err != nil {
		a.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			a.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func registration(n int) dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:     fmt.Sprintf("Regular Test User Number %02d", n),
		Email:    fmt.Sprintf("user%d@example.com", n),
		Password: "Abc!2345",
		Address:  "456 User Avenue",
	}
}

func (a *api) register(n int) dto.AuthResponse {
	a.t.Helper()
	var resp dto.AuthResponse
	if code := a.do(http.MethodPost, "/auth/register", "", registration(n), &resp); code != http.StatusCreated {
		a.t.Fatalf("register %d: status %d", n, code)
	}
	return resp
}

func (a *api) admin() dto.AuthResponse {
	a.t.Helper()
	_, err := a.app.Users.EnsureAdmin(context.Background(), services.RegisterInput{
		Name: "System Administrator", Email: "admin@example.com", Password: "Admin123!", Address: "123 Admin Street",
	})
	if err != nil {
		a.t.Fatalf("EnsureAdmin: %v", err)
	}
	var resp dto.AuthResponse
	if code := a.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "admin@example.com", Password: "Admin123!"}, &resp); code != http.StatusOK {
		a.t.Fatalf("admin login: status %d", code)
	}
	return resp
}

func (a *api) createStore(token string, name string) dto.StoreResponse {
	a.t.Helper()
	var st dto.StoreResponse
	req := dto.CreateStoreRequest{Name: name, Email: name + "@shop.example.com", Address: "1 Market Street"}
	if code := a.do(http.MethodPost, "/stores", token, req, &st); code != http.StatusCreated {
		a.t.Fatalf("create store %s: status %d", name, code)
	}
	return st
}

func TestHealth(t *testing.T) {
	a := newAPI(t, "")
	var h dto.HealthResponse
	if code := a.do(http.MethodGet, "/health", "", nil, &h); code != http.StatusOK || h.Database != "up" {
		t.Fatalf("health = %d %+v", code, h)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	a := newAPI(t, "")
	reg := a.register(1)
	if reg.Token == "" || reg.User.Role != "user" {
		t.Fatalf("register response = %+v", reg)
	}

	var dup dto.ErrorResponse
	if code := a.do(http.MethodPost, "/auth/register", "", registration(1), &dup); code != http.StatusBadRequest {
		t.Fatalf("duplicate register: status %d, want 400", code)
	}

	var login dto.AuthResponse
	if code := a.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "USER1@example.com", Password: "Abc!2345"}, &login); code != http.StatusOK {
		t.Fatalf("login: status %d", code)
	}
	if login.Token == "" || login.User.ID != reg.User.ID {
		t.Fatalf("login response = %+v", login)
	}

	var me dto.UserResponse
	if code := a.do(http.MethodGet, "/auth/me", login.Token, nil, &me); code != http.StatusOK || me.Email != "user1@example.com" {
		t.Fatalf("me = %d %+v", code, me)
	}
}

func TestLoginFailuresCarryNoToken(t *testing.T) {
	a := newAPI(t, "")
	a.register(1)

	for name, req := range map[string]dto.LoginRequest{
		"wrong password": {Email: "user1@example.com", Password: "Wrong!123"},
		"unknown email":  {Email: "nobody@example.com", Password: "Abc!2345"},
	} {
		var body map[string]any
		code := a.do(http.MethodPost, "/auth/login", "", req, &body)
		if code != http.StatusUnauthorized {
			t.Errorf("%s: status %d, want 401", name, code)
		}
		if _, ok := body["token"]; ok {
			t.Errorf("%s: response carries a token", name)
		}
	}

	if code := a.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "user1@example.com"}, nil); code != http.StatusBadRequest {
		t.Errorf("missing password: status %d, want 400", code)
	}
}

func TestRegisterValidation(t *testing.T) {
	a := newAPI(t, "")
	req := registration(1)
	req.Password = "Abc12345"
	var resp dto.ErrorResponse
	if code := a.do(http.MethodPost, "/auth/register", "", req, &resp); code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", code)
	}
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "password" {
		t.Fatalf("fields = %+v", resp.Fields)
	}
}

func TestUserRatingsAccess(t *testing.T) {
	a := newAPI(t, "")
	alice := a.register(1)
	bob := a.register(2)
	admin := a.admin()
	path := fmt.Sprintf("/ratings/user/%d", alice.User.ID)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"other user", bob.Token, http.StatusForbidden},
		{"self", alice.Token, http.StatusOK},
		{"admin", admin.Token, http.StatusOK},
		{"garbage token", "not.a.token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := a.do(http.MethodGet, path, tt.token, nil, nil); code != tt.want {
				t.Fatalf("status %d, want %d", code, tt.want)
			}
		})
	}
}

func TestSubmitRatingAndAggregates(t *testing.T) {
	a := newAPI(t, "")
	alice := a.register(1)
	bob := a.register(2)
	shop := a.createStore(alice.Token, "corner")
	empty := a.createStore(alice.Token, "quiet")

	if code := a.do(http.MethodPost, "/ratings", "", dto.SubmitRatingRequest{StoreID: shop.ID, Rating: 3}, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous rating: status %d", code)
	}
	if code := a.do(http.MethodPost, "/ratings", alice.Token, dto.SubmitRatingRequest{StoreID: shop.ID, Rating: 6}, nil); code != http.StatusBadRequest {
		t.Fatalf("rating 6: status %d", code)
	}
	if code := a.do(http.MethodPost, "/ratings", alice.Token, dto.SubmitRatingRequest{StoreID: 999, Rating: 3}, nil); code != http.StatusNotFound {
		t.Fatalf("unknown store: status %d", code)
	}

	var first, again dto.RatingResponse
	a.do(http.MethodPost, "/ratings", alice.Token, dto.SubmitRatingRequest{StoreID: shop.ID, Rating: 1}, &first)
	if code := a.do(http.MethodPost, "/ratings", alice.Token, dto.SubmitRatingRequest{StoreID: shop.ID, Rating: 3}, &again); code != http.StatusOK {
		t.Fatalf("resubmit: status %d", code)
	}
	if again.ID != first.ID || again.Rating != 3 || again.UserID != alice.User.ID {
		t.Fatalf("resubmit = %+v, first = %+v", again, first)
	}
	a.do(http.MethodPost, "/ratings", bob.Token, dto.SubmitRatingRequest{StoreID: shop.ID, Rating: 5}, nil)

	var stores []dto.StoreResponse
	if code := a.do(http.MethodGet, "/stores", "", nil, &stores); code != http.StatusOK {
		t.Fatalf("list stores: status %d", code)
	}
	byID := map[uint]dto.StoreResponse{}
	for _, s := range stores {
		byID[s.ID] = s
	}
	got := byID[shop.ID]
	if got.AverageRating == nil || *got.AverageRating != 4.0 || got.RatingCount != 2 {
		t.Fatalf("shop aggregate = %v / %d", got.AverageRating, got.RatingCount)
	}
	if got.OwnerName == nil || *got.OwnerName != alice.User.Name {
		t.Fatalf("owner name = %v", got.OwnerName)
	}
	if e := byID[empty.ID]; e.AverageRating != nil || e.RatingCount != 0 {
		t.Fatalf("empty store aggregate = %v / %d", e.AverageRating, e.RatingCount)
	}

	var storeRatings []dto.RatingResponse
	a.do(http.MethodGet, fmt.Sprintf("/ratings/store/%d", shop.ID), "", nil, &storeRatings)
	if len(storeRatings) != 2 || storeRatings[0].UserEmail == "" {
		t.Fatalf("store ratings = %+v", storeRatings)
	}

	var agg dto.AggregateResponse
	a.do(http.MethodGet, fmt.Sprintf("/ratings/store/%d/average", empty.ID), "", nil, &agg)
	if agg.Average != nil || agg.Count != 0 {
		t.Fatalf("empty store average = %+v", agg)
	}
	a.do(http.MethodGet, fmt.Sprintf("/ratings/store/%d/average", shop.ID), "", nil, &agg)
	if agg.Average == nil || *agg.Average != 4.0 || agg.Count != 2 {
		t.Fatalf("shop average = %+v", agg)
	}

	var count dto.CountResponse
	a.do(http.MethodGet, "/ratings/count", "", nil, &count)
	if count.Count != 2 {
		t.Fatalf("count = %d, want 2", count.Count)
	}
}

func TestConcurrentSubmissionsKeepOneRow(t *testing.T) {
	a := newAPI(t, "")
	alice := a.register(1)
	shop := a.createStore(alice.Token, "busy")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			a.do(http.MethodPost, "/ratings", alice.Token, dto.SubmitRatingRequest{StoreID: shop.ID, Rating: v%5 + 1}, nil)
		}(i)
	}
	wg.Wait()

	var mine []dto.RatingResponse
	a.do(http.MethodGet, fmt.Sprintf("/ratings/user/%d", alice.User.ID), alice.Token, nil, &mine)
	if len(mine) != 1 {
		t.Fatalf("rows for pair = %d, want 1", len(mine))
	}
	if mine[0].Rating < 1 || mine[0].Rating > 5 {
		t.Fatalf("rating = %d", mine[0].Rating)
	}
}

func TestUpdateRatingOwnerOnly(t *testing.T) {
	a := newAPI(t, "")
	alice := a.register(1)
	bob := a.register(2)
	shop := a.createStore(alice.Token, "corner")

	var rt dto.RatingResponse
	a.do(http.MethodPost, "/ratings", alice.Token, dto.SubmitRatingRequest{StoreID: shop.ID, Rating: 2}, &rt)
	path := fmt.Sprintf("/ratings/%d", rt.ID)

	if code := a.do(http.MethodPut, path, bob.Token, dto.UpdateRatingRequest{Rating: 5}, nil); code != http.StatusForbidden {
		t.Fatalf("other user update: status %d, want 403", code)
	}
	var updated dto.RatingResponse
	if code := a.do(http.MethodPut, path, alice.Token, dto.UpdateRatingRequest{Rating: 4}, &updated); code != http.StatusOK {
		t.Fatalf("owner update: status %d", code)
	}
	if updated.ID != rt.ID || updated.Rating != 4 {
		t.Fatalf("updated = %+v", updated)
	}
	if code := a.do(http.MethodPut, "/ratings/999", alice.Token, dto.UpdateRatingRequest{Rating: 4}, nil); code != http.StatusNotFound {
		t.Fatalf("missing rating: status %d", code)
	}
}

func TestStoreOwnership(t *testing.T) {
	a := newAPI(t, "")
	alice := a.register(1)
	bob := a.register(2)
	admin := a.admin()

	// only admins may assign another owner
	req := dto.CreateStoreRequest{Name: "Gift", Email: "gift@example.com", Address: "2 Market Street", OwnerID: bob.User.ID}
	if code := a.do(http.MethodPost, "/stores", alice.Token, req, nil); code != http.StatusForbidden {
		t.Fatalf("non-admin owner assignment: status %d", code)
	}
	var st dto.StoreResponse
	if code := a.do(http.MethodPost, "/stores", admin.Token, req, &st); code != http.StatusCreated {
		t.Fatalf("admin owner assignment: status %d", code)
	}
	if st.OwnerID == nil || *st.OwnerID != bob.User.ID {
		t.Fatalf("owner = %v", st.OwnerID)
	}

	path := fmt.Sprintf("/stores/owner/%d", bob.User.ID)
	if code := a.do(http.MethodGet, path, alice.Token, nil, nil); code != http.StatusForbidden {
		t.Fatalf("other owner's stores: status %d", code)
	}
	var owned []dto.StoreResponse
	if code := a.do(http.MethodGet, path, bob.Token, nil, &owned); code != http.StatusOK || len(owned) != 1 {
		t.Fatalf("own stores = %d %+v", code, owned)
	}

	if code := a.do(http.MethodDelete, fmt.Sprintf("/stores/%d", st.ID), bob.Token, nil, nil); code != http.StatusForbidden {
		t.Fatalf("owner delete: status %d, want 403", code)
	}
	if code := a.do(http.MethodDelete, fmt.Sprintf("/stores/%d", st.ID), admin.Token, nil, nil); code != http.StatusNoContent {
		t.Fatalf("admin delete: status %d", code)
	}
}

func TestSearchStores(t *testing.T) {
	a := newAPI(t, "")
	alice := a.register(1)
	a.createStore(alice.Token, "bakery")
	a.createStore(alice.Token, "florist")

	for _, path := range []string{"/stores?q=bak", "/stores/search?q=bak"} {
		var got []dto.StoreResponse
		a.do(http.MethodGet, path, "", nil, &got)
		if len(got) != 1 || got[0].Name != "bakery" {
			t.Errorf("%s = %+v", path, got)
		}
	}
}

func TestAdminUserManagement(t *testing.T) {
	a := newAPI(t, "")
	alice := a.register(1)
	admin := a.admin()

	if code := a.do(http.MethodGet, "/users", alice.Token, nil, nil); code != http.StatusForbidden {
		t.Fatalf("non-admin list: status %d", code)
	}

	create := dto.CreateUserRequest{Name: "Store Owner Test Account", Email: "owner@example.com", Password: "Owner12!", Address: "9 Shop Lane", Role: "store_owner"}
	var owner dto.UserResponse
	if code := a.do(http.MethodPost, "/users", admin.Token, create, &owner); code != http.StatusCreated || owner.Role != "store_owner" {
		t.Fatalf("create user = %d %+v", code, owner)
	}
	if code := a.do(http.MethodPost, "/users", admin.Token, create, nil); code != http.StatusConflict {
		t.Fatalf("duplicate create: status %d, want 409", code)
	}

	var owners []dto.UserResponse
	a.do(http.MethodGet, "/users?role=store_owner", admin.Token, nil, &owners)
	if len(owners) != 1 || owners[0].ID != owner.ID {
		t.Fatalf("role filter = %+v", owners)
	}

	var stats dto.StatsResponse
	if code := a.do(http.MethodGet, "/admin/stats", admin.Token, nil, &stats); code != http.StatusOK {
		t.Fatalf("stats: status %d", code)
	}
	if stats.Users != 3 || stats.Stores != 0 || stats.Ratings != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	if code := a.do(http.MethodDelete, fmt.Sprintf("/users/%d", owner.ID), admin.Token, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete user: status %d", code)
	}
	if code := a.do(http.MethodGet, fmt.Sprintf("/users/%d", owner.ID), admin.Token, nil, nil); code != http.StatusNotFound {
		t.Fatalf("deleted user: status %d", code)
	}
}

func TestChangePassword(t *testing.T) {
	a := newAPI(t, "")
	alice := a.register(1)
	bob := a.register(2)
	path := fmt.Sprintf("/users/%d/password", alice.User.ID)

	if code := a.do(http.MethodPut, path, bob.Token, dto.ChangePasswordRequest{Password: "New!Pass1"}, nil); code != http.StatusForbidden {
		t.Fatalf("other user: status %d", code)
	}
	if code := a.do(http.MethodPut, path, alice.Token, dto.ChangePasswordRequest{Password: "weak"}, nil); code != http.StatusBadRequest {
		t.Fatalf("weak password: status %d", code)
	}
	if code := a.do(http.MethodPut, path, alice.Token, dto.ChangePasswordRequest{Password: "New!Pass1"}, nil); code != http.StatusNoContent {
		t.Fatalf("change: status %d", code)
	}
	if code := a.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "user1@example.com", Password: "New!Pass1"}, nil); code != http.StatusOK {
		t.Fatalf("login with new password: status %d", code)
	}
}

func TestBasePath(t *testing.T) {
	a := newAPI(t, "/api")
	if code := a.do(http.MethodGet, "/api/health", "", nil, nil); code != http.StatusOK {
		t.Fatalf("prefixed health: status %d", code)
	}
	if code := a.do(http.MethodGet, "/health", "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unprefixed health: status %d", code)
	}
}
