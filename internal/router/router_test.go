package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/homebase-finder/internal/config"
	"github.com/iliyamo/homebase-finder/internal/geo"
	"github.com/iliyamo/homebase-finder/internal/handler"
	"github.com/iliyamo/homebase-finder/internal/kv"
	"github.com/iliyamo/homebase-finder/internal/middleware"
	"github.com/iliyamo/homebase-finder/internal/repository"
	"github.com/iliyamo/homebase-finder/internal/service"
)

const secret = "router-test-secret"

// newApp wires every route group the way the server command does, on a
// memory store and a miniredis-backed geo cache.
func newApp(t *testing.T) *echo.Echo {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	data, err := geo.Load("../geo/testdata")
	require.NoError(t, err)

	log := zap.NewNop()
	store := kv.NewMemoryStore()
	listings := repository.NewBoardinghouseRepo(store)
	users := repository.NewUserRepo(store)
	profiles := repository.NewProfileRepo(store)
	tokens := repository.NewTokenRepo(store)
	activity := repository.NewActivityRepo(store)
	recorder := service.NewDirectRecorder(activity, log)

	cfg := config.Config{JWTSecret: secret, AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost}
	cacheCfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 20,
	}

	e := echo.New()
	RegisterRoutes(e, store)
	RegisterAuth(e,
		handler.NewAuthHandler(cfg, users, profiles, tokens, log),
		&handler.AccountHandler{
			Users:    users,
			Profiles: profiles,
			Accounts: service.NewAccountService(listings, users, profiles, tokens, activity, log),
			Recorder: recorder,
			Log:      log,
		},
		users,
		secret,
		middleware.NewTokenBucket(config.RateLimitConfig{}, nil, log),
	)
	RegisterPublic(e, handler.NewPublicHandler(service.NewBrowseService(listings), log))
	RegisterGeo(e, handler.NewGeoHandler(data), middleware.NewRedisCache(cacheCfg, rdb))
	RegisterOwner(e, handler.NewOwnerHandler(listings, service.NewDashboardService(listings, activity), geo.NewResolver(data), recorder, log), users, secret)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type session struct {
	User struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Role   string `json:"role"`
		Avatar string `json:"avatar"`
	} `json:"user"`
	Access  struct{ Token string } `json:"access"`
	Refresh struct{ Token string } `json:"refresh"`
}

func register(t *testing.T, e *echo.Echo, name, email, role string) session {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"fullName": name, "email": email, "password": "secret1", "confirmPassword": "secret1", "role": role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[session](t, rec)
}

type bhResp struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Rooms   []struct {
		ID        string `json:"id"`
		RoomName  string `json:"roomName"`
		Gender    string `json:"gender"`
		TotalBeds int    `json:"totalBeds"`
	} `json:"rooms"`
	StructuredAddress struct {
		City     string `json:"city"`
		Barangay string `json:"barangay"`
	} `json:"structuredAddress"`
}

func TestHealth(t *testing.T) {
	e := newApp(t)
	rec := do(t, e, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAuthFlow(t *testing.T) {
	e := newApp(t)
	s := register(t, e, "Ana Cruz", " Ana@Example.com ", "owner")
	assert.Equal(t, "ana@example.com", s.User.Email)
	assert.Equal(t, "owner", s.User.Role)
	assert.NotEmpty(t, s.User.Avatar)

	rec := do(t, e, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"fullName": "Other", "email": "ana@example.com", "password": "secret1", "role": "tenant",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, e, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"fullName": "Short", "email": "short@example.com", "password": "abc", "role": "tenant",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	long := strings.Repeat("p", 80)
	rec = do(t, e, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"fullName": "Long", "email": "long@example.com", "password": long, "confirmPassword": long, "role": "tenant",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at most 72 bytes")

	rec = do(t, e, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ana@example.com", "password": "secret1", "role": "tenant"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = do(t, e, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ana@example.com", "password": "wrong!"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, e, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, e, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ANA@example.com", "password": "secret1", "role": "owner"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/v1/me", s.Access.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Ana Cruz"`)
	assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodGet, "/v1/me", "", nil).Code)

	// rotation invalidates the old refresh token
	rec = do(t, e, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": s.Refresh.Token})
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := decode[session](t, rec)
	rec = do(t, e, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": s.Refresh.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, e, http.MethodPost, "/v1/auth/refresh-access", "", map[string]string{"refresh_token": rotated.Refresh.Token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access"`)

	rec = do(t, e, http.MethodPost, "/v1/auth/logout", "", map[string]string{"refresh_token": rotated.Refresh.Token})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, e, http.MethodPost, "/v1/auth/refresh-access", "", map[string]string{"refresh_token": rotated.Refresh.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodPost, "/v1/auth/logout", "", nil).Code)
}

func TestLogoutWithBearerRevokesAllSessions(t *testing.T) {
	e := newApp(t)
	s := register(t, e, "Ben", "ben@example.com", "tenant")
	rec := do(t, e, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ben@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[session](t, rec)

	assert.Equal(t, http.StatusNoContent, do(t, e, http.MethodPost, "/v1/auth/logout", s.Access.Token, nil).Code)
	for _, raw := range []string{s.Refresh.Token, second.Refresh.Token} {
		rec := do(t, e, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": raw})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	e := newApp(t)
	s := register(t, e, "Cora", "cora@example.com", "tenant")

	rec := do(t, e, http.MethodPatch, "/v1/me", s.Access.Token, map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPatch, "/v1/me", s.Access.Token, map[string]string{"name": "Cora Reyes", "avatar": "https://img.example/c.png"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"avatar":"https://img.example/c.png"`)

	rec = do(t, e, http.MethodPatch, "/v1/me", s.Access.Token, map[string]string{"avatar": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dicebear")
	assert.Contains(t, rec.Body.String(), `"email":"cora@example.com"`)
}

func TestOwnerListingLifecycle(t *testing.T) {
	e := newApp(t)
	owner := register(t, e, "Ana", "ana@example.com", "owner")
	other := register(t, e, "Olga", "olga@example.com", "owner")
	tenant := register(t, e, "Tess", "tess@example.com", "tenant")

	body := map[string]any{
		"name":    "Casa Verde",
		"contact": "0917",
		"structuredAddress": map[string]string{
			"region_code": "07", "province_code": "0722", "city_code": "072217", "barangay_code": "072217001",
			"street": "12 Osmeña Blvd",
		},
		"rooms": []map[string]any{{"roomName": "R1", "totalBeds": 4, "availableBeds": 2, "rentPrice": 2500, "gender": "female"}},
	}
	assert.Equal(t, http.StatusForbidden, do(t, e, http.MethodPost, "/v1/boardinghouses", tenant.Access.Token, body).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodPost, "/v1/boardinghouses", owner.Access.Token, map[string]string{"name": " "}).Code)

	rec := do(t, e, http.MethodPost, "/v1/boardinghouses", owner.Access.Token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bh := decode[bhResp](t, rec)
	assert.Equal(t, "12 Osmeña Blvd, Adlaon, Cebu City, Cebu, Region VII (Central Visayas)", bh.Address)
	assert.Equal(t, "Adlaon", bh.StructuredAddress.Barangay)
	require.Len(t, bh.Rooms, 1)
	assert.Equal(t, "Female", bh.Rooms[0].Gender)

	bad := map[string]any{"name": "X", "structuredAddress": map[string]string{"region_code": "01", "province_code": "0722"}}
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodPost, "/v1/boardinghouses", owner.Access.Token, bad).Code)

	// ownership
	rec = do(t, e, http.MethodPatch, "/v1/boardinghouses/"+bh.ID, other.Access.Token, map[string]string{"name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodPatch, "/v1/boardinghouses/nope", owner.Access.Token, map[string]string{"name": "x"}).Code)

	rec = do(t, e, http.MethodPatch, "/v1/boardinghouses/"+bh.ID, owner.Access.Token, map[string]string{"description": "near campus"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Casa Verde"`)
	assert.Contains(t, rec.Body.String(), `"description":"near campus"`)

	// rooms
	rec = do(t, e, http.MethodPost, "/v1/boardinghouses/"+bh.ID+"/rooms", owner.Access.Token, map[string]any{"roomName": "R2", "totalBeds": 2, "availableBeds": 3, "rentPrice": 1800})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, e, http.MethodPost, "/v1/boardinghouses/"+bh.ID+"/rooms", owner.Access.Token, map[string]any{"roomName": "R2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, e, http.MethodPost, "/v1/boardinghouses/"+bh.ID+"/rooms", owner.Access.Token, map[string]any{"roomName": "R2", "totalBeds": 2, "availableBeds": 0, "rentPrice": 1800, "withCR": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var room struct{ ID string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &room))

	rec = do(t, e, http.MethodPut, "/v1/boardinghouses/"+bh.ID+"/rooms/"+room.ID, owner.Access.Token, map[string]any{"availableBeds": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"availableBeds":1`)
	assert.Contains(t, rec.Body.String(), `"roomName":"R2"`)
	rec = do(t, e, http.MethodPut, "/v1/boardinghouses/"+bh.ID+"/rooms/"+room.ID, other.Access.Token, map[string]any{"availableBeds": 0})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = do(t, e, http.MethodPatch, "/v1/boardinghouses/"+bh.ID+"/rooms/missing", owner.Access.Token, map[string]any{"availableBeds": 0})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// dashboard
	rec = do(t, e, http.MethodGet, "/v1/owner/dashboard", owner.Access.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[service.Dashboard](t, rec)
	assert.Equal(t, 1, dash.Summary.TotalBoardinghouses)
	assert.Equal(t, 2, dash.Summary.TotalRooms)
	assert.Equal(t, 50, dash.Summary.RoomsWithCRPercent)
	var feed []string
	for _, a := range dash.Activity {
		feed = append(feed, a.Message)
	}
	assert.Len(t, feed, 4)
	assert.Contains(t, feed, "Boardinghouse added: Casa Verde")
	assert.Contains(t, feed, "Room added: R2 in Casa Verde")
	assert.Contains(t, feed, "Room updated: R2 in Casa Verde")
	assert.Equal(t, http.StatusForbidden, do(t, e, http.MethodGet, "/v1/owner/dashboard", tenant.Access.Token, nil).Code)

	rec = do(t, e, http.MethodGet, "/v1/owner/boardinghouses", other.Access.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	// deletes
	assert.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, "/v1/boardinghouses/"+bh.ID+"/rooms/"+room.ID, owner.Access.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, e, http.MethodDelete, "/v1/boardinghouses/"+bh.ID, other.Access.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, "/v1/boardinghouses/"+bh.ID, owner.Access.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodGet, "/v1/boardinghouses/"+bh.ID, "", nil).Code)
}

func TestPublicBrowseAndETag(t *testing.T) {
	e := newApp(t)
	owner := register(t, e, "Ana", "ana@example.com", "owner")
	for _, b := range []map[string]any{
		{"name": "Casa Verde", "address": "Lahug, Cebu City", "rooms": []map[string]any{{"roomName": "A", "totalBeds": 2, "availableBeds": 1, "rentPrice": 2000}}},
		{"name": "Sunrise Dorm", "address": "Batac", "rooms": []map[string]any{{"roomName": "B", "totalBeds": 2, "availableBeds": 0, "rentPrice": 1500}}},
	} {
		require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/v1/boardinghouses", owner.Access.Token, b).Code)
	}

	rec := do(t, e, http.MethodGet, "/v1/boardinghouses?available=has", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct{ Items []bhResp }](t, rec)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Casa Verde", page.Items[0].Name)
	tag := rec.Header().Get("ETag")
	require.NotEmpty(t, tag)

	req := httptest.NewRequest(http.MethodGet, "/v1/boardinghouses?available=has", nil)
	req.Header.Set("If-None-Match", tag)
	notMod := httptest.NewRecorder()
	e.ServeHTTP(notMod, req)
	assert.Equal(t, http.StatusNotModified, notMod.Code)

	rec = do(t, e, http.MethodGet, "/v1/boardinghouses?location=batac", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, tag, rec.Header().Get("ETag"))
	assert.Contains(t, rec.Body.String(), "Sunrise Dorm")
	assert.NotContains(t, rec.Body.String(), "Casa Verde")

	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodGet, "/v1/boardinghouses?available=maybe", "", nil).Code)

	rec = do(t, e, http.MethodGet, "/v1/locations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":["Batac","Cebu City"]}`, rec.Body.String())

	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/v1/boardinghouses", owner.Access.Token, map[string]any{"name": "Third"}).Code)
	req = httptest.NewRequest(http.MethodGet, "/v1/boardinghouses?available=has", nil)
	req.Header.Set("If-None-Match", tag)
	changed := httptest.NewRecorder()
	e.ServeHTTP(changed, req)
	assert.Equal(t, http.StatusOK, changed.Code)
}

func TestGeoRoutes(t *testing.T) {
	e := newApp(t)
	rec := do(t, e, http.MethodGet, "/v1/geo/regions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Central Visayas")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	rec = do(t, e, http.MethodGet, "/v1/geo/regions", "", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = do(t, e, http.MethodGet, "/v1/geo/provinces/0722/cities", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mandaue City")
	rec = do(t, e, http.MethodGet, "/v1/geo/cities/072230/barangays", "", nil)
	assert.Contains(t, rec.Body.String(), "Alang-Alang")

	rec = do(t, e, http.MethodPost, "/v1/geo/resolve", "", map[string]string{"region_code": "07", "province_code": "0722", "zip": "6000"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"address":"Cebu, Region VII (Central Visayas)"`)
	rec = do(t, e, http.MethodPost, "/v1/geo/resolve", "", map[string]string{"region_code": "99"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAccountRemovesListings(t *testing.T) {
	e := newApp(t)
	owner := register(t, e, "Ana", "ana@example.com", "owner")
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/v1/boardinghouses", owner.Access.Token, map[string]any{"name": "Casa"}).Code)

	assert.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, "/v1/me", owner.Access.Token, nil).Code)

	rec := do(t, e, http.MethodGet, "/v1/boardinghouses", "", nil)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
	rec = do(t, e, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ana@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, e, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": owner.Refresh.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeletedAccountTokenIsRejected(t *testing.T) {
	e := newApp(t)
	owner := register(t, e, "Ana", "ana@example.com", "owner")
	require.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, "/v1/me", owner.Access.Token, nil).Code)

	// the access token is still within its TTL
	rec := do(t, e, http.MethodPost, "/v1/boardinghouses", owner.Access.Token, map[string]any{"name": "Ghost"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "account not found")
	assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodGet, "/v1/me", owner.Access.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodGet, "/v1/owner/dashboard", owner.Access.Token, nil).Code)

	again := register(t, e, "Ana Again", "ana@example.com", "owner")
	rec = do(t, e, http.MethodGet, "/v1/owner/boardinghouses", again.Access.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestRoomEditsAfterBoardinghouseDelete(t *testing.T) {
	e := newApp(t)
	owner := register(t, e, "Ana", "ana@example.com", "owner")
	rec := do(t, e, http.MethodPost, "/v1/boardinghouses", owner.Access.Token, map[string]any{"name": "Casa"})
	require.Equal(t, http.StatusCreated, rec.Code)
	bh := decode[bhResp](t, rec)
	rec = do(t, e, http.MethodPost, "/v1/boardinghouses/"+bh.ID+"/rooms", owner.Access.Token, map[string]any{"roomName": "R1", "totalBeds": 2, "availableBeds": 1, "rentPrice": 1500})
	require.Equal(t, http.StatusCreated, rec.Code)
	var room struct{ ID string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &room))

	require.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, "/v1/boardinghouses/"+bh.ID, owner.Access.Token, nil).Code)

	path := "/v1/boardinghouses/" + bh.ID + "/rooms/" + room.ID
	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodPatch, path, owner.Access.Token, map[string]any{"availableBeds": 0}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodDelete, path, owner.Access.Token, nil).Code)
}

func TestUnknownPathIsNotFound(t *testing.T) {
	e := newApp(t)
	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodGet, "/v1/nope", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodGet, "/v1/owner/nope", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodGet, "/v1/owner/dashboard", "", nil).Code)
}
