package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vietnoy/pantry/internal/auth"
	"github.com/vietnoy/pantry/internal/database"
	"github.com/vietnoy/pantry/internal/mailer"
	"github.com/vietnoy/pantry/internal/storage"
)

type nullSender struct{}

func (nullSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	return nil
}

type testServer struct {
	db      *sql.DB
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	mail := mailer.New(nullSender{}, logger)
	t.Cleanup(mail.Close)
	uploader := storage.NewUploader(storage.Config{}, logger)

	srv := New(db, tokens, mail, uploader, logger)
	return &testServer{db: db, handler: srv.Router()}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// latestCode reads the most recent verification code straight from the
// database since no email leaves the test.
func (ts *testServer) latestCode(t *testing.T, email, purpose string) string {
	t.Helper()
	var code string
	err := ts.db.QueryRow(
		`SELECT code FROM verification_codes WHERE email = ? AND purpose = ? AND used = 0 ORDER BY id DESC LIMIT 1`,
		email, purpose,
	).Scan(&code)
	if err != nil {
		t.Fatalf("read verification code: %v", err)
	}
	return code
}

// register creates a verified account and returns an access token.
func (ts *testServer) register(t *testing.T, email, password string) string {
	t.Helper()
	rec := ts.do(t, "POST", "/api/v1/auth/register", "", map[string]any{
		"email": email, "password": password, "name": "Test User",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: got status %d: %s", email, rec.Code, rec.Body.String())
	}
	code := ts.latestCode(t, email, "register")
	rec = ts.do(t, "POST", "/api/v1/auth/verify", "", map[string]any{"email": email, "code": code})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify email: got status %d: %s", rec.Code, rec.Body.String())
	}
	return ts.login(t, email, password)
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := ts.do(t, "POST", "/api/v1/auth/login", "", map[string]any{"email": email, "password": password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got status %d: %s", rec.Code, rec.Body.String())
	}
	tokens := decodeBody[map[string]string](t, rec)
	return tokens["access_token"]
}

func (ts *testServer) createGroup(t *testing.T, token, name string) {
	t.Helper()
	rec := ts.do(t, "POST", "/api/v1/groups", token, map[string]any{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group: got status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterVerifyLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, "POST", "/api/v1/auth/register", "", map[string]any{
		"email": "alice@example.com", "password": "correct-horse", "name": "Alice",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: got status %d: %s", rec.Code, rec.Body.String())
	}

	// Duplicate email is rejected.
	rec = ts.do(t, "POST", "/api/v1/auth/register", "", map[string]any{
		"email": "alice@example.com", "password": "correct-horse", "name": "Alice",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: got status %d, want 409", rec.Code)
	}

	// Wrong code does not verify.
	rec = ts.do(t, "POST", "/api/v1/auth/verify", "", map[string]any{
		"email": "alice@example.com", "code": "000000",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("wrong code: got status %d, want 400", rec.Code)
	}

	code := ts.latestCode(t, "alice@example.com", "register")
	rec = ts.do(t, "POST", "/api/v1/auth/verify", "", map[string]any{
		"email": "alice@example.com", "code": code,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: got status %d: %s", rec.Code, rec.Body.String())
	}

	token := ts.login(t, "alice@example.com", "correct-horse")
	rec = ts.do(t, "GET", "/api/v1/users/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: got status %d: %s", rec.Code, rec.Body.String())
	}
	me := decodeBody[map[string]any](t, rec)
	if me["email"] != "alice@example.com" {
		t.Errorf("me email = %v, want alice@example.com", me["email"])
	}

	// Wrong password is rejected.
	rec = ts.do(t, "POST", "/api/v1/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password: got status %d, want 401", rec.Code)
	}
}

func TestRefreshToken(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "bob@example.com", "hunter2hunter2")

	rec := ts.do(t, "POST", "/api/v1/auth/login", "", map[string]any{
		"email": "bob@example.com", "password": "hunter2hunter2",
	})
	tokens := decodeBody[map[string]string](t, rec)

	rec = ts.do(t, "POST", "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": tokens["refresh_token"],
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: got status %d: %s", rec.Code, rec.Body.String())
	}
	fresh := decodeBody[map[string]string](t, rec)
	if fresh["access_token"] == "" {
		t.Error("refresh returned empty access token")
	}

	// An access token is not a refresh token.
	rec = ts.do(t, "POST", "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": tokens["access_token"],
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("refresh with access token: got status %d, want 401", rec.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/users/me", "/api/v1/foods", "/api/v1/groups"} {
		rec := ts.do(t, "GET", path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: got status %d, want 401", path, rec.Code)
		}
	}
}

func TestGroupScopedAccess(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice@example.com", "correct-horse")
	bob := ts.register(t, "bob@example.com", "hunter2hunter2")

	// Group-scoped routes need an active group first.
	rec := ts.do(t, "POST", "/api/v1/foods", alice, map[string]any{"name": "Milk"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("food without group: got status %d, want 400", rec.Code)
	}

	ts.createGroup(t, alice, "Alice Home")
	ts.createGroup(t, bob, "Bob Home")

	rec = ts.do(t, "POST", "/api/v1/foods", alice, map[string]any{"name": "Milk"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create food: got status %d: %s", rec.Code, rec.Body.String())
	}
	food := decodeBody[map[string]any](t, rec)
	foodID := int64(food["id"].(float64))

	// Another group's food is off limits, and distinguishable from missing.
	rec = ts.do(t, "GET", fmt.Sprintf("/api/v1/foods/%d", foodID), bob, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-group food read: got status %d, want 403", rec.Code)
	}

	rec = ts.do(t, "GET", "/api/v1/foods/99999", alice, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing food read: got status %d, want 404", rec.Code)
	}

	rec = ts.do(t, "GET", fmt.Sprintf("/api/v1/foods/%d", foodID), alice, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("own food read: got status %d", rec.Code)
	}
}

func TestShoppingListTotalOverAPI(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "carol@example.com", "correct-horse")
	ts.createGroup(t, token, "Carol Home")

	rec := ts.do(t, "POST", "/api/v1/foods", token, map[string]any{"name": "Eggs"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create food: got status %d: %s", rec.Code, rec.Body.String())
	}
	food := decodeBody[map[string]any](t, rec)
	foodID := int64(food["id"].(float64))

	rec = ts.do(t, "POST", "/api/v1/shopping-lists", token, map[string]any{"name": "Weekly"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create list: got status %d: %s", rec.Code, rec.Body.String())
	}
	list := decodeBody[map[string]any](t, rec)
	listID := int64(list["id"].(float64))

	rec = ts.do(t, "POST", fmt.Sprintf("/api/v1/shopping-lists/%d/tasks", listID), token, []map[string]any{
		{"food_id": foodID, "quantity": "2", "estimated_cost": "5.00"},
		{"food_id": foodID, "quantity": "1", "estimated_cost": "3.00"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tasks: got status %d: %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, "GET", fmt.Sprintf("/api/v1/shopping-lists/%d", listID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get list: got status %d: %s", rec.Code, rec.Body.String())
	}
	var detail struct {
		TotalCost decimal.Decimal  `json:"total_cost"`
		Tasks     []map[string]any `json:"tasks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&detail); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(detail.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(detail.Tasks))
	}
	if want := decimal.RequireFromString("8.00"); !detail.TotalCost.Equal(want) {
		t.Errorf("total_cost = %s, want %s", detail.TotalCost, want)
	}
}

func TestGroupJoinByInviteCode(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.register(t, "owner@example.com", "correct-horse")
	joiner := ts.register(t, "joiner@example.com", "hunter2hunter2")
	ts.createGroup(t, owner, "Shared Home")

	rec := ts.do(t, "GET", "/api/v1/groups/current", owner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("current group: got status %d: %s", rec.Code, rec.Body.String())
	}
	current := decodeBody[map[string]any](t, rec)
	invite, _ := current["invite_code"].(string)
	if invite == "" {
		t.Fatal("group has no invite code")
	}

	rec = ts.do(t, "POST", "/api/v1/groups/join", joiner, map[string]any{"invite_code": invite})
	if rec.Code != http.StatusOK {
		t.Fatalf("join: got status %d: %s", rec.Code, rec.Body.String())
	}

	// Joining the same group twice conflicts.
	rec = ts.do(t, "POST", "/api/v1/groups/join", joiner, map[string]any{"invite_code": invite})
	if rec.Code != http.StatusConflict {
		t.Errorf("rejoin: got status %d, want 409", rec.Code)
	}

	rec = ts.do(t, "GET", "/api/v1/groups/members", owner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("members: got status %d: %s", rec.Code, rec.Body.String())
	}
	members := decodeBody[[]map[string]any](t, rec)
	if len(members) != 2 {
		t.Errorf("got %d members, want 2", len(members))
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, "GET", "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: got status %d", rec.Code)
	}
}
