package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("integration-test-secret")
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, token string, payload any) map[string]any {
	t.Helper()
	body, _ := json.Marshal(payload)
	resp := performRequest(r, http.MethodPost, path, bytes.NewBuffer(body), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("POST %s failed status=%d body=%s", path, resp.Code, resp.Body.String())
	}
	var out map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	return out
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	username := fmt.Sprintf("user%d", time.Now().UnixNano())

	// 1. Register + login
	regBody, _ := json.Marshal(map[string]string{"username": username, "password": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	login := postJSON(t, r, "/login", "", map[string]string{"username": username, "password": "pass123"})
	token, _ := login["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", login)
	}

	// 2. Create card
	card := postJSON(t, r, "/cards", token, map[string]any{"name": "Visa Gold", "due_day": 15})
	cardID := card["id"]

	// 3. Create debt: 1200.00 over 4 installments starting January
	_ = postJSON(t, r, "/debts", token, map[string]any{
		"description":       "new fridge",
		"total_amount":      "1200.00",
		"installment_count": 4,
		"start_date":        "2025-01-10",
		"card_id":           cardID,
	})

	// 4. List debts, check the schedule
	resp = performRequest(r, http.MethodGet, "/debts", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list debts failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var debts []struct {
		ID           uint `json:"ID"`
		Installments []struct {
			ID      uint   `json:"ID"`
			Number  int    `json:"Number"`
			DueDate string `json:"DueDate"`
			Amount  string `json:"Amount"`
			Paid    bool   `json:"Paid"`
		} `json:"Installments"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &debts); err != nil {
		t.Fatalf("decode debts: %v", err)
	}
	if len(debts) != 1 || len(debts[0].Installments) != 4 {
		t.Fatalf("expected 1 debt with 4 installments got %s", resp.Body.String())
	}
	for i, inst := range debts[0].Installments {
		if inst.Number != i+1 {
			t.Fatalf("installment numbers not contiguous: %+v", debts[0].Installments)
		}
	}
	if got := debts[0].Installments[0].DueDate[:10]; got != "2025-01-15" {
		t.Fatalf("expected first due 2025-01-15 got %s", got)
	}

	// 5. Pay installment #3, then edit the debt description only
	third := debts[0].Installments[2]
	payBody, _ := json.Marshal(map[string]bool{"paid": true})
	resp = performRequest(r, http.MethodPatch, fmt.Sprintf("/installments/%d/paid", third.ID), bytes.NewBuffer(payBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("pay installment failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	editBody, _ := json.Marshal(map[string]any{
		"description":       "new fridge (kitchen)",
		"total_amount":      "1200.00",
		"installment_count": 4,
		"start_date":        "2025-01-10",
		"card_id":           cardID,
	})
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/debts/%d", debts[0].ID), bytes.NewBuffer(editBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("update debt failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/debts/%d", debts[0].ID), nil, token, "")
	var after struct {
		Installments []struct {
			Number int  `json:"Number"`
			Paid   bool `json:"Paid"`
		} `json:"Installments"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &after)
	if len(after.Installments) != 4 {
		t.Fatalf("expected 4 installments after edit got %s", resp.Body.String())
	}
	for _, inst := range after.Installments {
		if (inst.Number == 3) != inst.Paid {
			t.Fatalf("paid state not preserved across edit: %+v", after.Installments)
		}
	}

	// 5b. Deleting a category detaches it from debts instead of stranding them
	cat := postJSON(t, r, "/categories", token, map[string]any{"name": "appliances"})
	editBody, _ = json.Marshal(map[string]any{
		"description":       "new fridge (kitchen)",
		"total_amount":      "1200.00",
		"installment_count": 4,
		"start_date":        "2025-01-10",
		"card_id":           cardID,
		"category_id":       cat["id"],
	})
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/debts/%d", debts[0].ID), bytes.NewBuffer(editBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("attach category failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/categories/%v", cat["id"]), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("delete category failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/debts/%d", debts[0].ID), nil, token, "")
	var detached struct {
		CategoryID *uint `json:"CategoryID"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &detached)
	if detached.CategoryID != nil {
		t.Fatalf("debt still references deleted category %d", *detached.CategoryID)
	}

	// 6. Recurring income expands on read
	_ = postJSON(t, r, "/incomes", token, map[string]any{
		"description": "salary",
		"amount":      "3000.00",
		"recurring":   true,
		"receive_day": 5,
		"start_date":  time.Now().UTC().Format("2006-01-02"),
	})
	resp = performRequest(r, http.MethodGet, "/incomes", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list incomes failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var incomes []struct {
		Entries []struct {
			Month string `json:"Month"`
		} `json:"Entries"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &incomes)
	if len(incomes) != 1 || len(incomes[0].Entries) != 5 {
		t.Fatalf("expected 5 materialized months (current + 4 look-ahead) got %s", resp.Body.String())
	}

	// 7. One-off income materializes its single entry at creation
	_ = postJSON(t, r, "/incomes", token, map[string]any{
		"description": "year-end bonus",
		"amount":      "750.00",
		"recurring":   false,
		"start_date":  time.Now().UTC().Format("2006-01-02"),
	})
	resp = performRequest(r, http.MethodGet, "/incomes", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list incomes failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	incomes = nil
	_ = json.Unmarshal(resp.Body.Bytes(), &incomes)
	if len(incomes) != 2 {
		t.Fatalf("expected 2 incomes got %s", resp.Body.String())
	}
	// newest first (id desc): the one-off carries exactly one entry
	if len(incomes[0].Entries) != 1 {
		t.Fatalf("expected 1 entry for one-off income got %d", len(incomes[0].Entries))
	}

	// 8. Cash flow: 6 past + current + 6 future, gapless
	resp = performRequest(r, http.MethodGet, "/cashflow?past=6&future=6", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("cashflow failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var rows []struct {
		Month    string `json:"month"`
		IsFuture bool   `json:"is_future"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &rows)
	if len(rows) != 13 {
		t.Fatalf("expected 13 cashflow rows got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Month <= rows[i-1].Month {
			t.Fatalf("cashflow months not ascending: %s after %s", rows[i].Month, rows[i-1].Month)
		}
	}

	// 9. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/debts", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list debts got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
