package handler

import (
	"net/http"
	"testing"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/repository"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/service"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/testutil"
	"go.uber.org/zap"
)

func setupHandlerTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, service.Options{}, zap.NewNop())
	handlers := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")

	api.GET("/claims", handlers.Claim.List)
	api.POST("/claims", handlers.Claim.Create)
	api.GET("/claims/by-number/:number", handlers.Claim.GetByNumber)
	api.GET("/claims/:id", handlers.Claim.Get)
	api.PATCH("/claims/:id", handlers.Claim.Update)
	api.POST("/claims/:id/transition", handlers.Claim.Transition)
	api.POST("/claims/:id/notes", handlers.Claim.AddNote)
	api.GET("/claims/:id/timeline", handlers.Claim.Timeline)

	api.POST("/claims/:id/attachments", handlers.Ledger.UploadAttachment)
	api.GET("/claims/:id/attachments", handlers.Ledger.ListAttachments)
	api.DELETE("/claims/:id/attachments/:attachmentId", handlers.Ledger.RemoveAttachment)
	api.POST("/claims/:id/parts", handlers.Ledger.AddPart)
	api.GET("/claims/:id/parts", handlers.Ledger.ListParts)
	api.PATCH("/claims/:id/parts/:partId/status", handlers.Ledger.UpdatePartStatus)

	api.GET("/suppliers", handlers.Registry.ListSuppliers)
	api.POST("/suppliers", handlers.Registry.CreateSupplier)
	api.GET("/suppliers/:id", handlers.Registry.GetSupplier)
	api.PATCH("/suppliers/:id", handlers.Registry.UpdateSupplier)
	api.DELETE("/suppliers/:id", handlers.Registry.DeleteSupplier)
	api.GET("/suppliers/:id/products", handlers.Registry.ListSupplierProducts)
	api.POST("/products", handlers.Registry.CreateProduct)
	api.GET("/products/:id", handlers.Registry.GetProduct)
	api.GET("/customers", handlers.Registry.ListCustomers)
	api.POST("/customers", handlers.Registry.CreateCustomer)
	api.GET("/customers/:id", handlers.Registry.GetCustomer)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func createTestClaim(t *testing.T, env *testutil.TestEnv, token string) string {
	t.Helper()
	testutil.SeedSupplier(t, env.DB, "sup-h001", "HOB", "Hobart GmbH")

	body := map[string]interface{}{
		"supplier_id":         "sup-h001",
		"product_name":        "Flight-type dishwasher",
		"problem_description": "Conveyor belt stalls under load",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/claims", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})["id"].(string)
}

func TestClaimRequiresAuth(t *testing.T) {
	env := setupHandlerTest(t)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestClaimCreateAndGet(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	claimID := createTestClaim(t, env, token)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims/"+claimID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != entity.ClaimStatusNew {
		t.Fatalf("expected status new, got %v", data["status"])
	}
	if data["supplier_name"] != "Hobart GmbH" {
		t.Fatalf("expected supplier snapshot, got %v", data["supplier_name"])
	}
	if data["created_by"] != "test-user-001" {
		t.Fatalf("expected creator from token, got %v", data["created_by"])
	}
}

func TestClaimCreateMissingSupplierHTTP(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{"supplier_id": "nope"}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/claims", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestClaimTransitionFlow(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	claimID := createTestClaim(t, env, token)

	// new -> closed is not reachable
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/claims/"+claimID+"/transition",
		map[string]interface{}{"target": entity.ClaimStatusClosed}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for new -> closed, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != CodeInvalidTransition {
		t.Fatalf("expected code %d, got %v", CodeInvalidTransition, resp["code"])
	}

	// Walk the happy path over HTTP
	steps := []map[string]interface{}{
		{"target": entity.ClaimStatusInReview},
		{"target": entity.ClaimStatusSubmitted},
		{"target": entity.ClaimStatusAwaitingResponse, "payload": map[string]interface{}{"supplier_claim_number": "HOB-441"}},
		{"target": entity.ClaimStatusApproved, "payload": map[string]interface{}{"resolution_note": "Credited", "credit_amount": "1500"}},
		{"target": entity.ClaimStatusResolved},
	}
	for _, step := range steps {
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/claims/"+claimID+"/transition", step, token)
		if w.Code != http.StatusOK {
			t.Fatalf("transition %v failed: %d %s", step["target"], w.Code, w.Body.String())
		}
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims/"+claimID, nil, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.ClaimStatusResolved {
		t.Fatalf("expected resolved, got %v", data["status"])
	}
	if data["sealed_at"] == nil {
		t.Fatal("expected sealed_at to be set")
	}
	if data["credit_currency"] != "NOK" {
		t.Fatalf("expected NOK, got %v", data["credit_currency"])
	}
}

func TestClaimUpdateAfterSealConflict(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	claimID := createTestClaim(t, env, token)
	for _, step := range []map[string]interface{}{
		{"target": entity.ClaimStatusInReview},
		{"target": entity.ClaimStatusSubmitted},
		{"target": entity.ClaimStatusAwaitingResponse},
		{"target": entity.ClaimStatusRejected, "payload": map[string]interface{}{"resolution_note": "Not covered"}},
		{"target": entity.ClaimStatusResolved},
	} {
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/claims/"+claimID+"/transition", step, token)
		if w.Code != http.StatusOK {
			t.Fatalf("transition %v failed: %d %s", step["target"], w.Code, w.Body.String())
		}
	}

	// Part writes are frozen with the claim
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/claims/"+claimID+"/parts",
		map[string]interface{}{"part_number": "X-100"}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for part after seal, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != CodeClaimSealed {
		t.Fatalf("expected code %d, got %v", CodeClaimSealed, resp["code"])
	}
}

func TestClaimNotFoundHTTP(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims/missing", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestClaimGetByNumberHTTP(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	claimID := createTestClaim(t, env, token)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims/"+claimID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	number := testutil.ParseResponse(w)["data"].(map[string]interface{})["claim_number"].(string)

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims/by-number/"+number, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["id"] != claimID {
		t.Fatalf("expected claim %s, got %v", claimID, data["id"])
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims/by-number/RK-1999-99999", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown number, got %d", w.Code)
	}
}

func TestClaimNotesAndTimeline(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	claimID := createTestClaim(t, env, token)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/claims/"+claimID+"/notes",
		map[string]interface{}{"text": "Called the supplier hotline"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["data"].(map[string]interface{})["sequence"].(float64) == 0 {
		t.Fatal("expected a timeline sequence id")
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims/"+claimID+"/timeline", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	entries := data["entries"].([]interface{})
	if len(entries) != 2 {
		t.Fatalf("expected 2 timeline entries, got %d", len(entries))
	}
	if data["total"].(float64) != 2 {
		t.Fatalf("expected total 2, got %v", data["total"])
	}
	first := entries[0].(map[string]interface{})
	if first["event_type"] != entity.TimelineEventCreated {
		t.Fatalf("expected created first, got %v", first["event_type"])
	}
	second := entries[1].(map[string]interface{})
	if second["actor_name"] != "Test Technician" {
		t.Fatalf("expected actor from token, got %v", second["actor_name"])
	}
}

func TestClaimListFilters(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	claimID := createTestClaim(t, env, token)
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/claims/"+claimID+"/transition",
		map[string]interface{}{"target": entity.ClaimStatusInReview}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("transition failed: %d %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims?status=in_review", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 claim in_review, got %d", len(items))
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims?status=closed", nil, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if items, ok := data["items"].([]interface{}); ok && len(items) != 0 {
		t.Fatalf("expected no closed claims, got %d", len(items))
	}
}
