package handler

import (
	"net/http"
	"testing"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/testutil"
)

func TestSupplierCreateAndUpdate(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/suppliers", map[string]interface{}{
		"code":                   "RAT",
		"name":                   "Rational AG",
		"country":                "DE",
		"response_deadline_days": 30,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	supplierID := data["id"].(string)
	if data["status"] != "active" {
		t.Fatalf("expected active, got %v", data["status"])
	}

	w = testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/suppliers/"+supplierID,
		map[string]interface{}{"contact_person": "A. Mertens"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/suppliers/"+supplierID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["contact_person"] != "A. Mertens" {
		t.Fatalf("expected updated contact person, got %v", data["contact_person"])
	}
}

func TestSupplierDeleteGuard(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	// sup-h001 gets a claim and becomes undeletable
	createTestClaim(t, env, token)

	w := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/suppliers/sup-h001", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for supplier with claims, got %d: %s", w.Code, w.Body.String())
	}
	if code := testutil.ParseResponse(w)["code"].(float64); code != CodeSupplierInUse {
		t.Fatalf("expected code %d, got %v", CodeSupplierInUse, code)
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/suppliers/sup-h001", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected supplier to survive the rejected delete, got %d", w.Code)
	}

	spare := testutil.SeedSupplier(t, env.DB, "sup-r002", "ELO", "Eloma GmbH")
	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/suppliers/"+spare.ID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting unreferenced supplier, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/suppliers/"+spare.ID, nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestSupplierCodeRequired(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/suppliers",
		map[string]interface{}{"name": "No Code AS"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without code, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProductUnderSupplier(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	supplier := testutil.SeedSupplier(t, env.DB, "sup-r001", "WIN", "Winterhalter")

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"supplier_id":     supplier.ID,
		"name":            "Hood dishwasher",
		"model":           "PT-M",
		"warranty_months": 24,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/suppliers/"+supplier.ID+"/products", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	items := testutil.ParseResponse(w)["data"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 product, got %d", len(items))
	}

	// Products cannot dangle
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"supplier_id": "missing",
		"name":        "Orphan",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown supplier, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCustomerCreateAndGet(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/customers", map[string]interface{}{
		"name":   "Storkjøkken Drift AS",
		"org_no": "912345678",
		"branch": "bergen",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	customerID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/customers/"+customerID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["branch"] != "bergen" {
		t.Fatalf("expected branch bergen, got %v", data["branch"])
	}
}
