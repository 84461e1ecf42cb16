package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/testutil"
	"github.com/gin-gonic/gin"
)

// doUpload sends a multipart attachment upload
func doUpload(t *testing.T, r *gin.Engine, path, fileName, kind, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("Failed to build multipart body: %v", err)
	}
	fw.Write([]byte("file content"))
	if kind != "" {
		mw.WriteField("kind", kind)
	}
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAttachmentUploadAndList(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	claimID := createTestClaim(t, env, token)

	w := doUpload(t, env.Router, "/api/v1/claims/"+claimID+"/attachments", "defect.jpg", "photo", token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["kind"] != entity.AttachmentKindPhoto {
		t.Fatalf("expected kind photo, got %v", data["kind"])
	}
	if data["file_name"] != "defect.jpg" {
		t.Fatalf("expected file name defect.jpg, got %v", data["file_name"])
	}
	attachmentID := data["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims/"+claimID+"/attachments", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	items := testutil.ParseResponse(w)["data"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(items))
	}

	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/claims/"+claimID+"/attachments/"+attachmentID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAttachmentUploadWithoutFile(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	claimID := createTestClaim(t, env, token)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/claims/"+claimID+"/attachments",
		map[string]interface{}{"kind": "photo"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAttachmentDefaultsToDocument(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	claimID := createTestClaim(t, env, token)

	w := doUpload(t, env.Router, "/api/v1/claims/"+claimID+"/attachments", "report.pdf", "", token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["kind"] != entity.AttachmentKindDocument {
		t.Fatalf("expected default kind document, got %v", data["kind"])
	}
}

func TestPartFlowHTTP(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	claimID := createTestClaim(t, env, token)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/claims/"+claimID+"/parts",
		map[string]interface{}{
			"part_number": "87.01.155",
			"description": "Door gasket",
			"quantity":    2,
			"unit_price":  "249.90",
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.PartStatusPending {
		t.Fatalf("expected pending, got %v", data["status"])
	}
	partID := data["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/claims/"+claimID+"/parts/"+partID+"/status",
		map[string]interface{}{"status": entity.PartStatusOrdered}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// ordered -> installed skips received
	w = testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/claims/"+claimID+"/parts/"+partID+"/status",
		map[string]interface{}{"status": entity.PartStatusInstalled}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for skipped part state, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != CodeInvalidTransition {
		t.Fatalf("expected code %d, got %v", CodeInvalidTransition, resp["code"])
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/claims/"+claimID+"/parts", nil, token)
	items := testutil.ParseResponse(w)["data"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 part, got %d", len(items))
	}
}

func TestPartMissingBody(t *testing.T) {
	env := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	claimID := createTestClaim(t, env, token)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/claims/"+claimID+"/parts",
		map[string]interface{}{"description": "no part number"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without part_number, got %d: %s", w.Code, w.Body.String())
	}
}
