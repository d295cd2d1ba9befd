package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fundrecords/fund-records-backend/internal/api/handlers"
	"github.com/fundrecords/fund-records-backend/internal/testutil"
)

// TestDataHandler_ExportImportJSON tests the JSON backup round trip through
// the HTTP layer.
//
// WHY: The exported file is the user's backup; importing it on a fresh
// database must reproduce the original dataset exactly.
func TestDataHandler_ExportImportJSON(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.InsertTransactions(t, db,
		testutil.NewTransaction().WithFund("000001", "Growth Fund").WithFee(10).Build(),
	)
	handler := handlers.NewDataHandler(testutil.NewTestLedgerService(t, db))

	req := httptest.NewRequest(http.MethodGet, "/api/data/export", nil)
	w := httptest.NewRecorder()
	handler.ExportJSON(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Expected attachment disposition, got %q", cd)
	}
	exported := w.Body.Bytes()

	// Import the export into a fresh database.
	freshDB := testutil.SetupTestDB(t)
	freshSvc := testutil.NewTestLedgerService(t, freshDB)
	freshHandler := handlers.NewDataHandler(freshSvc)

	req = httptest.NewRequest(http.MethodPost, "/api/data/import", bytes.NewReader(exported))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	freshHandler.ImportJSON(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["imported"] != 1 {
		t.Errorf("Expected 1 imported transaction, got %d", result["imported"])
	}

	transactions := freshSvc.Transactions()
	if len(transactions) != 1 || transactions[0].FundCode != "000001" {
		t.Errorf("Expected imported transaction, got %+v", transactions)
	}
}

// TestDataHandler_ImportJSON_Multipart tests import via a form upload.
func TestDataHandler_ImportJSON_Multipart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestLedgerService(t, db)
	handler := handlers.NewDataHandler(svc)

	payload := `{
		"transactions": [{"fundCode": "000001", "fundName": "F", "type": "buy",
			"date": "2024-01-01", "amount": 100, "shares": 100, "unitPrice": 1}],
		"holdings": [], "accountSummary": {}, "fundPrices": {}
	}`

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "backup.json")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(payload)); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/data/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	handler.ImportJSON(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(svc.Transactions()) != 1 {
		t.Error("Expected uploaded file to be imported")
	}
}

// TestDataHandler_ImportJSON_RejectsBadBundle tests import validation.
//
// WHY: A rejected import must not modify existing data; users rely on a
// failed restore being harmless.
func TestDataHandler_ImportJSON_RejectsBadBundle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.InsertTransactions(t, db, testutil.NewTransaction().Build())
	svc := testutil.NewTestLedgerService(t, db)
	handler := handlers.NewDataHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/data/import", strings.NewReader(`{"transactions": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ImportJSON(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if len(svc.Transactions()) != 1 {
		t.Error("Existing data must survive a rejected import")
	}
}

// TestDataHandler_ExportImportWorkbook tests the xlsx round trip through
// the HTTP layer.
func TestDataHandler_ExportImportWorkbook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.InsertTransactions(t, db,
		testutil.NewTransaction().WithFund("000001", "Growth Fund").Build(),
	)
	handler := handlers.NewDataHandler(testutil.NewTestLedgerService(t, db))

	req := httptest.NewRequest(http.MethodGet, "/api/data/export/xlsx", nil)
	w := httptest.NewRecorder()
	handler.ExportWorkbook(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	exported := w.Body.Bytes()

	freshDB := testutil.SetupTestDB(t)
	freshSvc := testutil.NewTestLedgerService(t, freshDB)
	freshHandler := handlers.NewDataHandler(freshSvc)

	req = httptest.NewRequest(http.MethodPost, "/api/data/import/xlsx", bytes.NewReader(exported))
	w = httptest.NewRecorder()
	freshHandler.ImportWorkbook(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	transactions := freshSvc.Transactions()
	if len(transactions) != 1 || transactions[0].FundCode != "000001" {
		t.Errorf("Expected imported transaction, got %+v", transactions)
	}
	if transactions[0].ID == "" {
		t.Error("Workbook imports must receive generated ids")
	}
}

// TestDataHandler_Reset tests the reset endpoint.
func TestDataHandler_Reset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.InsertTransactions(t, db, testutil.NewTransaction().Build())
	svc := testutil.NewTestLedgerService(t, db)
	handler := handlers.NewDataHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/data/reset", nil)
	w := httptest.NewRecorder()
	handler.Reset(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}
	if len(svc.Transactions()) != 0 {
		t.Error("Expected no transactions after reset")
	}
	testutil.AssertRowCount(t, db, "ledger_transaction", 0)
}
