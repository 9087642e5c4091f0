package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dealdocs/internal/apperr"
	"dealdocs/internal/audit"
	"dealdocs/internal/model"
	"dealdocs/internal/service"
	serviceMocks "dealdocs/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubScanner struct {
	report *audit.Report
	err    error
}

func (s stubScanner) Scan(ctx context.Context) (*audit.Report, error) {
	return s.report, s.err
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/deals/:dealID/documents", UploadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "term_sheet.pdf")
		part.Write([]byte("hello world"))
		writer.WriteField("document_type", "term_sheet")
		writer.Close()

		expectedDoc := &model.Document{ID: 42, DealID: 5, FileName: "term_sheet.pdf"}
		mockSvc.On("Store", mock.Anything, mock.MatchedBy(func(in service.StoreInput) bool {
			return in.DealID == 5 &&
				in.FileName == "term_sheet.pdf" &&
				in.DocumentType == "term_sheet" &&
				in.UploadedBy == "analyst@acme" &&
				in.Size == int64(len("hello world"))
		})).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/deals/5/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("X-Uploader", "analyst@acme")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expectedDoc.ID, result.ID)
		assert.Equal(t, expectedDoc.DealID, result.DealID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid deal id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/deals/abc/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/deals/5/documents", nil)
		// Missing content-type and body
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_REQUIRED", res.Error.Code)
	})

	t.Run("rejected payload", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "term_sheet.pdf")
		part.Write([]byte("not a pdf"))
		writer.Close()

		mockSvc.On("Store", mock.Anything, mock.Anything).
			Return(nil, &apperr.ValidationError{Field: "file", Reason: "not a valid PDF"}).Once()

		req := httptest.NewRequest(http.MethodPost, "/deals/5/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_DOCUMENT", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown deal", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "term_sheet.pdf")
		part.Write([]byte("hello"))
		writer.Close()

		mockSvc.On("Store", mock.Anything, mock.Anything).
			Return(nil, &apperr.NotFoundError{Resource: "deal", ID: 99}).Once()

		req := httptest.NewRequest(http.MethodPost, "/deals/99/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "term_sheet.pdf")
		part.Write([]byte("hello"))
		writer.Close()

		mockSvc.On("Store", mock.Anything, mock.Anything).
			Return(nil, errors.New("upload failed")).Once()

		req := httptest.NewRequest(http.MethodPost, "/deals/5/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestListDealDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockIsolationService)
	app := fiber.New()
	app.Get("/deals/:dealID/documents", ListDealDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.DocumentListResult{
			Items: []model.DocumentSummary{{ID: 1, DealID: 5, FileName: "report.pdf", HasBlob: true}},
			Total: 1,
		}
		mockSvc.On("ListForDeal", mock.Anything, int64(5), 10, 0).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents?limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_LIMIT", body.Error.Code)
	})

	t.Run("unknown deal", func(t *testing.T) {
		mockSvc.On("ListForDeal", mock.Anything, int64(99), 10, 0).
			Return(nil, &apperr.NotFoundError{Resource: "deal", ID: 99}).Once()

		req := httptest.NewRequest(http.MethodGet, "/deals/99/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("ListForDeal", mock.Anything, int64(5), 10, 0).
			Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/deals/:dealID/documents/:id", GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.DocumentSummary{ID: 7, DealID: 5, FileName: "nda.pdf", HasBlob: true, BlobSize: 1024}
		mockSvc.On("Get", mock.Anything, int64(7), int64(5)).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents/7", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.DocumentSummary
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, int64(7), result.ID)
		assert.True(t, result.HasBlob)
		mockSvc.AssertExpectations(t)
	})

	t.Run("wrong deal", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(7), int64(5)).
			Return(nil, &apperr.CrossDealAccessError{DocumentID: 7, Expected: 5, Actual: 9}).Once()

		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents/7", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "CROSS_DEAL_ACCESS", res.Error.Code)
		// The recorded owner must not leak into the response.
		assert.NotContains(t, res.Error.Message, "9")
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(7), int64(5)).
			Return(nil, &apperr.NotFoundError{Resource: "document", ID: 7}).Once()

		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents/7", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid document id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents/abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})
}

func TestDownloadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/deals/:dealID/documents/:id/download", DownloadDocument(mockSvc))

	t.Run("streams blob content", func(t *testing.T) {
		payload := []byte("%PDF-1.7 fake body")
		mockSvc.On("Retrieve", mock.Anything, int64(7), int64(5)).Return(&service.RetrieveResult{
			Content:  io.NopCloser(bytes.NewReader(payload)),
			FileName: "term_sheet.pdf",
			FileType: "application/pdf",
			Size:     int64(len(payload)),
			Source:   model.StorageBlob,
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents/7/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
		assert.Equal(t, `attachment; filename="term_sheet.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))

		got, _ := io.ReadAll(resp.Body)
		assert.Equal(t, payload, got)
		mockSvc.AssertExpectations(t)
	})

	t.Run("content gone", func(t *testing.T) {
		mockSvc.On("Retrieve", mock.Anything, int64(7), int64(5)).Return(nil, &apperr.GoneError{
			DocumentID:   7,
			ExpectedPath: "uploads/5/term_sheet.pdf",
			RecordedSize: 2048,
			HasDBData:    false,
			HasFilePath:  true,
		}).Once()

		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents/7/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusGone, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "CONTENT_GONE", res.Error.Code)
		assert.Equal(t, "uploads/5/term_sheet.pdf", res.Error.Details["expected_path"])
		assert.Equal(t, float64(2048), res.Error.Details["recorded_size"])
		assert.Equal(t, false, res.Error.Details["has_db_data"])
		assert.Equal(t, true, res.Error.Details["has_file_path"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("wrong deal", func(t *testing.T) {
		mockSvc.On("Retrieve", mock.Anything, int64(7), int64(5)).
			Return(nil, &apperr.CrossDealAccessError{DocumentID: 7, Expected: 5, Actual: 9}).Once()

		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents/7/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "CROSS_DEAL_ACCESS", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestMoveDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockIsolationService)
	app := fiber.New()
	app.Post("/deals/:dealID/documents/:id/move", MoveDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.DocumentMove{ID: 1, DocumentID: 7, FromDealID: 5, ToDealID: 9, Reason: "deal consolidation"}
		mockSvc.On("AssertOwnership", mock.Anything, int64(7), int64(5)).Return(nil).Once()
		mockSvc.On("Move", mock.Anything, int64(7), int64(9), "deal consolidation").Return(expected, nil).Once()

		body := strings.NewReader(`{"to_deal_id": 9, "reason": "deal consolidation"}`)
		req := httptest.NewRequest(http.MethodPost, "/deals/5/documents/7/move", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.DocumentMove
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, int64(9), result.ToDealID)
		assert.Equal(t, int64(5), result.FromDealID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("wrong source deal", func(t *testing.T) {
		mockSvc.On("AssertOwnership", mock.Anything, int64(7), int64(5)).
			Return(&apperr.CrossDealAccessError{DocumentID: 7, Expected: 5, Actual: 9}).Once()

		body := strings.NewReader(`{"to_deal_id": 9}`)
		req := httptest.NewRequest(http.MethodPost, "/deals/5/documents/7/move", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "CROSS_DEAL_ACCESS", res.Error.Code)
		mockSvc.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		body := strings.NewReader(`{not json`)
		req := httptest.NewRequest(http.MethodPost, "/deals/5/documents/7/move", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_BODY", res.Error.Code)
	})

	t.Run("same deal", func(t *testing.T) {
		mockSvc.On("AssertOwnership", mock.Anything, int64(7), int64(5)).Return(nil).Once()
		mockSvc.On("Move", mock.Anything, int64(7), int64(5), "").
			Return(nil, &apperr.ValidationError{Field: "to_deal_id", Reason: "document already in deal"}).Once()

		body := strings.NewReader(`{"to_deal_id": 5}`)
		req := httptest.NewRequest(http.MethodPost, "/deals/5/documents/7/move", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_DOCUMENT", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestDocumentHistory(t *testing.T) {
	mockSvc := new(serviceMocks.MockIsolationService)
	app := fiber.New()
	app.Get("/deals/:dealID/documents/:id/history", DocumentHistory(mockSvc))

	t.Run("success", func(t *testing.T) {
		trail := []model.DocumentMove{
			{ID: 1, DocumentID: 7, FromDealID: 2, ToDealID: 5, Reason: "filed under wrong deal"},
		}
		mockSvc.On("AssertOwnership", mock.Anything, int64(7), int64(5)).Return(nil).Once()
		mockSvc.On("History", mock.Anything, int64(7)).Return(trail, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents/7/history", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Data []model.DocumentMove `json:"data"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		require.Len(t, result.Data, 1)
		assert.Equal(t, int64(5), result.Data[0].ToDealID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("wrong deal", func(t *testing.T) {
		mockSvc.On("AssertOwnership", mock.Anything, int64(7), int64(5)).
			Return(&apperr.CrossDealAccessError{DocumentID: 7, Expected: 5, Actual: 9}).Once()

		req := httptest.NewRequest(http.MethodGet, "/deals/5/documents/7/history", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		mockSvc.AssertNotCalled(t, "History", mock.Anything, mock.Anything)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Delete("/deals/:dealID/documents/:id", DeleteDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(7), int64(5)).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/deals/5/documents/7", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(7), int64(5)).
			Return(&apperr.NotFoundError{Resource: "document", ID: 7}).Once()

		req := httptest.NewRequest(http.MethodDelete, "/deals/5/documents/7", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("wrong deal", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(7), int64(5)).
			Return(&apperr.CrossDealAccessError{DocumentID: 7, Expected: 5, Actual: 9}).Once()

		req := httptest.NewRequest(http.MethodDelete, "/deals/5/documents/7", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(7), int64(5)).
			Return(errors.New("delete error")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/deals/5/documents/7", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestAuditReport(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		report := &audit.Report{
			Total: 3,
			Counts: map[audit.Classification]int{
				audit.ClassBlob:    2,
				audit.ClassMissing: 1,
			},
		}
		app := fiber.New()
		app.Get("/audit/documents", AuditReport(stubScanner{report: report}))

		req := httptest.NewRequest(http.MethodGet, "/audit/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result audit.Report
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, 3, result.Total)
		assert.Equal(t, 2, result.Counts[audit.ClassBlob])
	})

	t.Run("scan failure", func(t *testing.T) {
		app := fiber.New()
		app.Get("/audit/documents", AuditReport(stubScanner{err: errors.New("db down")}))

		req := httptest.NewRequest(http.MethodGet, "/audit/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	docsMock := new(serviceMocks.MockDocumentService)
	isoMock := new(serviceMocks.MockIsolationService)
	// Register all routes
	RegisterRoutes(app, nil, docsMock, isoMock, stubScanner{})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		// Fiber returns 405 by default if route exists but method doesn't match
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})
}
