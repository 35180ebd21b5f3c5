package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/ctacte/internal/adapter/http/dto"
	"github.com/iho/ctacte/internal/usecase"
)

func TestImportHandler_JSONRows(t *testing.T) {
	var captured usecase.ImportRowsInput
	handler := NewImportHandler(&importServiceStub{
		importFn: func(ctx context.Context, input usecase.ImportRowsInput) (*usecase.ImportReport, error) {
			captured = input
			return &usecase.ImportReport{RowsRead: len(input.Rows), Created: 1}, nil
		},
	})

	body := `{"rows":[{"REMITO":"R-1","KILOS":12.5}],"from_date":"2025-03-01","source":"api"}`
	req := httptest.NewRequest(http.MethodPost, "/imports", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Import(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(captured.Rows) != 1 || captured.Source != "api" || captured.FromDate.Day() != 1 {
		t.Fatalf("unexpected input %+v", captured)
	}
	if _, ok := captured.Rows[0]["KILOS"].(json.Number); !ok {
		t.Fatalf("expected numbers to keep their literal form, got %T", captured.Rows[0]["KILOS"])
	}

	var resp dto.ImportReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.RowsRead != 1 || resp.Created != 1 {
		t.Fatalf("unexpected report %+v", resp)
	}
}

func TestImportHandler_MultipartUpload(t *testing.T) {
	var captured usecase.ImportRowsInput
	handler := NewImportHandler(&importServiceStub{
		importFn: func(ctx context.Context, input usecase.ImportRowsInput) (*usecase.ImportReport, error) {
			captured = input
			return &usecase.ImportReport{RowsRead: len(input.Rows)}, nil
		},
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "march.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write([]byte("FECHA_REMITO;REMITO;CUIT_CLIENTE;CLIENTE;ARTICULO;CANTIDAD;KILOS\n15/03/2025;R-1;20-1;A;Caja;1;2\n"))
	_ = mw.WriteField("from_date", "2025-03-01")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/imports", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.Import(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(captured.Rows) != 1 || captured.Source != "march.csv" || captured.FromDate.IsZero() {
		t.Fatalf("unexpected input %+v", captured)
	}
	if captured.Rows[0].Text(usecase.ColumnDeliveryNote) != "R-1" {
		t.Fatalf("unexpected row %+v", captured.Rows[0])
	}
}

func TestImportHandler_MissingFile(t *testing.T) {
	handler := NewImportHandler(&importServiceStub{
		importFn: func(ctx context.Context, input usecase.ImportRowsInput) (*usecase.ImportReport, error) {
			t.Fatal("ImportRows should not be called without a file")
			return nil, nil
		},
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("from_date", "2025-03-01")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/imports", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.Import(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
