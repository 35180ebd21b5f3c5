package handler

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/iho/ctacte/internal/adapter/http/dto"
	"github.com/iho/ctacte/internal/adapter/importfile"
	"github.com/iho/ctacte/internal/usecase"
)

// maxUploadBytes caps multipart import uploads.
const maxUploadBytes = importfile.DefaultMaxBytes

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	ImportRows(ctx context.Context, input usecase.ImportRowsInput) (*usecase.ImportReport, error)
}

// ImportHandler handles delivery-note imports.
type ImportHandler struct {
	importUC ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importUC ImportService) *ImportHandler {
	return &ImportHandler{importUC: importUC}
}

// Import accepts either a multipart upload in the "file" field or a JSON body
// of rows, and returns the import report.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	var (
		input usecase.ImportRowsInput
		err   error
	)
	if isMultipart(r) {
		input, err = h.readUpload(w, r)
	} else {
		var req dto.ImportRequest
		if err = decodeJSON(w, r, &req); err == nil {
			input = req.ToUseCaseInput()
		}
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid import", err.Error())
		return
	}

	report, err := h.importUC.ImportRows(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to import", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportReportFromResult(report))
}

func (h *ImportHandler) readUpload(w http.ResponseWriter, r *http.Request) (usecase.ImportRowsInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		return usecase.ImportRowsInput{}, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return usecase.ImportRowsInput{}, err
	}
	defer file.Close()

	rows, err := importfile.ReadLimited(file, maxUploadBytes)
	if err != nil {
		return usecase.ImportRowsInput{}, err
	}

	input := usecase.ImportRowsInput{Rows: rows, Source: header.Filename}
	if v := strings.TrimSpace(r.FormValue("from_date")); v != "" {
		from, err := dto.ParseDate(v)
		if err != nil {
			return usecase.ImportRowsInput{}, err
		}
		input.FromDate = from
	}
	return input, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
