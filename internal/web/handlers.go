package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/JonMunkholm/SheetDiff/internal/core"
	"github.com/JonMunkholm/SheetDiff/internal/diff"
	"github.com/JonMunkholm/SheetDiff/internal/logging"
	"github.com/JonMunkholm/SheetDiff/internal/xlsx"
)

const (
	exportFilename  = "comparison_result.xlsx"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// handleIndex serves the single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "index not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleFileInfo reports one uploaded workbook's sheet inventory.
func (s *Server) handleFileInfo(w http.ResponseWriter, r *http.Request) {
	s.limitBody(w, r)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		writeFileInfoError(w, err)
		return
	}

	file, header, err := formFileAny(r, "file")
	if err != nil {
		writeFileInfoError(w, err)
		return
	}
	defer file.Close()

	info, err := s.service.FileInfo(r.Context(), core.Source{Reader: file, Name: header.Filename})
	if err != nil {
		writeFileInfoError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// writeFileInfoError keeps this endpoint's error shape: the message plus
// empty inventory fields the UI binds directly.
func writeFileInfoError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":       err.Error(),
		"sheets":      nil,
		"sheet_names": []string{},
	})
}

// handleCompareSheetCount reports both workbooks' sheet inventories so
// the UI can warn about mismatched sheet counts before a comparison.
func (s *Server) handleCompareSheetCount(w http.ResponseWriter, r *http.Request) {
	s.limitBody(w, r)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	left, leftHeader, err := formFileAny(r, "expected_file", "file1")
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	defer left.Close()

	right, rightHeader, err := formFileAny(r, "actual_file", "file2")
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	defer right.Close()

	counts, err := s.service.CompareSheetCounts(r.Context(),
		core.Source{Reader: left, Name: leftHeader.Filename},
		core.Source{Reader: right, Name: rightHeader.Filename},
	)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}

// handlePreview returns the head of one worksheet after normalization.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.limitBody(w, r)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	file, header, err := formFileAny(r, "file")
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	defer file.Close()

	sheet := xlsx.ParseSheet(firstFormValue(r, "sheet"))
	preview, err := s.service.Preview(r.Context(), core.Source{Reader: file, Name: header.Filename}, sheet)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// handleCompare runs a comparison over two uploaded workbooks.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, cleanup, err := s.parseCompareRequest(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	defer cleanup()

	cmp, err := s.service.Compare(r.Context(), req)
	if err != nil {
		s.respondCompareError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, compareResponse(cmp, req))
}

// handleExportExcel runs the comparison and streams the report workbook.
// Errors can only be JSON until the download starts; after the first
// byte the response cannot change shape.
func (s *Server) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	req, cleanup, err := s.parseCompareRequest(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	defer cleanup()

	wrote := false
	err = s.service.Export(r.Context(), req, func(path string) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename))
		wrote = true
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		if wrote {
			logging.FromContext(r.Context()).Error("export stream aborted", "error", err)
			return
		}
		s.respondCompareError(w, r, err)
	}
}

// handleHealth reports liveness and the run limiter's state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"comparisons": s.service.LimiterStatus(),
	})
}

// ============================================================================
// Compare request plumbing
// ============================================================================

// runConfig echoes the run parameters back to the client.
type runConfig struct {
	File1         string  `json:"file1"`
	File2         string  `json:"file2"`
	Key           *string `json:"key"`
	ExpectedSheet string  `json:"expected_sheet"`
	ActualSheet   string  `json:"actual_sheet"`
	Mode          string  `json:"mode"`
	RunID         string  `json:"run_id"`
}

// comparePayload is the comparison result plus its run configuration.
type comparePayload struct {
	*diff.Result
	Config runConfig `json:"config"`
}

func compareResponse(cmp *core.Comparison, req core.CompareRequest) comparePayload {
	var key *string
	if cmp.Key != "" {
		k := cmp.Key
		key = &k
	}
	return comparePayload{
		Result: cmp.Result,
		Config: runConfig{
			File1:         req.Left.Name,
			File2:         req.Right.Name,
			Key:           key,
			ExpectedSheet: req.LeftSheet.String(),
			ActualSheet:   req.RightSheet.String(),
			Mode:          string(core.ModeOf(cmp.Key)),
			RunID:         cmp.RunID,
		},
	}
}

// parseCompareRequest reads both uploads and the sheet/key fields from a
// multipart form. The returned cleanup closes both files.
func (s *Server) parseCompareRequest(w http.ResponseWriter, r *http.Request) (core.CompareRequest, func(), error) {
	s.limitBody(w, r)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		return core.CompareRequest{}, nil, fmt.Errorf("invalid form: %w", err)
	}

	left, leftHeader, err := formFileAny(r, "expected_file", "file1")
	if err != nil {
		return core.CompareRequest{}, nil, err
	}
	right, rightHeader, err := formFileAny(r, "actual_file", "file2")
	if err != nil {
		left.Close()
		return core.CompareRequest{}, nil, err
	}

	cleanup := func() {
		left.Close()
		right.Close()
	}

	req := core.CompareRequest{
		Left:       core.Source{Reader: left, Name: leftHeader.Filename},
		Right:      core.Source{Reader: right, Name: rightHeader.Filename},
		LeftSheet:  xlsx.ParseSheet(firstFormValue(r, "expected_sheet", "sheet")),
		RightSheet: xlsx.ParseSheet(firstFormValue(r, "actual_sheet", "sheet")),
		Key:        s.resolveKey(r),
	}
	return req, cleanup, nil
}

// respondCompareError keeps the compare endpoints' error contract:
// stable codes with enough payload to fix the request.
func (s *Server) respondCompareError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Warn("comparison failed",
		"path", r.URL.Path,
		"error", err.Error(),
	)

	var missingKey *core.MissingKeyError
	var keyErr *diff.KeyError
	var srcErr *xlsx.SourceError

	switch {
	case errors.As(err, &missingKey):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":         "primary_key_missing",
			"message":       missingKey.Error(),
			"key":           missingKey.Key,
			"columns_file1": missingKey.ColumnsFile1,
			"columns_file2": missingKey.ColumnsFile2,
		})
	case errors.As(err, &keyErr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "primary_key_invalid",
			"message": keyErr.Error(),
			"key":     keyErr.Key,
		})
	case errors.As(err, &srcErr):
		code := "load_error"
		if srcErr.Kind == xlsx.SourceNotFound {
			code = "file_not_found"
		}
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   code,
			"message": srcErr.Error(),
		})
	case errors.Is(err, core.ErrTooManyComparisons):
		w.Header().Set("Retry-After", "30")
		respondError(w, r, err, http.StatusTooManyRequests)
	default:
		respondError(w, r, err, http.StatusBadRequest)
	}
}

// resolveKey reads the key field. A missing field means the configured
// default; an explicit blank or "none" selects positional matching.
func (s *Server) resolveKey(r *http.Request) string {
	form := r.MultipartForm
	if form == nil {
		return s.cfg.Compare.DefaultKey
	}
	for _, name := range []string{"key", "primary_key"} {
		vs, ok := form.Value[name]
		if !ok || len(vs) == 0 {
			continue
		}
		key := strings.TrimSpace(vs[0])
		if key == "" || strings.EqualFold(key, "none") {
			return ""
		}
		return key
	}
	return s.cfg.Compare.DefaultKey
}

// limitBody caps the request body at the configured upload size.
func (s *Server) limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
}

// formFileAny returns the first of the named multipart files present.
func formFileAny(r *http.Request, names ...string) (multipart.File, *multipart.FileHeader, error) {
	for _, name := range names {
		file, header, err := r.FormFile(name)
		if err == nil {
			return file, header, nil
		}
	}
	return nil, nil, errors.New("no file provided")
}

// firstFormValue returns the first of the named form values present.
func firstFormValue(r *http.Request, names ...string) string {
	if r.MultipartForm == nil {
		return ""
	}
	for _, name := range names {
		if vs, ok := r.MultipartForm.Value[name]; ok && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}
