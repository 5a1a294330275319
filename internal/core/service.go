package core

// service.go orchestrates comparison runs: loading both workbooks,
// guarding concurrency, running the diff, and rendering exports. The
// HTTP layer and the CLI both sit on top of this; neither talks to the
// engine's internals directly.

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/SheetDiff/internal/config"
	"github.com/JonMunkholm/SheetDiff/internal/diff"
	"github.com/JonMunkholm/SheetDiff/internal/logging"
	"github.com/JonMunkholm/SheetDiff/internal/xlsx"
)

// Source locates one workbook for a single operation. Exactly one of
// Path or Reader is set. Name is the display name carried into logs,
// error payloads, and report headers; for uploads it is the original
// filename.
type Source struct {
	Path   string
	Reader io.Reader
	Name   string
}

// FileInfo describes one workbook's sheet inventory.
type FileInfo struct {
	Sheets     int      `json:"sheets"`
	SheetNames []string `json:"sheet_names"`
}

// SheetCountComparison reports whether two workbooks carry the same
// number of worksheets, with the names for display.
type SheetCountComparison struct {
	ExpectedSheets     int      `json:"expected_sheets"`
	ActualSheets       int      `json:"actual_sheets"`
	Match              bool     `json:"match"`
	ExpectedFilename   string   `json:"expected_filename"`
	ActualFilename     string   `json:"actual_filename"`
	SheetNamesExpected []string `json:"sheet_names_expected"`
	SheetNamesActual   []string `json:"sheet_names_actual"`
}

// Preview is the head of one normalized worksheet.
type Preview struct {
	Columns   []string            `json:"columns"`
	Rows      []map[string]string `json:"rows"`
	TotalRows int                 `json:"total_rows"`
}

// CompareRequest describes one comparison run. An empty Key selects
// positional matching.
type CompareRequest struct {
	Left       Source
	Right      Source
	LeftSheet  xlsx.Sheet
	RightSheet xlsx.Sheet
	Key        string
}

// Comparison is a finished run: the result plus the identifiers the
// transport layers echo back to callers.
type Comparison struct {
	RunID  string
	Key    string
	Result *diff.Result
}

// MissingKeyError reports a key column absent from one or both tables.
// Unlike the engine's own key validation it carries both tables' column
// lists, so callers can show the user what each file actually has.
type MissingKeyError struct {
	Key          string
	ColumnsFile1 []string
	ColumnsFile2 []string
	InFile1      bool
	InFile2      bool
}

func (e *MissingKeyError) Error() string {
	switch {
	case !e.InFile1 && !e.InFile2:
		return fmt.Sprintf("Primary key '%s' not found in either file.", e.Key)
	case !e.InFile1:
		return fmt.Sprintf("Primary key '%s' not found in file1.", e.Key)
	default:
		return fmt.Sprintf("Primary key '%s' not found in file2.", e.Key)
	}
}

// Service runs workbook comparisons.
type Service struct {
	cfg     *config.Config
	limiter *ComparisonLimiter
}

// NewService creates the comparison service from loaded configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:     cfg,
		limiter: NewComparisonLimiter(cfg.Compare.MaxConcurrent, cfg.Compare.MaxWait),
	}
}

// ModeOf maps a key choice to the matching mode it selects.
func ModeOf(key string) diff.Mode {
	if key == "" {
		return diff.ModePositional
	}
	return diff.ModeKeyed
}

// FileInfo inspects one workbook's sheets.
func (s *Service) FileInfo(ctx context.Context, src Source) (*FileInfo, error) {
	names, err := sheetNames(src)
	if err != nil {
		logging.FromContext(ctx).Warn("file info failed", "file", src.Name, "error", err)
		return nil, err
	}
	return &FileInfo{Sheets: len(names), SheetNames: names}, nil
}

// CompareSheetCounts inspects both workbooks' sheet inventories. A
// mismatch is information for the user, not an error.
func (s *Service) CompareSheetCounts(ctx context.Context, left, right Source) (*SheetCountComparison, error) {
	leftNames, err := sheetNames(left)
	if err != nil {
		return nil, err
	}
	rightNames, err := sheetNames(right)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("sheet counts compared",
		"file1", left.Name, "file2", right.Name,
		"sheets1", len(leftNames), "sheets2", len(rightNames),
	)

	return &SheetCountComparison{
		ExpectedSheets:     len(leftNames),
		ActualSheets:       len(rightNames),
		Match:              len(leftNames) == len(rightNames),
		ExpectedFilename:   left.Name,
		ActualFilename:     right.Name,
		SheetNamesExpected: leftNames,
		SheetNamesActual:   rightNames,
	}, nil
}

// Preview loads one worksheet and returns its first rows after
// normalization, so the user sees exactly what a comparison would see.
func (s *Service) Preview(ctx context.Context, src Source, sheet xlsx.Sheet) (*Preview, error) {
	raw, err := readRaw(src, sheet, src.Name)
	if err != nil {
		return nil, err
	}
	t, err := diff.Normalize(raw)
	if err != nil {
		return nil, err
	}

	limit := s.cfg.Compare.PreviewRows
	if t.RowCount() < limit {
		limit = t.RowCount()
	}

	rows := make([]map[string]string, 0, limit)
	for i := 0; i < limit; i++ {
		row := make(map[string]string, len(t.Columns()))
		for _, col := range t.Columns() {
			row[col] = t.CellAt(i, col).Display()
		}
		rows = append(rows, row)
	}

	return &Preview{Columns: t.Columns(), Rows: rows, TotalRows: t.RowCount()}, nil
}

// Compare loads both workbooks concurrently and diffs them. Runs are
// capped at the configured concurrency; callers over the cap wait up to
// MaxWait and then fail with ErrTooManyComparisons.
func (s *Service) Compare(ctx context.Context, req CompareRequest) (*Comparison, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	runID := uuid.New().String()
	logger := logging.WithFields(ctx,
		"run_id", runID,
		"file1", req.Left.Name,
		"file2", req.Right.Name,
	)

	start := time.Now()

	var left, right *diff.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := loadTable(gctx, req.Left, req.LeftSheet, "file1")
		if err != nil {
			return err
		}
		left = t
		return nil
	})
	g.Go(func() error {
		t, err := loadTable(gctx, req.Right, req.RightSheet, "file2")
		if err != nil {
			return err
		}
		right = t
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn("comparison load failed", "error", err)
		return nil, err
	}

	if req.Key != "" {
		if err := checkKeyPresence(left, right, req.Key); err != nil {
			logger.Warn("comparison rejected", "error", err)
			return nil, err
		}
	}

	result, err := diff.Compare(left, right, diff.Options{Key: req.Key})
	if err != nil {
		logger.Warn("comparison rejected", "error", err)
		return nil, err
	}

	logger.Info("comparison complete",
		"mode", string(ModeOf(req.Key)),
		"added", result.Summary.AddedCount,
		"removed", result.Summary.RemovedCount,
		"modified", result.Summary.ModifiedCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Comparison{RunID: runID, Key: req.Key, Result: result}, nil
}

// Export runs the comparison and renders it as a report workbook,
// handing the finished file's path to consume. The artifact is removed
// once consume returns, whether it succeeded or not.
func (s *Service) Export(ctx context.Context, req CompareRequest, consume func(path string) error) error {
	cmp, err := s.Compare(ctx, req)
	if err != nil {
		return err
	}

	rep := xlsx.Report{
		Result: cmp.Result,
		File1:  req.Left.Name,
		File2:  req.Right.Name,
		Sheet:  req.LeftSheet.String(),
		Key:    req.Key,
	}

	logging.FromContext(ctx).Debug("rendering export", "run_id", cmp.RunID)
	return xlsx.WithTempReport(rep, consume)
}

// LimiterStatus reports the run limiter's state for health checks.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForComparisons blocks until running comparisons finish or ctx
// expires. Used during graceful shutdown.
func (s *Service) WaitForComparisons(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// checkKeyPresence verifies the key column exists in both tables before
// the engine's per-table validation runs, so the error can list both
// files' columns at once.
func checkKeyPresence(left, right *diff.Table, key string) error {
	in1 := left.HasColumn(key)
	in2 := right.HasColumn(key)
	if in1 && in2 {
		return nil
	}
	return &MissingKeyError{
		Key:          key,
		ColumnsFile1: left.Columns(),
		ColumnsFile2: right.Columns(),
		InFile1:      in1,
		InFile2:      in2,
	}
}

func loadTable(ctx context.Context, src Source, sheet xlsx.Sheet, label string) (*diff.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := readRaw(src, sheet, label)
	if err != nil {
		return nil, err
	}
	return diff.Normalize(raw)
}

func readRaw(src Source, sheet xlsx.Sheet, label string) (diff.RawTable, error) {
	if src.Reader != nil {
		return xlsx.ReadTableFrom(src.Reader, sheet, src.Name, label)
	}
	return xlsx.ReadTable(src.Path, sheet, label)
}

func sheetNames(src Source) ([]string, error) {
	if src.Reader != nil {
		return xlsx.SheetNamesFrom(src.Reader, src.Name)
	}
	return xlsx.SheetNames(src.Path)
}
