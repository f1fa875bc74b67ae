// Package app wires the domain pipeline to the adapters: upload/confirm,
// analytics queries, cost-variance sessions, and narrative reports.
package app

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"spendscope/adapters/excel"
	"spendscope/domain/core"
	"spendscope/domain/ingest"
	"spendscope/domain/mapping"
	"spendscope/domain/spend"
	"spendscope/internal"
	"spendscope/internal/errors"
	"spendscope/ports"
)

// UploadService handles the two-step upload flow: preview with suggested
// mappings, then confirm with user-reviewed mappings. Confirm is stateless;
// the client resubmits the file content, so nothing is staged server-side.
type UploadService struct {
	sessions    ports.SessionRepository
	records     ports.RecordRepository
	previewRows int
	logger      *internal.Logger
}

func NewUploadService(sessions ports.SessionRepository, records ports.RecordRepository, previewRows int, logger *internal.Logger) *UploadService {
	if previewRows <= 0 {
		previewRows = 5
	}
	return &UploadService{
		sessions:    sessions,
		records:     records,
		previewRows: previewRows,
		logger:      logger,
	}
}

// UploadPreview is what the mapping confirmation dialog renders.
type UploadPreview struct {
	FileName         string                           `json:"file_name"`
	FileHash         string                           `json:"file_hash"`
	TotalRows        int                              `json:"total_rows"`
	HeaderRowIndex   int                              `json:"header_row_index"`
	Mappings         []mapping.ColumnMapping          `json:"mappings"`
	DuplicateTargets map[mapping.Field][]string       `json:"duplicate_targets,omitempty"`
	PreviewRows      []map[string]string              `json:"preview_rows"`
}

// Preview parses an uploaded file and suggests a column mapping. Nothing is
// persisted here; persistence happens on confirm.
func (s *UploadService) Preview(content []byte, filename string) (*UploadPreview, error) {
	data, err := excel.Parse(content, filename)
	if err != nil {
		return nil, err
	}

	samples := data.PreviewRows(s.previewRows)
	mappings := mapping.SuggestMappings(data.Headers, samples)

	preview := &UploadPreview{
		FileName:       filename,
		FileHash:       core.NewFileHash(content).String(),
		TotalRows:      len(data.Rows),
		HeaderRowIndex: data.HeaderRowIndex,
		Mappings:       mappings,
		PreviewRows:    samples,
	}
	if dupes := mapping.DuplicateTargets(mappings); len(dupes) > 0 {
		preview.DuplicateTargets = dupes
		s.logger.Warn("[upload] %s: %d fields mapped by multiple columns", filename, len(dupes))
	}
	return preview, nil
}

// ConfirmRequest carries the user-reviewed mapping back with the file.
type ConfirmRequest struct {
	FileName string
	FileHash string
	Content  []byte
	Mappings []mapping.ColumnMapping
}

// ConfirmResult reports what one confirmed ingestion produced.
type ConfirmResult struct {
	SessionID    core.SessionID     `json:"session_id"`
	Period       string             `json:"period"`
	TotalRows    int                `json:"total_rows"`
	InsertedRows int                `json:"inserted_rows"`
	RejectedRows int                `json:"rejected_rows"`
	Rejected     []ingest.Rejection `json:"rejected,omitempty"`
}

// Confirm re-parses the file, ingests rows under the confirmed mapping,
// aggregates duplicate supplier/part lines, and persists the batch under a
// new session.
func (s *UploadService) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	if len(req.Content) == 0 {
		return nil, errors.InvalidInput("file content is required")
	}
	if len(req.Mappings) == 0 {
		return nil, errors.InvalidInput("column mappings are required")
	}
	hash := core.NewFileHash(req.Content).String()
	if req.FileHash != "" && req.FileHash != hash {
		return nil, errors.InvalidInput("file hash does not match uploaded content")
	}

	data, err := excel.Parse(req.Content, req.FileName)
	if err != nil {
		return nil, err
	}

	session := &spend.Session{
		ID:        core.SessionID(core.NewID()),
		FileHash:  hash,
		FileName:  req.FileName,
		Period:    ExtractPeriod(data, req.FileName, time.Now()),
		TotalRows: len(data.Rows),
		Status:    spend.SessionPending,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	rows := make([]ingest.RawRow, len(data.Rows))
	for i, row := range data.Rows {
		rows[i] = ingest.RawRow(row)
	}
	result := ingest.Ingest(req.Mappings, rows)
	records := ingest.AggregateBySupplierPart(result.Records)

	inserted, err := s.records.InsertRecords(ctx, session.ID, records)
	if err != nil {
		if statusErr := s.sessions.UpdateSessionStatus(ctx, session.ID, spend.SessionFailed, 0, len(result.Rejected)); statusErr != nil {
			s.logger.Error("[upload] session %s: failed to mark failed: %v", session.ID, statusErr)
		}
		return nil, err
	}
	if err := s.sessions.UpdateSessionStatus(ctx, session.ID, spend.SessionCompleted, inserted, len(result.Rejected)); err != nil {
		return nil, err
	}

	s.logger.Info("[upload] session %s: %d rows in, %d records stored, %d rejected",
		session.ID, len(data.Rows), inserted, len(result.Rejected))

	return &ConfirmResult{
		SessionID:    session.ID,
		Period:       session.Period,
		TotalRows:    len(data.Rows),
		InsertedRows: inserted,
		RejectedRows: len(result.Rejected),
		Rejected:     result.Rejected,
	}, nil
}

// GetSession returns one upload session's metadata.
func (s *UploadService) GetSession(ctx context.Context, id core.SessionID) (*spend.Session, error) {
	return s.sessions.GetSession(ctx, id)
}

// GetRecords returns one session's stored record batch.
func (s *UploadService) GetRecords(ctx context.Context, id core.SessionID) ([]spend.Record, error) {
	if _, err := s.sessions.GetSession(ctx, id); err != nil {
		return nil, err
	}
	return s.records.GetRecords(ctx, id)
}

var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// ExtractPeriod derives a reporting period label. A four-digit year found in
// the rows above the header wins, then one in the filename, then the current
// year.
func ExtractPeriod(data *excel.TabularData, filename string, now time.Time) string {
	for _, header := range data.Headers {
		if m := yearPattern.FindString(header); m != "" {
			return m
		}
	}
	for _, row := range data.PreviewRows(3) {
		for _, cell := range row {
			if m := yearPattern.FindString(cell); m != "" {
				return m
			}
		}
	}
	base := filepath.Base(filename)
	if m := yearPattern.FindString(base); m != "" {
		return m
	}
	return strconv.Itoa(now.Year())
}
