package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hirelane/interview-booking-api/internal/models"
	appErrors "github.com/hirelane/interview-booking-api/pkg/errors"
	"github.com/hirelane/interview-booking-api/pkg/export"
)

// ExportFormat enumerates supported export renderings.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type interviewRange interface {
	ListRange(ctx context.Context, employerID, from, to string, limit int) ([]models.Interview, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled     bool
	MaxRowCount int
}

// ExportResult carries the rendered document.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders an employer's interviews over a date range into
// downloadable documents.
type ExportService struct {
	repo   interviewRange
	csv    csvRenderer
	pdf    pdfRenderer
	cfg    ExportConfig
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(repo interviewRange, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRowCount <= 0 {
		cfg.MaxRowCount = 5000
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{repo: repo, csv: csv, pdf: pdf, cfg: cfg, logger: logger}
}

// Generate builds the interview dataset and renders it in the requested
// format.
func (s *ExportService) Generate(ctx context.Context, format ExportFormat, employerID, from, to string) (*ExportResult, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exports are disabled")
	}
	if employerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employer_id is required")
	}
	fromDate, err := time.Parse(models.DateLayout, from)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
	}
	toDate, err := time.Parse(models.DateLayout, to)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
	}
	if toDate.Before(fromDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not precede from")
	}

	rows, err := s.repo.ListRange(ctx, employerID, from, to, s.cfg.MaxRowCount)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interviews for export")
	}

	dataset := buildInterviewDataset(rows)
	title := fmt.Sprintf("Interviews %s (%s to %s)", employerID, from, to)

	var payload []byte
	var contentType string
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("interviews_%s_%s_%s.%s",
		sanitizeFilename(employerID), from, to, format)
	s.logger.Info("export generated",
		zap.String("employer_id", employerID),
		zap.String("format", string(format)),
		zap.Int("rows", len(rows)))
	return &ExportResult{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func buildInterviewDataset(rows []models.Interview) export.Dataset {
	headers := []string{"Date", "Start", "End", "Status", "Jobseeker ID", "Job ID", "Application ID", "Result"}
	dataRows := make([]map[string]string, 0, len(rows))
	for _, iv := range rows {
		result := ""
		if iv.Result != nil {
			result = string(*iv.Result)
		}
		dataRows = append(dataRows, map[string]string{
			"Date":           iv.Date,
			"Start":          iv.StartTime,
			"End":            iv.EndTime,
			"Status":         string(iv.Status),
			"Jobseeker ID":   iv.JobseekerID,
			"Job ID":         iv.JobID,
			"Application ID": iv.ApplicationID,
			"Result":         result,
		})
	}
	return export.Dataset{Headers: headers, Rows: dataRows}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
