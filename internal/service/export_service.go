package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/courseboard/courseboard-api/internal/models"
	appErrors "github.com/courseboard/courseboard-api/pkg/errors"
	"github.com/courseboard/courseboard-api/pkg/export"
)

// Supported roster export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type rosterReader interface {
	ListEnrolledStudents(ctx context.Context, courseID string) ([]models.Student, error)
}

// RosterExport is a rendered roster document ready to be served.
type RosterExport struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders course rosters into downloadable documents.
type ExportService struct {
	courses courseReader
	roster  rosterReader
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(courses courseReader, roster rosterReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		courses: courses,
		roster:  roster,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// RenderRoster produces the enrolled-student roster for a course in the
// requested format.
func (s *ExportService) RenderRoster(ctx context.Context, courseID, format string) (*RosterExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	students, err := s.roster.ListEnrolledStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Name", "Age", "Registered"},
		Rows:    make([]map[string]string, 0, len(students)),
	}
	for _, student := range students {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Name":       student.FullName(),
			"Age":        strconv.Itoa(student.Age),
			"Registered": student.CreatedAt.Format("2006-01-02"),
		})
	}

	slug := slugify(course.Title)
	switch format {
	case FormatPDF:
		content, err := s.pdf.Render(dataset, fmt.Sprintf("%s roster", course.Title))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster pdf")
		}
		return &RosterExport{Content: content, ContentType: "application/pdf", Filename: slug + "-roster.pdf"}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
		}
		return &RosterExport{Content: content, ContentType: "text/csv", Filename: slug + "-roster.csv"}, nil
	}
}

func slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "course"
	}
	return slug
}
