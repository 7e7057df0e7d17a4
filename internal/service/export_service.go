package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cps-portal-api/internal/models"
	"github.com/noah-isme/cps-portal-api/internal/workflow"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
	"github.com/noah-isme/cps-portal-api/pkg/export"
)

// ExportService renders CPS credit statements as CSV or PDF downloads.
type ExportService struct {
	cps    cpsRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(cps cpsRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		cps:    cps,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// ExportResult carries rendered bytes plus download metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

var statementHeaders = []string{"Activity", "Category", "Credits", "Status", "Submitted", "Decided"}

// CreditStatement renders the actor's scope of claims in the requested
// format ("csv" or "pdf"). Faculty export their own claims; HODs their
// department; principal and admin everything.
func (s *ExportService) CreditStatement(ctx context.Context, actor workflow.Actor, format string) (*ExportResult, error) {
	filter := models.CPSFilter{}
	switch actor.Role {
	case models.RoleFaculty:
		filter.OwnerID = actor.ID
	case models.RoleHOD:
		filter.Department = actor.Department
	}

	entries, err := s.cps.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: statementHeaders}
	approvedTotal := 0
	for _, e := range entries {
		row := map[string]string{
			"Activity": e.Activity,
			"Category": string(e.Category),
			"Credits":  strconv.Itoa(e.Credits),
			"Status":   string(e.Status),
		}
		if e.SubmittedAt != nil {
			row["Submitted"] = e.SubmittedAt.Format("2006-01-02")
		}
		if ts := decidedAt(e); ts != nil {
			row["Decided"] = ts.Format("2006-01-02")
		}
		data.Rows = append(data.Rows, row)
		if e.Status == models.CPSStatusApproved {
			approvedTotal += e.Credits
		}
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case "csv":
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("cps-statement-%s.csv", stamp),
		}, nil
	case "pdf":
		summary := fmt.Sprintf("Approved credits: %d", approvedTotal)
		content, err := s.pdf.Render(data, "CPS Credit Statement", summary)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("cps-statement-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func decidedAt(e models.CPSEntry) *time.Time {
	switch {
	case e.RejectedAt != nil:
		return e.RejectedAt
	case e.PrincipalApprovedAt != nil:
		return e.PrincipalApprovedAt
	case e.Status == models.CPSStatusApproved:
		return e.HODApprovedAt
	}
	return nil
}
