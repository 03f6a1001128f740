package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/roeeblo/smart-job-tracker/internal/dto"
	apperrors "github.com/roeeblo/smart-job-tracker/internal/errors"
	"github.com/roeeblo/smart-job-tracker/internal/model"
	"github.com/roeeblo/smart-job-tracker/internal/repository"
	"github.com/roeeblo/smart-job-tracker/pkg/logger"
)

const skipReasonDuplicate = "duplicate"

// ImportService ingests job applications in bulk from CSV uploads and
// JSON payloads. Each batch is written in a single transaction.
type ImportService struct {
	jobs          repository.JobRepository
	cache         *JobCache
	defaultSource string
}

func NewImportService(jobs repository.JobRepository, cache *JobCache, defaultSource string) *ImportService {
	return &ImportService{jobs: jobs, cache: cache, defaultSource: defaultSource}
}

// ImportCSV parses an exported spreadsheet and inserts every valid row.
// CSV imports do not deduplicate; the upload is taken at face value.
func (s *ImportService) ImportCSV(ctx context.Context, userID uint, r io.Reader) (*dto.ImportCSVResponse, error) {
	items, err := parseCSV(r)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrEmptyCSV
	}

	valid := make([]dto.ImportItem, 0, len(items))
	for _, item := range items {
		if norm, ok := s.normalize(item); ok {
			valid = append(valid, norm)
		}
	}
	if len(valid) == 0 {
		return nil, apperrors.ErrNoValidItems
	}

	inserted := make([]dto.JobResponse, 0, len(valid))
	err = s.jobs.Transaction(ctx, func(tx repository.JobRepository) error {
		for _, item := range valid {
			job := s.toModel(userID, item)
			if err := tx.Create(ctx, job); err != nil {
				return err
			}
			inserted = append(inserted, dto.ToJobResponse(job))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(inserted) > 0 {
		s.cache.Invalidate(ctx, userID)
	}

	logger.GetLogger().Info("csv import finished",
		zap.Uint("user_id", userID),
		zap.Int("rows", len(items)),
		zap.Int("inserted", len(inserted)),
	)

	return &dto.ImportCSVResponse{
		OK:       true,
		Inserted: len(inserted),
		Items:    inserted,
	}, nil
}

// ImportJSON accepts either a single object or an array under "items"
// and inserts the records that are not already present. A candidate is
// a duplicate when the same company and role pair exists
// (case-insensitive) or, for candidates with notes, when the exact
// notes already exist.
func (s *ImportService) ImportJSON(ctx context.Context, userID uint, raw json.RawMessage) (*dto.ImportJSONResponse, error) {
	items, err := parseItems(raw)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrNoItems
	}

	valid := make([]dto.ImportItem, 0, len(items))
	for _, item := range items {
		if norm, ok := s.normalize(item); ok {
			valid = append(valid, norm)
		}
	}
	if len(valid) == 0 {
		return nil, apperrors.ErrNoValidItems
	}

	inserted := make([]dto.JobResponse, 0, len(valid))
	skipped := make([]dto.SkippedItem, 0)

	err = s.jobs.Transaction(ctx, func(tx repository.JobRepository) error {
		for _, item := range valid {
			// Rows inserted earlier in this batch are visible here, so
			// in-batch duplicates are skipped too.
			exists, err := tx.FindForDedup(ctx, userID, item.Company, item.Role, item.Notes)
			if err != nil {
				return err
			}
			if exists {
				skipped = append(skipped, dto.SkippedItem{Item: item, Reason: skipReasonDuplicate})
				continue
			}

			job := s.toModel(userID, item)
			if err := tx.Create(ctx, job); err != nil {
				return err
			}
			inserted = append(inserted, dto.ToJobResponse(job))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(inserted) > 0 {
		s.cache.Invalidate(ctx, userID)
	}

	logger.GetLogger().Info("json import finished",
		zap.Uint("user_id", userID),
		zap.Int("candidates", len(items)),
		zap.Int("inserted", len(inserted)),
		zap.Int("skipped", len(skipped)),
	)

	return &dto.ImportJSONResponse{
		OK:            true,
		Inserted:      len(inserted),
		Skipped:       len(skipped),
		InsertedItems: inserted,
		SkippedItems:  skipped,
	}, nil
}

// normalize trims every field, applies defaults, and drops records
// missing a company or role.
func (s *ImportService) normalize(item dto.ImportItem) (dto.ImportItem, bool) {
	out := dto.ImportItem{
		Company:  strings.TrimSpace(item.Company),
		Role:     strings.TrimSpace(item.Role),
		Status:   normalizeStatus(item.Status),
		Source:   defaultIfEmpty(strings.TrimSpace(item.Source), s.defaultSource),
		Location: strings.TrimSpace(item.Location),
		Notes:    strings.TrimSpace(item.Notes),
	}
	if out.Company == "" || out.Role == "" {
		return dto.ImportItem{}, false
	}
	return out, true
}

func (s *ImportService) toModel(userID uint, item dto.ImportItem) *model.JobApplication {
	return &model.JobApplication{
		UserID:   userID,
		Company:  item.Company,
		Role:     item.Role,
		Status:   item.Status,
		Source:   item.Source,
		Location: item.Location,
		Notes:    item.Notes,
	}
}

// parseItems decodes the "items" value, which may be one object or an
// array of objects.
func parseItems(raw json.RawMessage) ([]dto.ImportItem, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, apperrors.ErrValidation
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []dto.ImportItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrValidation, err)
		}
		return items, nil
	}

	var item dto.ImportItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrValidation, err)
	}
	return []dto.ImportItem{item}, nil
}

// csvHeaderAliases maps spreadsheet column names to canonical fields.
var csvHeaderAliases = map[string]string{
	"company":  "company",
	"employer": "company",
	"role":     "role",
	"position": "role",
	"title":    "role",
	"status":   "status",
	"source":   "source",
	"site":     "source",
	"location": "location",
	"city":     "location",
	"notes":    "notes",
	"note":     "notes",
	"comments": "notes",
}

// parseCSV reads a headed CSV into import items. The first row names
// the columns; unknown columns are ignored and short rows are padded.
func parseCSV(r io.Reader) ([]dto.ImportItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, apperrors.WrapError(apperrors.ErrValidation, err)
	}

	// Excel exports prefix the first header cell with a UTF-8 BOM.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	fields := make([]string, len(header))
	for i, name := range header {
		fields[i] = csvHeaderAliases[strings.ToLower(strings.TrimSpace(name))]
	}

	var items []dto.ImportItem
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrValidation, err)
		}

		var item dto.ImportItem
		for i, value := range record {
			if i >= len(fields) {
				break
			}
			switch fields[i] {
			case "company":
				item.Company = value
			case "role":
				item.Role = value
			case "status":
				item.Status = value
			case "source":
				item.Source = value
			case "location":
				item.Location = value
			case "notes":
				item.Notes = value
			}
		}
		items = append(items, item)
	}
	return items, nil
}
