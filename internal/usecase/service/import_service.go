package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"github.com/niklvrr/issuetracker/internal/infrastructure/repository"
	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var csvContentTypes = map[string]struct{}{
	"text/csv":                 {},
	"application/csv":          {},
	"text/x-csv":               {},
	"application/vnd.ms-excel": {},
	"text/plain":               {},
	"application/octet-stream": {},
}

const (
	columnTitle       = "title"
	columnDescription = "description"
	columnPriority    = "priority"
	columnAssigneeId  = "assignee_id"
)

type csvColumns struct {
	title       int
	description int
	priority    int
	assigneeId  int
}

type ImportService struct {
	storage repository.Storage
	clock   Clock
	log     *zap.Logger
}

func NewImportService(storage repository.Storage, clock Clock, log *zap.Logger) *ImportService {
	return &ImportService{
		storage: storage,
		clock:   clock,
		log:     log,
	}
}

// Import создаёт задачи из CSV построчно. Каждая строка коммитится в своей транзакции,
// ошибки строк возвращаются в ответе, а не прерывают импорт.
func (s *ImportService) Import(ctx context.Context, req *request.ImportIssuesRequest) (*response.ImportIssuesResponse, error) {
	if !isCSVUpload(req.Filename, req.ContentType) {
		s.log.Warn("import rejected: not a CSV file",
			zap.String("filename", req.Filename),
			zap.String("content_type", req.ContentType),
		)
		return nil, WrapError(ErrInvalidFormat, fmt.Errorf("filename %q, content type %q", req.Filename, req.ContentType))
	}

	reader := csv.NewReader(req.Body)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, WrapError(ErrMalformedCSV, errors.New("file is empty"))
		}
		return nil, WrapError(ErrMalformedCSV, err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, WrapError(ErrMalformedCSV, err)
	}

	resp := &response.ImportIssuesResponse{
		ImportId: uuid.NewString(),
		Errors:   []response.ImportRowError{},
	}
	log := s.log.With(zap.String("import_id", resp.ImportId), zap.String("filename", req.Filename))
	log.Info("import started")

	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			log.Warn("import aborted", zap.Int("row", row), zap.Error(err))
			return nil, WrapError(ErrTransactionFailed, err)
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		resp.TotalRows++

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				// Поток оборван: созданные строки уже закоммичены, клиент получает сводку
				log.Error("import stream failed", zap.Int("row", row), zap.Error(err))
				s.rowFailed(log, resp, row, fmt.Sprintf("upload truncated: %v", err))
				break
			}
			s.rowFailed(log, resp, row, fmt.Sprintf("malformed row: %v", parseErr.Err))
			continue
		}

		d, err := parseIssueRow(record, cols)
		if err != nil {
			s.rowFailed(log, resp, row, err.Error())
			continue
		}
		d.CreatedAt = s.clock.Now()

		if msg, err := s.createRow(ctx, d); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				log.Warn("import aborted", zap.Int("row", row), zap.Error(ctxErr))
				return nil, WrapError(ErrTransactionFailed, ctxErr)
			}
			log.Debug("row rejected by store", zap.Int("row", row), zap.Error(err))
			s.rowFailed(log, resp, row, msg)
			continue
		}

		resp.CreatedIssues++
		importRows.WithLabelValues("created").Inc()
	}

	resp.FailedRows = len(resp.Errors)
	log.Info("import finished",
		zap.Int("total_rows", resp.TotalRows),
		zap.Int("created_issues", resp.CreatedIssues),
		zap.Int("failed_rows", resp.FailedRows),
	)
	return resp, nil
}

// createRow пишет одну задачу в собственной транзакции и возвращает текст ошибки для отчёта
func (s *ImportService) createRow(ctx context.Context, d *dto.CreateIssueDTO) (string, error) {
	err := s.storage.WithTx(ctx, func(st repository.StoreProvider) error {
		if d.AssigneeId != nil {
			if err := ensureUserExists(ctx, st, *d.AssigneeId, ErrAssigneeNotFound); err != nil {
				return err
			}
		}
		_, err := st.Issues().Create(ctx, d)
		return err
	})
	if err == nil {
		return "", nil
	}

	if errors.Is(err, ErrAssigneeNotFound) || (d.AssigneeId != nil && errors.Is(err, repository.ErrMissingReference)) {
		return fmt.Sprintf("assignee user %d not found", *d.AssigneeId), err
	}
	if repository.IsConstraintViolation(err) {
		return "row violates issue constraints", err
	}
	s.log.Error("failed to create imported issue", zap.Error(err))
	return "failed to create issue", err
}

func (s *ImportService) rowFailed(log *zap.Logger, resp *response.ImportIssuesResponse, row int, msg string) {
	importRows.WithLabelValues("failed").Inc()
	log.Warn("import row failed", zap.Int("row", row), zap.String("reason", msg))
	resp.Errors = append(resp.Errors, response.ImportRowError{Row: row, Message: msg})
}

func isCSVUpload(filename, contentType string) bool {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return false
	}
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := csvContentTypes[strings.ToLower(mediaType)]
	return ok
}

func mapColumns(header []string) (csvColumns, error) {
	cols := csvColumns{title: -1, description: -1, priority: -1, assigneeId: -1}
	for i, h := range header {
		// Excel добавляет BOM в начало файла
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch name {
		case columnTitle:
			cols.title = i
		case columnDescription:
			cols.description = i
		case columnPriority:
			cols.priority = i
		case columnAssigneeId:
			cols.assigneeId = i
		}
	}

	var err error
	if cols.title < 0 {
		err = multierr.Append(err, fmt.Errorf("missing %q column", columnTitle))
	}
	if cols.priority < 0 {
		err = multierr.Append(err, fmt.Errorf("missing %q column", columnPriority))
	}
	return cols, err
}

// parseIssueRow проверяет все поля строки и собирает все нарушения сразу
func parseIssueRow(record []string, cols csvColumns) (*dto.CreateIssueDTO, error) {
	var errs error

	title := strings.TrimSpace(field(record, cols.title))
	if n := utf8.RuneCountInString(title); n < domain.TitleMinLen || n > domain.TitleMaxLen {
		errs = multierr.Append(errs, fmt.Errorf("title must be between %d and %d characters, got %d",
			domain.TitleMinLen, domain.TitleMaxLen, n))
	}

	rawPriority := strings.TrimSpace(field(record, cols.priority))
	priority := domain.Priority(strings.ToLower(rawPriority))
	switch {
	case rawPriority == "":
		errs = multierr.Append(errs, errors.New("priority is required"))
	case !priority.Valid():
		errs = multierr.Append(errs, fmt.Errorf("invalid priority %q", rawPriority))
	}

	var assigneeId *int64
	if raw := strings.TrimSpace(field(record, cols.assigneeId)); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("invalid assignee_id %q", raw))
		} else {
			assigneeId = &id
		}
	}

	if errs != nil {
		return nil, WrapError(ErrValidation, errs)
	}

	description := field(record, cols.description)
	return &dto.CreateIssueDTO{
		Title:       title,
		Description: &description,
		Priority:    priority,
		AssigneeId:  assigneeId,
	}, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
