package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/repository"
)

// Registry CSV column headers as exported from the agency's project
// registry spreadsheet.
const (
	registryColName     = "Название"
	registryColFolder   = "Ссылка на папку"
	registryColStart    = "Дата старта"
	registryColWeeks    = "Кол-во недель"
	registryColEnd      = "Дата окончания по договору (проекта)"
	registryDateLayout  = "02.01.2006"
	registryDateLayout2 = "2006-01-02"
)

// ImportStats summarizes one registry import run. Rows are never
// imported partially: a row either becomes a project or lands in
// Skipped/Errors with its reason.
type ImportStats struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// ImportService loads historical projects from the registry CSV.
type ImportService struct {
	projectRepo repository.ProjectRepository
}

// NewImportService creates a new ImportService
func NewImportService(projectRepo repository.ProjectRepository) *ImportService {
	return &ImportService{projectRepo: projectRepo}
}

// ImportRegistry reads the registry CSV and creates one project per
// valid row. The Название column must start with the project code
// ("2167.ACM.acme Acme Corp"); rows with an empty name are skipped,
// rows whose client already has a project are skipped with a reason,
// and malformed rows are collected as errors.
func (s *ImportService) ImportRegistry(r io.Reader) (*ImportStats, error) {
	df := dataframe.ReadCSV(r)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to read registry CSV: %w", df.Err)
	}

	for _, required := range []string{registryColName, registryColStart} {
		if !hasColumn(df, required) {
			return nil, fmt.Errorf("registry CSV is missing column %q", required)
		}
	}

	stats := &ImportStats{Total: df.Nrow()}

	for i := 0; i < df.Nrow(); i++ {
		name := strings.TrimSpace(cellString(df, i, registryColName))
		if name == "" {
			stats.Skipped++
			continue
		}

		code, client, err := splitRegistryName(name)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("строка %d: %v", i+2, err))
			continue
		}

		exists, err := s.projectRepo.ExistsByClient(client)
		if err != nil {
			return nil, fmt.Errorf("failed to check client %q: %w", client, err)
		}
		if exists {
			stats.Skipped++
			stats.Errors = append(stats.Errors,
				fmt.Sprintf("строка %d: у клиента %q уже есть проект, пропущено", i+2, client))
			continue
		}

		startDate, err := parseRegistryDate(cellString(df, i, registryColStart))
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("строка %d: дата старта: %v", i+2, err))
			continue
		}

		weeks := 0
		if hasColumn(df, registryColWeeks) {
			weeks, _ = strconv.Atoi(strings.TrimSpace(cellString(df, i, registryColWeeks)))
		}

		endDate := startDate.AddDate(0, 0, 7*weeks)
		if hasColumn(df, registryColEnd) {
			if parsed, err := parseRegistryDate(cellString(df, i, registryColEnd)); err == nil {
				endDate = parsed
			}
		}
		if endDate.Before(startDate) {
			endDate = startDate
		}

		project := &models.Project{
			ProjectCode:    code,
			Name:           name,
			Client:         client,
			Group:          models.GroupLeft,
			Type:           models.ProjectTypeExisting,
			Status:         models.ProjectStatusActive,
			StartDate:      startDate,
			EndDate:        endDate,
			PrepaymentDate: startDate,
			DurationWeeks:  weeks,
			CreatedBy:      "registry-import",
		}
		if hasColumn(df, registryColFolder) {
			project.DriveFolderURL = strings.TrimSpace(cellString(df, i, registryColFolder))
		}

		// Historical projects come in without documents or checklist;
		// only the project row itself is created.
		graph := &repository.ProjectGraph{Project: project}
		if err := s.projectRepo.CreateGraph(graph); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("строка %d: %v", i+2, err))
			continue
		}
		stats.Imported++
	}

	return stats, nil
}

// splitRegistryName splits "2167.ACM.acme Acme Corp" into the project
// code and the client name. When the client part is missing it falls
// back to the code's slug.
func splitRegistryName(name string) (code, client string, err error) {
	parts := strings.SplitN(name, " ", 2)
	code = parts[0]
	if !models.ValidProjectCode(code) {
		return "", "", fmt.Errorf("название %q не начинается с project code", name)
	}
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		return code, strings.TrimSpace(parts[1]), nil
	}
	segments := strings.SplitN(code, ".", 3)
	return code, segments[2], nil
}

func parseRegistryDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("пустая дата")
	}
	for _, layout := range []string{registryDateLayout, registryDateLayout2} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("не удалось разобрать дату %q", raw)
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, col := range df.Names() {
		if col == name {
			return true
		}
	}
	return false
}

// cellString returns one cell as a trimmed string. Empty cells come
// back from gota as "NaN"; both spellings map to "".
func cellString(df dataframe.DataFrame, row int, column string) string {
	series := df.Col(column)
	if series.Err != nil {
		return ""
	}
	value := strings.TrimSpace(series.Elem(row).String())
	if value == "NaN" {
		return ""
	}
	return value
}
