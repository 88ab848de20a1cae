package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const registryCSV = `Название,Ссылка на папку,Дата старта,Кол-во недель,Дата окончания по договору (проекта)
2150.БНК.bank Банк Москвы,https://drive.example.com/bank,03.02.2025,12,28.04.2025
,https://drive.example.com/empty,03.02.2025,4,
2151.СТР.stroy СтройГрупп,https://drive.example.com/stroy,10.02.2025,8,
не проект,https://drive.example.com/bad,17.02.2025,4,
2152.АКМ.acme Acme Corp,https://drive.example.com/acme,bad-date,4,
`

func TestImportRegistry(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewImportService(env.projectRepo)

	stats, err := svc.ImportRegistry(strings.NewReader(registryCSV))
	require.NoError(t, err)

	require.Equal(t, 5, stats.Total)
	require.Equal(t, 2, stats.Imported)
	// The empty name row is skipped silently.
	require.Equal(t, 1, stats.Skipped)
	// Bad code and bad date rows are reported.
	require.Len(t, stats.Errors, 2)

	project, err := env.projectRepo.FindByCode("2150.БНК.bank")
	require.NoError(t, err)
	require.Equal(t, "Банк Москвы", project.Client)
	require.Equal(t, date("2025-02-03"), project.StartDate)
	require.Equal(t, project.StartDate, project.PrepaymentDate)
	require.Equal(t, date("2025-04-28"), project.EndDate)
	require.Equal(t, 12, project.DurationWeeks)
	require.Equal(t, "https://drive.example.com/bank", project.DriveFolderURL)
	require.Equal(t, "registry-import", project.CreatedBy)

	// End date falls back to start + weeks when the end column is empty.
	stroy, err := env.projectRepo.FindByCode("2151.СТР.stroy")
	require.NoError(t, err)
	require.Equal(t, date("2025-04-07"), stroy.EndDate)
}

func TestImportRegistry_SkipsDuplicateClients(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewImportService(env.projectRepo)

	_, err := svc.ImportRegistry(strings.NewReader(registryCSV))
	require.NoError(t, err)

	// Re-importing the same registry creates nothing new.
	stats, err := svc.ImportRegistry(strings.NewReader(registryCSV))
	require.NoError(t, err)
	require.Equal(t, 0, stats.Imported)
	require.Equal(t, 3, stats.Skipped)
}

func TestImportRegistry_MissingColumns(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewImportService(env.projectRepo)

	_, err := svc.ImportRegistry(strings.NewReader("Имя,Дата\nx,y\n"))
	require.Error(t, err)
}

func TestSplitRegistryName(t *testing.T) {
	code, client, err := splitRegistryName("2150.БНК.bank Банк Москвы")
	require.NoError(t, err)
	require.Equal(t, "2150.БНК.bank", code)
	require.Equal(t, "Банк Москвы", client)

	// Client part falls back to the slug.
	code, client, err = splitRegistryName("2151.СТР.stroy")
	require.NoError(t, err)
	require.Equal(t, "2151.СТР.stroy", code)
	require.Equal(t, "stroy", client)

	_, _, err = splitRegistryName("не проект")
	require.Error(t, err)
}
