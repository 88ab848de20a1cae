package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/paperplanes/pm-tool/internal/database"
	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db              *gorm.DB
	projectRepo     repository.ProjectRepository
	methodologyRepo repository.MethodologyRepository
	deliverableRepo repository.DeliverableRepository
	checklistRepo   repository.ChecklistRepository
	sprintRepo      repository.SprintRepository
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectDocument{},
		&models.Methodology{},
		&models.MethodologySelection{},
		&models.PaymentStage{},
		&models.Deliverable{},
		&models.TaskDependency{},
		&models.MethodologyTask{},
		&models.MethodologyTaskDependency{},
		&models.Sprint{},
		&models.SprintTask{},
		&models.SetupChecklistItem{},
	)
	require.NoError(t, err)

	require.NoError(t, database.SeedMethodologies(db))
	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:              db,
		projectRepo:     repository.NewProjectRepository(db),
		methodologyRepo: repository.NewMethodologyRepository(db),
		deliverableRepo: repository.NewDeliverableRepository(db),
		checklistRepo:   repository.NewChecklistRepository(db),
		sprintRepo:      repository.NewSprintRepository(db),
	}
}

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

// createTestProject commits a minimal project graph directly through the
// repository.
func createTestProject(t *testing.T, env testEnv, code string) *models.Project {
	t.Helper()

	project := &models.Project{
		ProjectCode:    code,
		Name:           "Test project " + code,
		Client:         "Client " + code,
		Group:          models.GroupLeft,
		Type:           models.ProjectTypeNew,
		Status:         models.ProjectStatusSetup,
		StartDate:      date("2025-02-03"),
		EndDate:        date("2025-05-05"),
		PrepaymentDate: date("2025-02-03"),
	}
	require.NoError(t, env.projectRepo.CreateGraph(&repository.ProjectGraph{Project: project}))
	return project
}

// Fakes for the AI and remote-store collaborators.

type fakeCodeGen struct {
	code *GeneratedCode
	err  error
}

func (f *fakeCodeGen) GenerateProjectCode(ctx context.Context, clientName string, lastNumber int) (*GeneratedCode, error) {
	return f.code, f.err
}

type fakeDocGen struct {
	fail bool
}

func (f *fakeDocGen) GenerateAdminscale(ctx context.Context, project *models.Project, data *models.ExtractedData) (string, error) {
	if f.fail {
		return "", errors.New("model unavailable")
	}
	return "# " + project.ProjectCode + ": адмшкала\n", nil
}

func (f *fakeDocGen) GeneratePERT(ctx context.Context, project *models.Project, data *models.ExtractedData) (string, error) {
	if f.fail {
		return "", errors.New("model unavailable")
	}
	return "# " + project.ProjectCode + " - PERT\n", nil
}

type fakeUpload struct {
	path     string
	parentID string
}

type fakeFolderStore struct {
	fail    bool
	folders map[string]*RemoteFolder
	uploads []fakeUpload
	nextID  int
}

func newFakeFolderStore() *fakeFolderStore {
	return &fakeFolderStore{folders: map[string]*RemoteFolder{}}
}

func (f *fakeFolderStore) key(name, parentID string) string {
	return parentID + "/" + name
}

func (f *fakeFolderStore) FindFolder(ctx context.Context, name, parentID string) (*RemoteFolder, error) {
	if f.fail {
		return nil, errors.New("remote store unreachable")
	}
	return f.folders[f.key(name, parentID)], nil
}

func (f *fakeFolderStore) CreateFolder(ctx context.Context, name, parentID string) (*RemoteFolder, error) {
	if f.fail {
		return nil, errors.New("remote store unreachable")
	}
	f.nextID++
	folder := &RemoteFolder{
		ID:  fmt.Sprintf("folder-%d", f.nextID),
		URL: fmt.Sprintf("https://drive.example.com/%d", f.nextID),
	}
	f.folders[f.key(name, parentID)] = folder
	return folder, nil
}

func (f *fakeFolderStore) GetOrCreateFolder(ctx context.Context, name, parentID string) (*RemoteFolder, error) {
	existing, err := f.FindFolder(ctx, name, parentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return f.CreateFolder(ctx, name, parentID)
}

func (f *fakeFolderStore) UploadFile(ctx context.Context, localPath, parentID, name string) (*RemoteFolder, error) {
	if f.fail {
		return nil, errors.New("remote store unreachable")
	}
	f.uploads = append(f.uploads, fakeUpload{path: localPath, parentID: parentID})
	return &RemoteFolder{ID: "file-1", URL: "https://drive.example.com/file-1"}, nil
}

// uploadParents indexes recorded uploads by file base name.
func (f *fakeFolderStore) uploadParents() map[string]string {
	parents := make(map[string]string, len(f.uploads))
	for _, u := range f.uploads {
		parents[filepath.Base(u.path)] = u.parentID
	}
	return parents
}
