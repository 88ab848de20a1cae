package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
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

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func graphFixture(code string) *ProjectGraph {
	project := &models.Project{
		ProjectCode:    code,
		Name:           "Проект " + code,
		Client:         "Клиент " + code,
		Group:          models.GroupLeft,
		Type:           models.ProjectTypeNew,
		Status:         models.ProjectStatusSetup,
		StartDate:      mustDate("2025-02-03"),
		EndDate:        mustDate("2025-05-05"),
		PrepaymentDate: mustDate("2025-02-03"),
	}
	return &ProjectGraph{
		Project: project,
		PaymentStages: []models.PaymentStage{
			{StageNumber: 1, Amount: 600000, Status: models.PaymentPending, IsFromContract: true},
			{StageNumber: 2, Amount: 400000, Status: models.PaymentPending, IsFromContract: true},
		},
		Deliverables: []models.Deliverable{
			{Number: "3.1", Title: "Анализ рынка", IsFromContract: true},
			{Number: "3.2", Title: "Стратегия", IsFromContract: true},
		},
		Dependencies: []DependencySpec{
			{PredecessorIndex: 0, SuccessorIndex: 1, Type: models.DependencyFinishToStart},
		},
	}
}

func TestCreateGraph_ResolvesDependencyIndices(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProjectRepository(db)

	graph := graphFixture("2170.ACM.acme")
	require.NoError(t, repo.CreateGraph(graph))
	require.NotZero(t, graph.Project.ID)

	var deps []models.TaskDependency
	require.NoError(t, db.Where("project_id = ?", graph.Project.ID).Find(&deps).Error)
	require.Len(t, deps, 1)
	require.Equal(t, graph.Deliverables[0].ID, deps[0].PredecessorID)
	require.Equal(t, graph.Deliverables[1].ID, deps[0].SuccessorID)
}

func TestCreateGraph_DuplicateCode(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProjectRepository(db)

	require.NoError(t, repo.CreateGraph(graphFixture("2170.ACM.acme")))

	err := repo.CreateGraph(graphFixture("2170.ACM.acme"))
	require.ErrorIs(t, err, ErrDuplicateProjectCode)

	// The failed transaction left no orphans behind.
	var count int64
	require.NoError(t, db.Model(&models.PaymentStage{}).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestLastProjectNumber(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProjectRepository(db)

	last, err := repo.LastProjectNumber()
	require.NoError(t, err)
	require.Equal(t, 0, last)

	require.NoError(t, repo.CreateGraph(graphFixture("2170.ACM.acme")))
	require.NoError(t, repo.CreateGraph(graphFixture("2168.БНК.bank")))

	last, err = repo.LastProjectNumber()
	require.NoError(t, err)
	require.Equal(t, 2170, last)
}

// The mocked variant pins down the generated query and the handling of
// codes that do not parse.
func TestLastProjectNumber_IgnoresMalformedCodes(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"project_code"}).
		AddRow("2170.ACM.acme").
		AddRow("legacy-code").
		AddRow("2165.БНК.bank")
	mock.ExpectQuery("SELECT `project_code` FROM `projects`").WillReturnRows(rows)

	repo := NewProjectRepository(db)
	last, err := repo.LastProjectNumber()
	require.NoError(t, err)
	require.Equal(t, 2170, last)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFiltersAndPagination(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProjectRepository(db)

	codes := []string{"2170.ACM.acme", "2171.БНК.bank", "2172.СТР.stroy"}
	for i, code := range codes {
		graph := graphFixture(code)
		if i == 2 {
			graph.Project.Group = models.GroupRight
			graph.Project.Status = models.ProjectStatusActive
		}
		require.NoError(t, repo.CreateGraph(graph))
	}

	projects, total, err := repo.List(ProjectFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, projects, 2)

	right := models.GroupRight
	projects, total, err = repo.List(ProjectFilter{Group: &right})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "2172.СТР.stroy", projects[0].ProjectCode)

	active := models.ProjectStatusActive
	_, total, err = repo.List(ProjectFilter{Status: &active})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
}

func TestDeleteRemovesDependents(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProjectRepository(db)

	graph := graphFixture("2170.ACM.acme")
	require.NoError(t, repo.CreateGraph(graph))

	require.NoError(t, repo.Delete(graph.Project.ID))

	var count int64
	require.NoError(t, db.Model(&models.Deliverable{}).Where("project_id = ?", graph.Project.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&models.TaskDependency{}).Where("project_id = ?", graph.Project.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestExistsByClient(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProjectRepository(db)

	require.NoError(t, repo.CreateGraph(graphFixture("2170.ACM.acme")))

	exists, err := repo.ExistsByClient("Клиент 2170.ACM.acme")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsByClient("Никто")
	require.NoError(t, err)
	require.False(t, exists)
}
