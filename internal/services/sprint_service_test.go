package services

import (
	"testing"

	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCreateSprint(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewSprintService(env.sprintRepo, env.projectRepo)
	// Prepayment date 2025-02-03 is a Monday.
	project := createTestProject(t, env, "2170.ACM.acme")

	sprint, err := svc.CreateSprint(project.ID, CreateSprintInput{
		Phase:         models.PhaseDiscover,
		StartDay:      7,
		EndDay:        14,
		SprintGoal:    "Провести интервью",
		DecisionPoint: "Достаточно ли данных для анализа",
		Deliverables:  []string{"Анализ рынка"},
	})
	require.NoError(t, err)

	require.Equal(t, "DISCOVER-1", sprint.SprintCode)
	require.Equal(t, 7, sprint.DurationDays)
	require.Equal(t, date("2025-02-10"), sprint.StartDate)
	require.Equal(t, date("2025-02-17"), sprint.EndDate)
	require.Equal(t, date("2025-02-17"), sprint.DecisionDay)
	require.Equal(t, "понедельник", sprint.DecisionDayName)
	require.Equal(t, models.SprintPlanned, sprint.Status)

	// Second sprint numbers itself.
	second, err := svc.CreateSprint(project.ID, CreateSprintInput{
		Phase:    models.PhaseDiscover,
		StartDay: 14,
		EndDay:   21,
	})
	require.NoError(t, err)
	require.Equal(t, 2, second.SprintNumber)
	require.Equal(t, "DISCOVER-2", second.SprintCode)
}

func TestCreateSprint_Validation(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewSprintService(env.sprintRepo, env.projectRepo)
	project := createTestProject(t, env, "2170.ACM.acme")

	_, err := svc.CreateSprint(project.ID, CreateSprintInput{
		Phase:    "SPRINT",
		StartDay: 0,
		EndDay:   7,
	})
	require.ErrorIs(t, err, ErrInvalidSprintPhase)

	_, err = svc.CreateSprint(project.ID, CreateSprintInput{
		Phase:    models.PhaseSetup,
		StartDay: 7,
		EndDay:   7,
	})
	require.ErrorIs(t, err, ErrInvalidSprintDays)

	// Below the 3-day minimum.
	_, err = svc.CreateSprint(project.ID, CreateSprintInput{
		Phase:    models.PhaseSetup,
		StartDay: 0,
		EndDay:   2,
	})
	require.ErrorIs(t, err, ErrInvalidSprintDuration)

	// Above the 11-day maximum.
	_, err = svc.CreateSprint(project.ID, CreateSprintInput{
		Phase:    models.PhaseSetup,
		StartDay: 0,
		EndDay:   12,
	})
	require.ErrorIs(t, err, ErrInvalidSprintDuration)

	_, err = svc.CreateSprint(9999, CreateSprintInput{
		Phase:    models.PhaseSetup,
		StartDay: 0,
		EndDay:   7,
	})
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestSprintTasks(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewSprintService(env.sprintRepo, env.projectRepo)
	project := createTestProject(t, env, "2170.ACM.acme")

	sprint, err := svc.CreateSprint(project.ID, CreateSprintInput{
		Phase:    models.PhaseDevelop,
		StartDay: 21,
		EndDay:   28,
	})
	require.NoError(t, err)

	_, err = svc.CreateTask(sprint.ID, CreateSprintTaskInput{
		TaskType: "meeting",
		Title:    "Созвон",
	})
	require.ErrorIs(t, err, ErrInvalidSprintTaskType)

	_, err = svc.CreateTask(sprint.ID, CreateSprintTaskInput{
		TaskType: models.SprintTaskProcess,
	})
	require.ErrorIs(t, err, ErrSprintTitleRequired)

	task, err := svc.CreateTask(sprint.ID, CreateSprintTaskInput{
		TaskType:     models.SprintTaskDeliverable,
		Title:        "Собрать драфт отчета",
		AssignedTo:   "Иванов Иван",
		PlannedHours: 8,
	})
	require.NoError(t, err)
	require.Equal(t, project.ID, task.ProjectID)
	require.Equal(t, models.SprintTaskTodo, task.Status)

	done := models.SprintTaskDone
	updated, err := svc.UpdateTask(task.ID, UpdateSprintTaskInput{Status: &done})
	require.NoError(t, err)
	require.Equal(t, models.SprintTaskDone, updated.Status)
	require.Equal(t, 100, updated.CompletionPercentage)

	tasks, err := svc.ListTasks(sprint.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestUpdateSprint(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewSprintService(env.sprintRepo, env.projectRepo)
	project := createTestProject(t, env, "2170.ACM.acme")

	sprint, err := svc.CreateSprint(project.ID, CreateSprintInput{
		Phase:    models.PhaseDeliver,
		StartDay: 80,
		EndDay:   87,
	})
	require.NoError(t, err)

	active := models.SprintActive
	outcome := "go"
	updated, err := svc.UpdateSprint(sprint.ID, UpdateSprintInput{
		Status:          &active,
		DecisionOutcome: &outcome,
	})
	require.NoError(t, err)
	require.Equal(t, models.SprintActive, updated.Status)
	require.Equal(t, "go", updated.DecisionOutcome)

	bad := models.SprintStatus("paused")
	_, err = svc.UpdateSprint(sprint.ID, UpdateSprintInput{Status: &bad})
	require.Error(t, err)

	_, err = svc.UpdateSprint(9999, UpdateSprintInput{})
	require.ErrorIs(t, err, ErrSprintNotFound)
}
