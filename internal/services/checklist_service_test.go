package services

import (
	"testing"

	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/repository"
	"github.com/stretchr/testify/require"
)

func createProjectWithChecklist(t *testing.T, env testEnv) *models.Project {
	t.Helper()

	project := &models.Project{
		ProjectCode:    "2170.ACM.acme",
		Name:           "Test",
		Client:         "Acme Corp",
		Group:          models.GroupLeft,
		Type:           models.ProjectTypeNew,
		Status:         models.ProjectStatusSetup,
		StartDate:      date("2025-02-03"),
		EndDate:        date("2025-05-05"),
		PrepaymentDate: date("2025-02-03"),
	}
	graph := &repository.ProjectGraph{Project: project}
	for _, tmpl := range models.ChecklistTemplate {
		graph.Checklist = append(graph.Checklist, models.SetupChecklistItem{
			ItemNumber:  tmpl.ItemNumber,
			Title:       tmpl.Title,
			Description: tmpl.Description,
		})
	}
	require.NoError(t, env.projectRepo.CreateGraph(graph))
	return project
}

func TestGetChecklist(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewChecklistService(env.checklistRepo)
	project := createProjectWithChecklist(t, env)

	progress, err := svc.GetChecklist(project.ID)
	require.NoError(t, err)
	require.Equal(t, 10, progress.Total)
	require.Equal(t, 0, progress.Completed)
	require.Equal(t, 0, progress.Approved)
	require.False(t, progress.Done)
}

func TestCompleteItem(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewChecklistService(env.checklistRepo)
	project := createProjectWithChecklist(t, env)

	item, err := svc.CompleteItem(project.ID, 1, CompleteItemInput{
		CompletedBy: "Иванов Иван",
		ProofURL:    "https://t.me/chat/123",
		Notes:       "Чат создан",
	})
	require.NoError(t, err)
	require.True(t, item.IsCompleted)
	require.Equal(t, models.ChecklistCompleted, item.State())
	require.Equal(t, models.ProofLink, item.ProofType)
	require.NotNil(t, item.CompletedAt)

	// Completion is one-way.
	_, err = svc.CompleteItem(project.ID, 1, CompleteItemInput{CompletedBy: "Иванов Иван"})
	require.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCompleteItem_Validation(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewChecklistService(env.checklistRepo)
	project := createProjectWithChecklist(t, env)

	_, err := svc.CompleteItem(project.ID, 1, CompleteItemInput{})
	require.ErrorIs(t, err, ErrActorRequired)

	_, err = svc.CompleteItem(project.ID, 1, CompleteItemInput{
		CompletedBy: "Иванов Иван",
		ProofURL:    "https://example.com",
		ProofFileID: "file-1",
	})
	require.ErrorIs(t, err, ErrAmbiguousProof)

	_, err = svc.CompleteItem(project.ID, 42, CompleteItemInput{CompletedBy: "Иванов Иван"})
	require.ErrorIs(t, err, ErrChecklistItemNotFound)
}

func TestApproveItem(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewChecklistService(env.checklistRepo)
	project := createProjectWithChecklist(t, env)

	// Approval requires prior completion.
	_, err := svc.ApproveItem(project.ID, 1, "Балахнин Илья")
	require.ErrorIs(t, err, ErrNotCompleted)

	_, err = svc.CompleteItem(project.ID, 1, CompleteItemInput{CompletedBy: "Иванов Иван"})
	require.NoError(t, err)

	// Only the fixed approver list may sign off.
	_, err = svc.ApproveItem(project.ID, 1, "Иванов Иван")
	require.ErrorIs(t, err, ErrNotAnApprover)

	item, err := svc.ApproveItem(project.ID, 1, "Балахнин Илья")
	require.NoError(t, err)
	require.Equal(t, models.ChecklistApproved, item.State())
	require.Equal(t, "Балахнин Илья", item.ApprovedBy)
	require.NotNil(t, item.ApprovedAt)

	_, err = svc.ApproveItem(project.ID, 1, "Балахнин Илья")
	require.ErrorIs(t, err, ErrAlreadyApproved)
}

func TestChecklistDoneWhenAllApproved(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewChecklistService(env.checklistRepo)
	project := createProjectWithChecklist(t, env)

	for i := 1; i <= 10; i++ {
		_, err := svc.CompleteItem(project.ID, i, CompleteItemInput{CompletedBy: "Иванов Иван"})
		require.NoError(t, err)
		_, err = svc.ApproveItem(project.ID, i, "Кудовеков Сергей")
		require.NoError(t, err)
	}

	progress, err := svc.GetChecklist(project.ID)
	require.NoError(t, err)
	require.Equal(t, 10, progress.Completed)
	require.Equal(t, 10, progress.Approved)
	require.True(t, progress.Done)
}
