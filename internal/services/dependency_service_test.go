package services

import (
	"testing"

	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/stretchr/testify/require"
)

func createDeliverables(t *testing.T, env testEnv, projectID uint64, titles ...string) []uint64 {
	t.Helper()
	ids := make([]uint64, len(titles))
	for i, title := range titles {
		d := &models.Deliverable{ProjectID: projectID, Title: title}
		require.NoError(t, env.deliverableRepo.CreateDeliverable(d))
		ids[i] = d.ID
	}
	return ids
}

func TestAddDeliverableDependency(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewDependencyService(env.deliverableRepo)
	project := createTestProject(t, env, "2170.ACM.acme")
	ids := createDeliverables(t, env, project.ID, "Анализ рынка", "Стратегия", "Дорожная карта")

	dep, err := svc.AddDeliverableDependency(AddDependencyInput{
		ProjectID:     project.ID,
		PredecessorID: ids[0],
		SuccessorID:   ids[1],
	})
	require.NoError(t, err)
	require.Equal(t, models.DependencyFinishToStart, dep.Type)

	_, err = svc.AddDeliverableDependency(AddDependencyInput{
		ProjectID:     project.ID,
		PredecessorID: ids[1],
		SuccessorID:   ids[2],
		Type:          models.DependencyStartToStart,
		LagDays:       2,
	})
	require.NoError(t, err)

	deps, err := svc.ListDeliverableDependencies(project.ID)
	require.NoError(t, err)
	require.Len(t, deps, 2)
}

func TestAddDeliverableDependency_RejectsSelf(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewDependencyService(env.deliverableRepo)
	project := createTestProject(t, env, "2170.ACM.acme")
	ids := createDeliverables(t, env, project.ID, "Анализ рынка")

	_, err := svc.AddDeliverableDependency(AddDependencyInput{
		ProjectID:     project.ID,
		PredecessorID: ids[0],
		SuccessorID:   ids[0],
	})
	require.ErrorIs(t, err, ErrSelfDependency)
}

func TestAddDeliverableDependency_RejectsCrossProject(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewDependencyService(env.deliverableRepo)
	projectA := createTestProject(t, env, "2170.ACM.acme")
	projectB := createTestProject(t, env, "2171.BNK.bank")
	idsA := createDeliverables(t, env, projectA.ID, "Анализ рынка")
	idsB := createDeliverables(t, env, projectB.ID, "Стратегия")

	_, err := svc.AddDeliverableDependency(AddDependencyInput{
		ProjectID:     projectA.ID,
		PredecessorID: idsA[0],
		SuccessorID:   idsB[0],
	})
	require.ErrorIs(t, err, ErrCrossProjectDep)
}

func TestAddDeliverableDependency_RejectsCycle(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewDependencyService(env.deliverableRepo)
	project := createTestProject(t, env, "2170.ACM.acme")
	ids := createDeliverables(t, env, project.ID, "A", "B", "C")

	for _, edge := range [][2]uint64{{ids[0], ids[1]}, {ids[1], ids[2]}} {
		_, err := svc.AddDeliverableDependency(AddDependencyInput{
			ProjectID:     project.ID,
			PredecessorID: edge[0],
			SuccessorID:   edge[1],
		})
		require.NoError(t, err)
	}

	// Closing the loop C -> A must be rejected.
	_, err := svc.AddDeliverableDependency(AddDependencyInput{
		ProjectID:     project.ID,
		PredecessorID: ids[2],
		SuccessorID:   ids[0],
	})
	require.ErrorIs(t, err, ErrDependencyCycle)

	// A parallel edge that does not close a cycle is still fine.
	_, err = svc.AddDeliverableDependency(AddDependencyInput{
		ProjectID:     project.ID,
		PredecessorID: ids[0],
		SuccessorID:   ids[2],
	})
	require.NoError(t, err)
}

func TestAddDeliverableDependency_RejectsBadType(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewDependencyService(env.deliverableRepo)
	project := createTestProject(t, env, "2170.ACM.acme")
	ids := createDeliverables(t, env, project.ID, "A", "B")

	_, err := svc.AddDeliverableDependency(AddDependencyInput{
		ProjectID:     project.ID,
		PredecessorID: ids[0],
		SuccessorID:   ids[1],
		Type:          "XX",
	})
	require.ErrorIs(t, err, ErrInvalidDependencyType)
}

func TestAddDeliverableDependency_UnknownDeliverable(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewDependencyService(env.deliverableRepo)
	project := createTestProject(t, env, "2170.ACM.acme")
	ids := createDeliverables(t, env, project.ID, "A")

	_, err := svc.AddDeliverableDependency(AddDependencyInput{
		ProjectID:     project.ID,
		PredecessorID: ids[0],
		SuccessorID:   9999,
	})
	require.ErrorIs(t, err, ErrDeliverableNotFound)
}

func TestAddMethodologyTaskDependency_CycleAndScope(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewDependencyService(env.deliverableRepo)
	project := createTestProject(t, env, "2170.ACM.acme")
	ids := createDeliverables(t, env, project.ID, "Анализ рынка")

	taskIDs := make([]uint64, 3)
	for i, title := range []string{"Гайд интервью", "Проведение интервью", "Отчет"} {
		task := &models.MethodologyTask{
			ProjectID:       project.ID,
			DeliverableID:   ids[0],
			MethodologyCode: "БПМ2",
			Title:           title,
			Order:           i + 1,
		}
		require.NoError(t, env.deliverableRepo.CreateMethodologyTask(task))
		taskIDs[i] = task.ID
	}

	for _, edge := range [][2]uint64{{taskIDs[0], taskIDs[1]}, {taskIDs[1], taskIDs[2]}} {
		_, err := svc.AddMethodologyTaskDependency(AddDependencyInput{
			ProjectID:     project.ID,
			PredecessorID: edge[0],
			SuccessorID:   edge[1],
		})
		require.NoError(t, err)
	}

	_, err := svc.AddMethodologyTaskDependency(AddDependencyInput{
		ProjectID:     project.ID,
		PredecessorID: taskIDs[2],
		SuccessorID:   taskIDs[0],
	})
	require.ErrorIs(t, err, ErrDependencyCycle)

	deps, err := svc.ListMethodologyTaskDependencies(project.ID)
	require.NoError(t, err)
	require.Len(t, deps, 2)
}
