package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/paperplanes/pm-tool/internal/constants"
	"github.com/paperplanes/pm-tool/internal/database"
	"github.com/paperplanes/pm-tool/internal/middleware"
	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/repository"
	"github.com/paperplanes/pm-tool/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRouter wires the handlers onto a fresh in-memory database the way
// cmd/server does, minus the AI and remote-store collaborators.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	projectRepo := repository.NewProjectRepository(db)
	methodologyRepo := repository.NewMethodologyRepository(db)
	deliverableRepo := repository.NewDeliverableRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	userRepo := repository.NewUserRepository(db)

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(
		projectRepo, methodologyRepo, nil, nil, nil,
		services.NewVaultGenerator(t.TempDir()), nil)
	importService := services.NewImportService(projectRepo)
	deliverableService := services.NewDeliverableService(deliverableRepo, methodologyRepo)
	dependencyService := services.NewDependencyService(deliverableRepo)
	checklistService := services.NewChecklistService(checklistRepo)

	authHandler := NewAuthHandler(authService)
	projectHandler := NewProjectHandler(projectService, importService, authService)
	deliverableHandler := NewDeliverableHandler(deliverableService, dependencyService)
	checklistHandler := NewChecklistHandler(checklistService, authService)

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	api := r.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)

	projects := api.Group("/projects")
	projects.Use(middleware.RequireAuth())
	projects.GET("", projectHandler.ListProjects)
	projects.POST("", projectHandler.CreateProject)

	scoped := projects.Group("/:id")
	scoped.Use(middleware.RequireProject())
	scoped.GET("", projectHandler.GetProject)
	scoped.GET("/deliverables", deliverableHandler.ListDeliverables)
	scoped.POST("/dependencies", deliverableHandler.AddDependency)
	scoped.GET("/checklist", checklistHandler.GetChecklist)
	scoped.POST("/checklist/:itemNumber/complete", checklistHandler.CompleteItem)
	scoped.POST("/checklist/:itemNumber/approve", checklistHandler.ApproveItem)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// loginAs registers a user and returns the session cookies.
func loginAs(t *testing.T, r *gin.Engine, username, displayName string) []*http.Cookie {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", gin.H{
		"username":     username,
		"password":     "password123",
		"display_name": displayName,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"username": username,
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	return w.Result().Cookies()
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func createProjectBody(code string) gin.H {
	return gin.H{
		"project_code": code,
		"name":         "Маркетинговая стратегия Acme",
		"client":       "Acme Corp",
		"group":        "right",
		"project_type": "new",
		"start_date":   "2025-02-03",
		"end_date":     "2025-05-05",
		"extracted_data": gin.H{
			"budget": gin.H{"total": 1000000, "currency": "RUB", "vat_included": true, "vat_rate": 20},
			"payment_stages": []gin.H{
				{"stage_number": 1, "amount": 600000, "description": "Аванс", "trigger": "Подписание"},
				{"stage_number": 2, "amount": 400000, "description": "Финал", "trigger": "Сдача работ"},
			},
			"duration": gin.H{"weeks": 12, "start_date": "2025-02-03", "end_date": "2025-05-05"},
			"deliverables": []gin.H{
				{"number": "3.1", "title": "Анализ рынка"},
				{"number": "3.2", "title": "Стратегия выхода"},
			},
			"confidence_score": 95,
		},
	}
}

// createProjectVia posts a project and returns its ID.
func createProjectVia(t *testing.T, r *gin.Engine, cookies []*http.Cookie, code string) uint64 {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/projects", createProjectBody(code), cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Project struct {
			ID uint64 `json:"id"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.Project.ID)
	return resp.Project.ID
}

func TestProjects_RequireAuth(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/projects", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "UNAUTHORIZED", errorCode(t, w))
}

func TestCreateProject_DuplicateCodeConflict(t *testing.T) {
	r := setupRouter(t)
	cookies := loginAs(t, r, "manager", "Иванов Иван")

	createProjectVia(t, r, cookies, "2170.ACM.acme")

	body := createProjectBody("2170.ACM.acme")
	body["client"] = "Другой клиент"
	w := doJSON(t, r, http.MethodPost, "/api/projects", body, cookies)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "CONFLICT", errorCode(t, w))
}

func TestAddDependency_StatusMapping(t *testing.T) {
	r := setupRouter(t)
	cookies := loginAs(t, r, "manager", "Иванов Иван")
	projectID := createProjectVia(t, r, cookies, "2170.ACM.acme")
	base := fmt.Sprintf("/api/projects/%d", projectID)

	w := doJSON(t, r, http.MethodGet, base+"/deliverables", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Deliverables []struct {
			ID uint64 `json:"id"`
		} `json:"deliverables"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Deliverables, 2)
	first, second := list.Deliverables[0].ID, list.Deliverables[1].ID

	w = doJSON(t, r, http.MethodPost, base+"/dependencies", gin.H{
		"predecessor_id": first,
		"successor_id":   second,
		"type":           "FS",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	// The reverse edge closes a cycle.
	w = doJSON(t, r, http.MethodPost, base+"/dependencies", gin.H{
		"predecessor_id": second,
		"successor_id":   first,
	}, cookies)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "INVALID_OPERATION", errorCode(t, w))

	w = doJSON(t, r, http.MethodPost, base+"/dependencies", gin.H{
		"predecessor_id": first,
		"successor_id":   first,
	}, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/projects/9999/dependencies", gin.H{
		"predecessor_id": first,
		"successor_id":   second,
	}, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestChecklist_ApproverGate(t *testing.T) {
	r := setupRouter(t)
	cookies := loginAs(t, r, "manager", "Иванов Иван")
	projectID := createProjectVia(t, r, cookies, "2170.ACM.acme")
	base := fmt.Sprintf("/api/projects/%d/checklist", projectID)

	w := doJSON(t, r, http.MethodPost, base+"/1/complete", gin.H{
		"proof_url": "https://t.me/chat/123",
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	// Completion actor is not on the approver list.
	w = doJSON(t, r, http.MethodPost, base+"/1/approve", gin.H{}, cookies)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "FORBIDDEN", errorCode(t, w))

	approver := loginAs(t, r, "partner", "Балахнин Илья")
	w = doJSON(t, r, http.MethodPost, base+"/1/approve", gin.H{}, approver)
	require.Equal(t, http.StatusOK, w.Code)

	// Approving twice is a state-machine violation.
	w = doJSON(t, r, http.MethodPost, base+"/1/approve", gin.H{}, approver)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "INVALID_OPERATION", errorCode(t, w))
}
