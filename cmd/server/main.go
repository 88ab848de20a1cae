package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/paperplanes/pm-tool/internal/config"
	"github.com/paperplanes/pm-tool/internal/constants"
	"github.com/paperplanes/pm-tool/internal/database"
	"github.com/paperplanes/pm-tool/internal/handlers"
	"github.com/paperplanes/pm-tool/internal/middleware"
	"github.com/paperplanes/pm-tool/internal/repository"
	"github.com/paperplanes/pm-tool/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the methodology catalog
	if err := database.SeedMethodologies(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed methodology catalog: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup cookie session middleware
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	projectRepo := repository.NewProjectRepository(db)
	methodologyRepo := repository.NewMethodologyRepository(db)
	deliverableRepo := repository.NewDeliverableRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	sprintRepo := repository.NewSprintRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize AI service. The typed interface variables stay nil when
	// no API key is configured so the project service can detect absence.
	var (
		codeGen   services.CodeGenerator
		extractor services.ContractExtractor
		docGen    services.DocumentGenerator
	)
	if cfg.OpenAIAPIKey != "" {
		aiService := services.NewAIService(cfg.OpenAIAPIKey)
		codeGen = aiService
		extractor = aiService
		docGen = aiService
	}

	// Initialize remote folder store
	var folderStore services.FolderStore
	if cfg.DriveAccessToken != "" {
		folderStore = services.NewDriveStore(cfg.DriveAccessToken, cfg.DriveRootID)
	}

	vault := services.NewVaultGenerator(cfg.VaultPath)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(
		projectRepo, methodologyRepo, codeGen, extractor, docGen, vault, folderStore)
	importService := services.NewImportService(projectRepo)
	deliverableService := services.NewDeliverableService(deliverableRepo, methodologyRepo)
	dependencyService := services.NewDependencyService(deliverableRepo)
	checklistService := services.NewChecklistService(checklistRepo)
	sprintService := services.NewSprintService(sprintRepo, projectRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, importService, authService)
	deliverableHandler := handlers.NewDeliverableHandler(deliverableService, dependencyService)
	checklistHandler := handlers.NewChecklistHandler(checklistService, authService)
	sprintHandler := handlers.NewSprintHandler(sprintService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Paper Planes PM Tool is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Methodology catalog (protected, read-only)
		api.GET("/methodologies", middleware.RequireAuth(), projectHandler.ListMethodologies)

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.POST("/generate-code", projectHandler.GenerateCode)
			projects.POST("/extract", projectHandler.ExtractContract)
			projects.POST("/import", projectHandler.ImportRegistry)

			scoped := projects.Group("/:id")
			scoped.Use(middleware.RequireProject())
			{
				scoped.GET("", projectHandler.GetProject)
				scoped.PATCH("", projectHandler.UpdateProject)
				scoped.DELETE("", projectHandler.DeleteProject)

				scoped.GET("/selections", projectHandler.ListSelections)
				scoped.PATCH("/selections/:selectionId", projectHandler.UpdateSelection)
				scoped.GET("/payment-stages", projectHandler.ListPaymentStages)
				scoped.POST("/payment-stages/:stageNumber/advance", projectHandler.AdvancePaymentStage)

				scoped.GET("/deliverables", deliverableHandler.ListDeliverables)
				scoped.POST("/deliverables", deliverableHandler.CreateDeliverable)
				scoped.GET("/dependencies", deliverableHandler.ListDependencies)
				scoped.POST("/dependencies", deliverableHandler.AddDependency)
				scoped.GET("/methodology-tasks", deliverableHandler.ListMethodologyTasks)
				scoped.POST("/methodology-tasks", deliverableHandler.CreateMethodologyTask)
				scoped.GET("/task-dependencies", deliverableHandler.ListTaskDependencies)
				scoped.POST("/task-dependencies", deliverableHandler.AddTaskDependency)

				scoped.GET("/checklist", checklistHandler.GetChecklist)
				scoped.POST("/checklist/:itemNumber/complete", checklistHandler.CompleteItem)
				scoped.POST("/checklist/:itemNumber/approve", checklistHandler.ApproveItem)

				scoped.GET("/sprints", sprintHandler.ListSprints)
				scoped.POST("/sprints", sprintHandler.CreateSprint)
			}
		}

		// Sprint routes (protected, addressed by sprint ID)
		sprints := api.Group("/sprints")
		sprints.Use(middleware.RequireAuth())
		{
			sprints.GET("/:sprintId", sprintHandler.GetSprint)
			sprints.PATCH("/:sprintId", sprintHandler.UpdateSprint)
			sprints.GET("/:sprintId/tasks", sprintHandler.ListSprintTasks)
			sprints.POST("/:sprintId/tasks", sprintHandler.CreateSprintTask)
		}

		// Sprint task routes (protected)
		api.PATCH("/sprint-tasks/:taskId", middleware.RequireAuth(), sprintHandler.UpdateSprintTask)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
