package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/paperplanes/pm-tool/internal/constants"
	"github.com/paperplanes/pm-tool/internal/database"
	apierrors "github.com/paperplanes/pm-tool/internal/errors"
	"github.com/paperplanes/pm-tool/internal/models"
)

// RequireProject resolves the :id URL parameter to a project and stores
// it in the request context. Unknown IDs end the request with 404.
func RequireProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, id).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject retrieves the project placed in context by RequireProject.
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}
