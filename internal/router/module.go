package router

import "github.com/gin-gonic/gin"

// Module is a feature area (auth, users, tasks, debug) that mounts its routes
// on the versioned API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
