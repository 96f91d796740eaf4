package router

import "github.com/gin-gonic/gin"

// Module is a feature area that mounts its own routes under /api. Each
// module carries its handler and the middleware its routes need.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules during startup and mounts them all at once,
// so route registration order lives in one place.
type Registry struct {
	Engine  *gin.Engine
	API     *gin.RouterGroup
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll mounts every added module on the /api group.
func (r *Registry) RegisterAll() {
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
