package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/fastygo/taskflow/api/handler"
)

type Handlers struct {
	Health   *apiHandler.HealthHandler
	Task     *apiHandler.TaskHandler
	Calendar *apiHandler.CalendarHandler
	Profile  *apiHandler.ProfileHandler
	Store    *apiHandler.StoreHandler
	Settings *apiHandler.SettingsHandler
	Data     *apiHandler.DataHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	api := r.Group("/api/v1")

	api.GET("/tasks", handlers.Task.GetTasks)
	api.POST("/tasks", handlers.Task.CreateTask)
	api.GET("/tasks/{id}", handlers.Task.GetTask)
	api.PUT("/tasks/{id}", handlers.Task.UpdateTask)
	api.DELETE("/tasks/{id}", handlers.Task.DeleteTask)
	api.POST("/tasks/{id}/toggle", handlers.Task.ToggleTask)

	api.GET("/calendar", handlers.Calendar.GetMonth)
	api.GET("/profile", handlers.Profile.GetProfile)

	api.GET("/store", handlers.Store.GetCatalog)
	api.POST("/store/{id}/purchase", handlers.Store.Purchase)

	api.GET("/settings", handlers.Settings.GetSettings)
	api.PATCH("/settings", handlers.Settings.PatchSettings)

	api.GET("/data/export", handlers.Data.Export)
	api.DELETE("/data", handlers.Data.Clear)

	return r
}
