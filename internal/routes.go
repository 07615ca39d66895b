package internal

import (
	"coursetrack/internal/controllers"
	"coursetrack/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/courses", http.HandlerFunc(apiController.ListCourses))
	routers.Post("/courses", http.HandlerFunc(apiController.AddCourse))
	routers.Get("/course", http.HandlerFunc(apiController.GetCourse))
	routers.Delete("/course", http.HandlerFunc(apiController.DeleteCourse))
	routers.Post("/progress", http.HandlerFunc(apiController.ReportProgress))
	routers.Get("/schedule", http.HandlerFunc(apiController.GetSchedule))
	routers.Post("/schedule", http.HandlerFunc(apiController.SetSchedule))
	routers.Get("/balance", http.HandlerFunc(apiController.GetBalance))
	routers.Get("/forecast", http.HandlerFunc(apiController.GetForecast))
	routers.Get("/summary", http.HandlerFunc(apiController.GetSummary))
	routers.Get("/activity", http.HandlerFunc(apiController.GetActivity))
	return routers
}
