package api

import (
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/repository"
	"jadwal/program-vault/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every endpoint onto the router. Legacy paths like
// /getPrograms are kept verbatim so existing clients keep working.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	userRepo repository.UserRepository,
	authService service.AuthService,
	programService service.ProgramService,
	userService service.UserService,
	adminService service.AdminService,
	categoryService service.CategoryService,
) {
	authHandler := NewAuthHandler(authService)
	programHandler := NewProgramHandler(programService)
	userHandler := NewUserHandler(userService)
	adminHandler := NewAdminHandler(adminService)
	categoryHandler := NewCategoryHandler(categoryService)

	requireAuth := AuthMiddleware(jwtSecret, userRepo)
	optionalAuth := OptionalAuthMiddleware(jwtSecret, userRepo)
	requireAdmin := RoleMiddleware(domain.RoleAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// --- Public catalog (optional identity widens visibility) ---
	router.GET("/getPrograms", optionalAuth, programHandler.ListPrograms)
	router.GET("/getCategories", categoryHandler.ListCategories)
	router.GET("/programs/:id", optionalAuth, programHandler.GetProgram)
	router.POST("/programs", optionalAuth, programHandler.CreateProgram)
	router.POST("/programs/:id/rating", requireAuth, programHandler.RateProgram)
	router.POST("/programs/:id/programInfo", requireAuth, programHandler.ReplaceProgramInfo)
	router.POST("/categories", requireAuth, requireAdmin, adminHandler.CreateCategory)

	// --- Auth ---
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/admin/login", authHandler.AdminLogin)
		authGroup.GET("/me", requireAuth, authHandler.Me)
		authGroup.POST("/logout", requireAuth, authHandler.Logout)
	}

	// --- Profile and vault ---
	userGroup := router.Group("/api/users")
	userGroup.Use(requireAuth)
	{
		userGroup.PATCH("/updateProfile", userHandler.UpdateProfile)
		userGroup.PATCH("/changePassword", userHandler.ChangePassword)
		userGroup.PATCH("/changeEmail", userHandler.ChangeEmail)
		userGroup.POST("/uploadProfileImage", userHandler.UploadProfileImage)

		userGroup.GET("/:id/saved-programs", userHandler.GetSavedPrograms)
		userGroup.POST("/:id/saved-programs", userHandler.AddSavedProgram)
		userGroup.DELETE("/:id/saved-programs/:savedId", userHandler.RemoveSavedProgram)
	}

	// --- Moderation ---
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(requireAuth, requireAdmin)
	{
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.PATCH("/banUser/:id", adminHandler.BanUser)
		adminGroup.PATCH("/unbanUser/:id", adminHandler.UnbanUser)
		adminGroup.PATCH("/updateUserRole/:id", adminHandler.UpdateUserRole)

		adminGroup.GET("/programs", adminHandler.ListPrograms)
		adminGroup.POST("/createProgram", adminHandler.CreateProgram)
		adminGroup.PATCH("/editProgram/:id", adminHandler.EditProgram)
		adminGroup.DELETE("/deleteProgram/:id", adminHandler.DeleteProgram)
	}
}
