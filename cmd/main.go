package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Ocelots/config"
	"github.com/lshigami/Ocelots/database"
	_ "github.com/lshigami/Ocelots/docs" // Swagger docs - auto-generated
	adminctrl "github.com/lshigami/Ocelots/internal/controller/admin"
	userctrl "github.com/lshigami/Ocelots/internal/controller/user"
	"github.com/lshigami/Ocelots/internal/logger"
	"github.com/lshigami/Ocelots/internal/middleware"
	"github.com/lshigami/Ocelots/internal/model"
	"github.com/lshigami/Ocelots/internal/repository"
	"github.com/lshigami/Ocelots/internal/service"
	"github.com/rs/zerolog/log" // Global zerolog instance
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Course Completion & Certification API
// @version 1.0
// @description Video-gated MCQ course platform: enrollment lifecycle, test scoring, retake gating and certificate eligibility.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,    // Provides *gorm.DB
			database.NewRedisClient, // Provides *redis.Client (nil without REDIS_ADDR)
			NewGinEngine,            // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewCourseRepository,
			repository.NewEnrollmentRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewScoringService,
			service.NewAuthService,
			service.NewCourseService,
			service.NewEnrollmentService,
			service.NewCertificateService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewCourseController,
			userctrl.NewEnrollmentController,
			adminctrl.NewAdminCourseController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	// Start the application
	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	// Wait for a shutdown signal
	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Request logging through the global zerolog instance
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	// CORS Configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *userctrl.AuthController,
	courseCtrl *userctrl.CourseController,
	enrollmentCtrl *userctrl.EnrollmentController,
	adminCourseCtrl *adminctrl.AdminCourseController,
) {
	apiGroup := router.Group("/api/v1")

	// Public routes
	apiGroup.POST("/auth/register", authCtrl.Register)
	apiGroup.POST("/auth/login", authCtrl.Login)
	apiGroup.GET("/courses", courseCtrl.ListCourses)
	apiGroup.GET("/courses/:id", courseCtrl.GetCourse)

	// Authenticated user routes
	authGroup := apiGroup.Group("")
	authGroup.Use(middleware.AuthRequired(cfg))
	{
		authGroup.GET("/auth/me", authCtrl.Me)

		enrollments := authGroup.Group("/enrollments")
		enrollments.GET("", enrollmentCtrl.GetMyEnrollments)
		enrollments.GET("/certificate-status", enrollmentCtrl.CertificateStatus)
		enrollments.POST("/:course_id", enrollmentCtrl.Enroll)
		enrollments.PATCH("/:course_id/video-watched", enrollmentCtrl.MarkVideoWatched)
		enrollments.GET("/:course_id/test", enrollmentCtrl.GetTest)
		enrollments.POST("/:course_id/test/submit", enrollmentCtrl.SubmitTest)
	}

	// Instructor routes
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(cfg), middleware.InstructorOnly())
	{
		courses := adminGroup.Group("/courses")
		courses.POST("", adminCourseCtrl.CreateCourse)
		courses.GET("", adminCourseCtrl.ListCourses)
		courses.GET("/:id", adminCourseCtrl.GetCourse)
		courses.PUT("/:id", adminCourseCtrl.UpdateCourse)
		courses.PATCH("/:id/publish", adminCourseCtrl.SetPublished)
		courses.DELETE("/:id", adminCourseCtrl.DeleteCourse)
	}

	// HTTP Server Setup and Lifecycle
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Certification API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Question{},
		&model.Enrollment{},
		&model.TestAttempt{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
