package main

import (
	"flag"
	"log"

	"github.com/redis/go-redis/v9"
	"k8s.io/klog/v2"

	"github.com/educado/backend/config"
	"github.com/educado/backend/internal/handler"
	"github.com/educado/backend/internal/pkg/cache"
	"github.com/educado/backend/internal/pkg/database"
	"github.com/educado/backend/internal/pkg/security"
	"github.com/educado/backend/internal/pkg/storage"
	"github.com/educado/backend/internal/repository"
	"github.com/educado/backend/internal/router"
	"github.com/educado/backend/internal/service"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 上传目录
	store, err := storage.NewFileStore(cfg.Data.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

	// Redis 未启用时缓存直接透传
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
	}
	catalogCache := cache.NewCatalogCache(redisClient, cfg.Redis.CacheTTL)

	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	contentRepo := repository.NewContentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, tokens)
	courseService := service.NewCourseService(courseRepo, subjectRepo, userRepo, catalogCache)
	moduleService := service.NewModuleService(moduleRepo, courseRepo, catalogCache)
	contentService := service.NewContentService(contentRepo, moduleRepo, courseRepo, catalogCache)
	catalogService := service.NewCatalogService(courseRepo, subjectRepo, catalogCache)
	studentService := service.NewStudentService(enrollmentRepo, courseRepo, moduleRepo, contentRepo)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	courseHandler := handler.NewCourseHandler(courseService, moduleService)
	contentHandler := handler.NewContentHandler(contentService, store)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	studentHandler := handler.NewStudentHandler(studentService)

	// 设置路由
	r := router.Setup(cfg, tokens, authHandler, courseHandler, contentHandler, catalogHandler, studentHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
