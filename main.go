// File: schedulingengine/main.go
package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"schedulingengine/config"
	"schedulingengine/cron"
	"schedulingengine/database"
	"schedulingengine/database/repository/scenario"
	"schedulingengine/handlers"
	"schedulingengine/internal/engine"
	"schedulingengine/internal/store/mongostore"
	"schedulingengine/routes"
	"schedulingengine/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	scenarios, err := scenario.NewFileRepository(config.AppConfig.ScenarioFixturePath)
	if err != nil {
		logger.Sugar().Warnf("no scenario fixture loaded from %s: %v", config.AppConfig.ScenarioFixturePath, err)
		scenarios = nil
	}

	var store engine.ReservationStore = engine.NewMemStore()
	if config.AppConfig.DatabaseURL != "" {
		database.InitDB()
		store = mongostore.New(database.MongoClient.Database("scheduling"))
		logger.Info("using mongo-backed reservation store")
	} else {
		logger.Info("using in-memory reservation store")
	}

	var scenarioRepo engine.ScenarioRepository
	if scenarios != nil {
		scenarioRepo = scenarios
	}

	eng := engine.New(store, nil, nil, nil, scenarioRepo)
	handlers.Engine = eng

	if config.AppConfig.RedisAddr != "" {
		cron.InitRescheduleWorker(eng, 30*time.Second)
	}

	if database.MongoClient != nil {
		healthRedis := redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisRescheduleQueueDB,
		})
		utils.StartHealthMonitor([]*redis.Client{healthRedis}, database.MongoClient)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	routes.RegisterRoutes(router)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	logger.Sugar().Infof("starting server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}
