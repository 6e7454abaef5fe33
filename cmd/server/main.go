package main

import (
	"log"
	"net/http"

	"serendip/backend/internal/auth"
	"serendip/backend/internal/config"
	"serendip/backend/internal/database"
	"serendip/backend/internal/embedding"
	"serendip/backend/internal/handler"
	"serendip/backend/internal/logging"
	"serendip/backend/internal/repository"
	"serendip/backend/internal/service"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "serendip/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Serendip API
// @version         1.0
// @description     Matching and social-graph engine for the Serendip service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	logger, err := logging.New(config.AppConfig.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db := database.Connect(config.AppConfig.DatabaseURL)
	repo := repository.New(db)

	// The lexical provider is the in-process similarity fallback; a vector
	// backend can be swapped in here without touching the engine.
	provider := embedding.NewLexical()

	policy := service.MatchPolicy{
		EmbeddingWeight:   config.AppConfig.EmbeddingWeight,
		NetworkWeight:     config.AppConfig.NetworkWeight,
		FirstDegreeBoost:  config.AppConfig.FirstDegreeBoost,
		SecondDegreeBoost: config.AppConfig.SecondDegreeBoost,
		TopK:              config.AppConfig.MatchTopK,
	}

	graphSvc := service.NewGraphService(repo, repo, repo, logger)
	matchingSvc := service.NewMatchingService(repo, repo, repo, graphSvc, provider, policy, logger)
	userSvc := service.NewUserService(repo, repo, provider, logger)
	opportunitySvc := service.NewOpportunityService(repo, repo, matchingSvc, logger)
	requestSvc := service.NewRequestService(repo, repo, repo, repo, logger)
	feedbackSvc := service.NewFeedbackService(repo, repo, repo, repo, logger)

	h := handler.New(userSvc, opportunitySvc, graphSvc, matchingSvc, requestSvc, feedbackSvc, logger)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", h.Register)
			authRoutes.POST("/login", h.Login)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("", h.ListUsers)
			userRoutes.GET("/search", h.SearchUsers) // Must be before /:id
			userRoutes.GET("/me", h.GetMe)
			userRoutes.GET("/me/network", h.GetMyNetwork)
			userRoutes.GET("/:id", h.GetUserByID)
			userRoutes.GET("/:id/network", h.GetUserNetwork)
			userRoutes.GET("/:id/impression", h.GetImpression)
		}

		// Opportunity routes (protected)
		oppRoutes := apiV1.Group("/opportunities")
		oppRoutes.Use(auth.AuthMiddleware())
		{
			oppRoutes.GET("", h.ListOpportunities)
			oppRoutes.GET("/:id", h.GetOpportunityByID)
			oppRoutes.POST("", h.CreateOpportunity)
		}

		// Connection request routes (protected)
		reqRoutes := apiV1.Group("/connection-requests")
		reqRoutes.Use(auth.AuthMiddleware())
		{
			reqRoutes.POST("", h.CreateRequest)
			reqRoutes.GET("/incoming", h.GetIncomingRequests)
			reqRoutes.GET("/outgoing", h.GetOutgoingRequests)
			reqRoutes.GET("/check", h.CheckRequest)
			reqRoutes.GET("/by-opportunity/:id", h.GetRequestsByOpportunity)
			reqRoutes.POST("/:id/accept", h.AcceptRequest)
			reqRoutes.POST("/:id/decline", h.DeclineRequest)
		}

		// Feedback routes (protected)
		fbRoutes := apiV1.Group("/feedback")
		fbRoutes.Use(auth.AuthMiddleware())
		{
			fbRoutes.GET("/experiences/:id", h.GetExperiences)
			fbRoutes.GET("/can-leave/:id", h.CanLeaveFeedback)
			fbRoutes.POST("", h.CreateFeedback)
		}
	}

	logger.Sugar().Infow("Server starting", "addr", config.AppConfig.ServerAddr)
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
