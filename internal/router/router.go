package router

import (
	"github.com/gin-gonic/gin"

	"taxsarthi/internal/config"
	"taxsarthi/internal/handler"
	"taxsarthi/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	analysisH *handler.AnalysisHandler,
	ruleH *handler.RuleHandler,
	chatH *handler.ChatHandler,
	transactionH *handler.TransactionHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Tax computation
	tax := v1.Group("/tax")
	tax.POST("/analyze", analysisH.Analyze)
	tax.POST("/compare", analysisH.Compare)
	tax.POST("/simulate", analysisH.Simulate)
	tax.POST("/report", analysisH.Report)
	tax.GET("/history", analysisH.History)
	tax.GET("/history/:id", analysisH.GetByID)

	// Rule documents
	rules := v1.Group("/rules")
	rules.GET("/current", ruleH.Current)
	rules.POST("/generate",
		middleware.AdminAuth(cfg.Auth.AdminSecret, cfg.Auth.Issuer), ruleH.Generate)

	// Chatbot
	chat := v1.Group("/chat")
	chat.POST("", chatH.Chat)
	chat.POST("/context", chatH.SetContext)
	chat.GET("/suggestions", chatH.Suggestions)
	chat.POST("/clear", chatH.Clear)

	// Transaction statements
	transactions := v1.Group("/transactions")
	transactions.POST("/analyze", transactionH.Analyze)

	return r
}
