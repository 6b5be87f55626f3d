package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"patterngraph/backend/internal/adapter"
	"patterngraph/backend/internal/analyzer"
	"patterngraph/backend/internal/graph"
	"patterngraph/backend/internal/index"
	"patterngraph/backend/internal/intel"
	"patterngraph/backend/pkg/config"
	"patterngraph/backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting pattern analysis API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Load the knowledge graph; a bad source degrades to an empty graph
	// instead of aborting startup
	g := graph.LoadOrEmpty(cfg.GraphPath)
	adjacency := graph.BuildAdjacency(g)

	// Initialize providers
	llmAdapter := adapter.NewLLMAdapter(cfg.LiteLLMURL, cfg.OpenRouterAPIKey, cfg.ModelID, cfg.EmbeddingModelID)

	// Build the vector index; an embedding failure leaves the index absent
	// and queries report it as unavailable
	buildCtx, cancelBuild := context.WithTimeout(context.Background(), 5*time.Minute)
	idx, err := index.Build(buildCtx, g, llmAdapter)
	cancelBuild()
	if err != nil {
		log.Warn("Vector index not built, queries will report it unavailable", zap.Error(err))
		idx = nil
	}

	queryAnalyzer := analyzer.NewAnalyzer(g, adjacency, idx, llmAdapter)

	// Competitor intelligence collaborator; failure here never blocks startup
	copilot := intel.NewCopilot(cfg.IntelDocsDir, llmAdapter)
	if _, err := copilot.LoadDocuments(); err != nil {
		log.Warn("Failed to load competitor reports", zap.Error(err))
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(log, g, idx, queryAnalyzer, copilot)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// setupRouter wires all HTTP routes. The analyzer and copilot may be backed
// by an absent index or empty report set; both degrade per route rather than
// failing here.
func setupRouter(log *zap.Logger, g *graph.Graph, idx *index.Index, queryAnalyzer *analyzer.Analyzer, copilot *intel.Copilot) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Liveness check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Detailed health with per-service status
		api.GET("/health", func(c *gin.Context) {
			analyzerStatus := "available"
			if idx == nil {
				analyzerStatus = "limited"
			}

			intelStatus := "disabled"
			var intelDetails intel.Status
			if copilot != nil {
				intelDetails = copilot.Status()
				if intelDetails.AIEnabled {
					intelStatus = "available"
				} else {
					intelStatus = "limited"
				}
			}

			c.JSON(http.StatusOK, gin.H{
				"status":    "healthy",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
				"services": gin.H{
					"graph_rag_analyzer":      analyzerStatus,
					"competitor_intelligence": intelStatus,
				},
				"graph": gin.H{
					"nodes":             len(g.Nodes),
					"edges":             len(g.Edges),
					"indexed_documents": idx.Size(),
				},
				"intel_details": intelDetails,
			})
		})

		// Analyze patterns using the graph-augmented retrieval pipeline
		api.POST("/analyze-graphrag", func(c *gin.Context) {
			var req struct {
				Query string `json:"query" binding:"required"`
			}

			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Query is required"})
				return
			}

			requestID := uuid.NewString()
			log.Info("Analyzing query",
				zap.String("request_id", requestID),
				zap.String("query", req.Query),
			)

			// The analyzer is a total boundary: failures come back inside
			// the result envelope, never as an error
			result := queryAnalyzer.AnalyzeQuery(c.Request.Context(), req.Query)

			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"result":  result,
			})
		})

		// Chat with competitor intelligence
		api.POST("/competitor-chat", func(c *gin.Context) {
			var req struct {
				Message string `json:"message" binding:"required"`
			}

			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Message is required"})
				return
			}

			if copilot == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"success": false,
					"error":   "Competitor intelligence service not available",
				})
				return
			}

			response, err := copilot.Chat(c.Request.Context(), req.Message)
			if err != nil {
				log.Error("Competitor chat failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"success":  true,
				"response": response,
			})
		})
	}

	return router
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
