package http

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/basketnetwork/basket-engine/internal/config"
	"github.com/basketnetwork/basket-engine/internal/engine"
	"github.com/basketnetwork/basket-engine/internal/state"
	"github.com/gin-gonic/gin"
)

type HTTPServer struct {
	engine *engine.Engine
	state  *state.State
}

func NewHTTPServer(eng *engine.Engine, st *state.State) *HTTPServer {
	return &HTTPServer{
		engine: eng,
		state:  st,
	}
}

// Router builds the gin engine with the full read/write surface
func (hs *HTTPServer) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api/v1")

	// Read surface
	api.GET("/reserves", hs.handleReserves)
	api.GET("/reserves/:asset", hs.handleReserve)
	api.GET("/supply", hs.handleSupply)
	api.GET("/queue/:asset/depth", hs.handleQueueDepth)
	api.GET("/positions/:id", hs.handlePosition)
	api.GET("/accounts/:owner/positions", hs.handleOwnerPositions)
	api.GET("/accounts/:owner/stake", hs.handleStakeAccount)
	api.GET("/emission", hs.handleEmission)

	// Write surface
	write := api.Group("")
	write.Use(authRequired())
	write.POST("/deposit", hs.handleDeposit)
	write.POST("/withdraw", hs.handleWithdraw)
	write.POST("/swap", hs.handleSwap)
	write.POST("/swap/synthetic", hs.handleSwapFromSynthetic)
	write.POST("/queue/join", hs.handleJoinQueue)
	write.POST("/queue/cancel", hs.handleCancelQueue)
	write.POST("/stake", hs.handleStake)
	write.POST("/unstake", hs.handleUnstake)
	write.POST("/unstake/complete", hs.handleCompleteUnstake)
	write.POST("/unstake/cancel", hs.handleCancelUnstake)

	return r
}

func (hs *HTTPServer) Start(ctx context.Context) {
	addr := ":" + config.AppConfig.HTTPPort
	srv := &http.Server{Addr: addr, Handler: hs.Router()}

	go func() {
		log.Infof("HTTP server is running on port %s", config.AppConfig.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
}
