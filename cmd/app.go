package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/basketnetwork/basket-engine/internal/config"
	"github.com/basketnetwork/basket-engine/internal/db"
	"github.com/basketnetwork/basket-engine/internal/engine"
	"github.com/basketnetwork/basket-engine/internal/http"
	"github.com/basketnetwork/basket-engine/internal/state"
	"github.com/basketnetwork/basket-engine/internal/token"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	DatabaseManager *db.DatabaseManager
	State           *state.State
	Bank            *token.Bank
	Engine          *engine.Engine
	HTTPServer      *http.HTTPServer
}

func NewApplication() *Application {
	config.InitConfig()

	dbm := db.NewDatabaseManager()
	st := state.InitializeState(dbm)
	bank := token.NewBank(dbm)
	eng := engine.NewEngine(st, bank, dbm)
	httpServer := http.NewHTTPServer(eng, st)

	return &Application{
		DatabaseManager: dbm,
		State:           st,
		Bank:            bank,
		Engine:          eng,
		HTTPServer:      httpServer,
	}
}

func (app *Application) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.HTTPServer.Start(ctx)
	}()

	<-stop
	log.Info("Receiving exit signal...")

	cancel()

	wg.Wait()
	log.Info("Server stopped")
}

func main() {
	app := NewApplication()
	app.Run()
}
