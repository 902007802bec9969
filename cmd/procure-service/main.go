package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zeronetech/boq-procure/internal/config"
	"github.com/zeronetech/boq-procure/internal/db"
	"github.com/zeronetech/boq-procure/internal/excel"
	httphandler "github.com/zeronetech/boq-procure/internal/http"
	"github.com/zeronetech/boq-procure/internal/ledger"
	"github.com/zeronetech/boq-procure/internal/logger"
	"github.com/zeronetech/boq-procure/internal/repository"
	"github.com/zeronetech/boq-procure/internal/sequence"
	"github.com/zeronetech/boq-procure/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	itemRepo := repository.NewLineItemRepository(database)
	counterRepo := repository.NewCounterRepository(database)
	projectRepo := repository.NewProjectRepository(database)
	directoryRepo := repository.NewDirectoryRepository(database)

	deliveryLedger := ledger.New(itemRepo, cfg.Procure.WriteMaxRetries)
	validator := ledger.NewValidator(decimal.NewFromFloat(cfg.Procure.RateTolerancePct))
	poAllocator := sequence.NewAllocator(
		counterRepo,
		cfg.PO.Prefix,
		cfg.PO.SerialWidth,
		cfg.Procure.WriteMaxRetries,
		time.Now,
	)

	orderService := service.NewOrderService(itemRepo, deliveryLedger, validator, poAllocator, projectRepo)
	projectService := service.NewProjectService(projectRepo, itemRepo, deliveryLedger)
	importService := service.NewImportService(projectRepo, itemRepo, excel.NewReader(), log)
	directoryService := service.NewDirectoryService(directoryRepo, projectRepo)

	handler := httphandler.NewHandler(orderService, projectService, importService, directoryService, log)
	router := httphandler.NewRouter(handler, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting procure service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
