package main

import (
	"fmt"
	"os"

	"github.com/aarondl/null/v8"

	"github.com/nurpe/rental-desk/internal/apiclient"
	"github.com/nurpe/rental-desk/internal/auth"
	"github.com/nurpe/rental-desk/internal/config"
	"github.com/nurpe/rental-desk/internal/db"
	"github.com/nurpe/rental-desk/internal/document"
	"github.com/nurpe/rental-desk/internal/excel"
	httphandler "github.com/nurpe/rental-desk/internal/http"
	"github.com/nurpe/rental-desk/internal/http/middleware"
	"github.com/nurpe/rental-desk/internal/logger"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/pdf"
	"github.com/nurpe/rental-desk/internal/repository"
	"github.com/nurpe/rental-desk/internal/service"
	"github.com/nurpe/rental-desk/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)
	model.SetDateLocation(cfg.Location)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	var journal service.ExportJournal
	if database != nil {
		journal = repository.NewExportRepository(database)
	}

	pdfGenerator, err := pdf.NewGenerator(cfg.PDF)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	excelGenerator := excel.NewGenerator()
	validate := validation.New()

	client := apiclient.New(apiclient.Options{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		MaxRetries:    cfg.API.MaxRetries,
		RetryBackoff:  cfg.API.RetryBackoff,
		RetryStatuses: cfg.API.RetryStatuses,
	}, log)

	services := httphandler.Services{
		Customers:  service.NewCustomerService(client, validate, log),
		Equipment:  service.NewEquipmentService(client, excelGenerator, validate, log),
		Orders:     service.NewOrderService(client, validate, log),
		Billing:    service.NewBillingService(client, excelGenerator, log),
		Warehouses: service.NewWarehouseService(client, validate, log),
		Suppliers:  service.NewSupplierService(client, validate, log),
		Sales:      service.NewSaleService(client),
		Users:      service.NewUserService(client, validate, log),
		WriteOffs:  service.NewWriteOffService(client, log),
		Inventory:  service.NewInventoryCheckService(client, log),
		Documents: service.NewDocumentService(
			client,
			document.NewBuilder(companyParty(cfg.Company)),
			pdfGenerator,
			journal,
			log,
		),
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	if !tokenParser.Verifies() {
		log.Warn().Msg("JWT_ACCESS_SECRET not set, token roles are read without signature verification")
	}
	handler := httphandler.NewHandler(services, cfg.Session, cfg.IsProduction(), log)
	authMiddleware := middleware.Auth(tokenParser, cfg.Session, cfg.IsProduction())
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.CORSOrigins, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Str("backend", cfg.API.BaseURL).Msg("starting rental desk")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func companyParty(c config.CompanyConfig) model.Party {
	optional := func(v string) null.String {
		if v == "" {
			return null.String{}
		}
		return null.StringFrom(v)
	}
	return model.Party{
		Name:    c.Name,
		Address: optional(c.Address),
		ICO:     optional(c.ICO),
		DIC:     optional(c.DIC),
		Phone:   optional(c.Phone),
		Email:   optional(c.Email),
	}
}
