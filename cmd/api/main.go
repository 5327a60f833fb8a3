package main

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/MrPrince419/Expense-DashBoard/internal/api"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/ingest"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/normalize"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/session"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/store"
	"github.com/MrPrince419/Expense-DashBoard/internal/logger"
	"github.com/MrPrince419/Expense-DashBoard/internal/pipeline"
	"github.com/MrPrince419/Expense-DashBoard/pkg/config"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	st, err := store.New(log, cfg.Data.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open data directory")
	}

	var matcher normalize.ColumnMatcher = normalize.SubstringMatcher{}
	if cfg.Ingest.FuzzyMatching {
		matcher = normalize.FuzzyMatcher{Threshold: cfg.Ingest.FuzzyThreshold}
	}

	decoder := ingest.NewDecoder(log, cfg.Ingest.SizeWarnMB, cfg.Ingest.RowWarnLimit)
	normalizer := normalize.New(log, matcher)
	p := pipeline.New(log, decoder, normalizer)
	sessions := session.NewManager(log, st)
	activity := session.NewFileActivityLog(filepath.Join(cfg.Data.Dir, "activity.log"))

	ocr := ingest.ProbeOCR(&ingest.TesseractOCR{})
	if ocr == nil {
		log.Warn().Msg("no OCR tooling found, scanned PDFs will require manual entry")
	}

	server := api.NewServer(log, p, sessions, activity, ocr)
	server.DupScanCap = cfg.Ingest.DuplicateScanCap

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", cfg.Server.Addr()).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
