package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"newssense/internal/analyzer"
	"newssense/internal/logger"
	"newssense/internal/marketdata"
	"newssense/internal/news"
	"newssense/internal/report"
	"newssense/internal/store"
	"newssense/internal/trace"

	"github.com/joho/godotenv"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: newssense TICKER [TICKER...]")
		os.Exit(2)
	}

	cfg, err := store.LoadConfig("config.yaml")
	if os.IsNotExist(err) {
		cfg = store.Default()
	} else {
		must(err)
	}

	must(logger.Init())
	must(trace.Init())
	ctx := context.Background()
	defer trace.Shutdown(ctx)

	ana := analyzer.New(cfg, marketdata.NewYahooProvider())
	svc := news.NewService(&news.ServiceConfig{
		MaxArticles: cfg.News.MaxArticles,
		CacheTTL:    cfg.CacheTTL(),
		Timeout:     time.Duration(cfg.News.TimeoutSeconds) * time.Second,
		Enabled:     cfg.News.Enabled,
	})

	var writer *report.Writer
	if cfg.Report.Enabled {
		writer = report.NewWriter(cfg.Report.Dir)
	}

	for _, ticker := range os.Args[1:] {
		runAnalysis(ctx, ana, svc, writer, ticker)
	}
}

func runAnalysis(ctx context.Context, ana *analyzer.MarketAnalyzer, svc *news.Service, writer *report.Writer, ticker string) {
	ctx, span := trace.StartSpan(ctx, "analysis_run")
	defer span.End()

	sec := ana.AnalyzeSecurity(ctx, ticker)
	analysis := svc.GetAnalysis(ctx, ticker)

	correlation := ana.ComputePriceNewsCorrelation(sec, analysis)
	explanation := ana.GenerateExplanation(ctx, sec, analysis, ticker)

	logger.Analysis(ctx, ticker, analysis.Label, analysis.AverageSentiment, len(analysis.Sentiments),
		"days_analyzed", correlation.DaysAnalyzed)

	fmt.Println(explanation)
	if correlation.Coefficient != nil {
		fmt.Printf("\nPrice/negative-news correlation over %d days: %.4f\n",
			correlation.DaysAnalyzed, *correlation.Coefficient)
	}

	if writer != nil {
		path, err := writer.Save(ticker, sec, explanation)
		if err != nil {
			logger.ErrorWithErr(ctx, "Report save failed", err, "ticker", ticker)
			return
		}
		logger.Report(ctx, ticker, path)
	}
}
