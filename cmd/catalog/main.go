package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"avnu/internal/catalog"
	"avnu/internal/model"
	"avnu/internal/pkg/logger"
)

// main 离线构建目录并输出指纹、汇总或完整 JSON，用于跨机器核对生成结果。
func main() {
	brandsPath := flag.String("brands", "", "brand list JSON (default: embedded brands)")
	format := flag.String("format", "summary", "output format: fingerprint | summary | json")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	appLogger := logger.New(os.Stderr, *logLevel)

	cat, err := catalog.Load(*brandsPath)
	if err != nil {
		appLogger.Error("build catalog failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := write(os.Stdout, cat, *format); err != nil {
		appLogger.Error("write catalog failed", slog.String("format", *format), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type summary struct {
	Fingerprint string         `json:"fingerprint"`
	Brands      int            `json:"brands"`
	Products    int            `json:"products"`
	Series      int            `json:"series"`
	New         int            `json:"new"`
	ByCategory  map[string]int `json:"byCategory"`
}

type dump struct {
	Fingerprint string          `json:"fingerprint"`
	Brands      []model.Brand   `json:"brands"`
	Products    []model.Product `json:"products"`
}

func write(w io.Writer, cat *catalog.Catalog, format string) error {
	switch format {
	case "fingerprint":
		_, err := fmt.Fprintln(w, cat.Fingerprint())
		return err
	case "summary":
		return encode(w, summarize(cat))
	case "json":
		return encode(w, dump{
			Fingerprint: cat.Fingerprint(),
			Brands:      cat.Brands(),
			Products:    cat.Products(),
		})
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func summarize(cat *catalog.Catalog) summary {
	s := summary{
		Fingerprint: cat.Fingerprint(),
		Brands:      len(cat.Brands()),
		Products:    cat.Len(),
		Series:      len(cat.Series()),
		ByCategory:  map[string]int{},
	}
	for _, p := range cat.Products() {
		s.ByCategory[p.Category]++
		if p.IsNew {
			s.New++
		}
	}
	return s
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
