package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"google.golang.org/api/option"

	"github.com/zombor/invoice-bot/internal/bot"
	"github.com/zombor/invoice-bot/internal/invoice"
	"github.com/zombor/invoice-bot/internal/scanning"
	"github.com/zombor/invoice-bot/internal/sheet"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("invoice-bot")
	var (
		addr          = fs.StringLong("addr", ":8080", "HTTP listen address for the message webhook")
		envFile       = fs.StringLong("env-file", ".env", "Optional dotenv file loaded before reading the environment")
		llm           = fs.StringLong("llm", "openai", "Completion provider: 'openai' or 'gemini'")
		llmModel      = fs.StringLong("llm-model", "", "Completion model name (default depends on provider)")
		llmBaseURL    = fs.StringLong("llm-base-url", "", "OpenAI-compatible base URL (optional)")
		openaiKey     = fs.StringLong("openai-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		ocrLang       = fs.StringLong("ocr-lang", scanning.DefaultLanguages, "Tesseract language set, '+' separated")
		pdfEngine     = fs.StringLong("pdf-engine", "fitz", "PDF text extractor: 'fitz' (MuPDF) or 'pdf' (pure Go)")
		sink          = fs.StringLong("sink", "sheets", "Where rows are appended: 'sheets', 'xlsx' or 'bolt'")
		sheetID       = fs.StringLong("sheet-id", "", "Google spreadsheet ID")
		sheetRange    = fs.StringLong("sheet-range", sheet.DefaultRange, "A1 range rows are appended to")
		credentials   = fs.StringLong("google-credentials", "", "Service account credentials file (or set GOOGLE_APPLICATION_CREDENTIALS)")
		xlsxPath      = fs.StringLong("xlsx-path", "invoices.xlsx", "Workbook path for the xlsx sink")
		boltPath      = fs.StringLong("bolt-path", "invoices.db", "Database path for the bolt sink")
		maxConcurrent = fs.IntLong("max-concurrent", 0, "Maximum simultaneous pipeline runs (0 = unlimited)")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		logLevel      = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	// The dotenv file has to be loaded before ff reads the environment, so
	// its path is looked up by hand.
	loadEnvFile(envFileArg(os.Args[1:], *envFile))

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE_BOT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	setupLogging(*logLevel)

	ctx := context.Background()

	// Initialize completion provider
	var completer invoice.Completer
	switch *llm {
	case "openai":
		apiKey := firstNonEmpty(*openaiKey, os.Getenv("OPENAI_API_KEY"))
		if apiKey == "" {
			slog.Error("OpenAI API key is required. Set --openai-key flag or OPENAI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing OpenAI completer...", "model", firstNonEmpty(*llmModel, invoice.DefaultOpenAIModel), "base_url", *llmBaseURL)
		c, err := invoice.NewOpenAI(apiKey, *llmModel, *llmBaseURL)
		if err != nil {
			slog.Error("Failed to initialize OpenAI", "error", err)
			os.Exit(1)
		}
		completer = c
	case "gemini":
		apiKey := firstNonEmpty(*geminiKey, os.Getenv("GEMINI_API_KEY"))
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini completer...", "model", firstNonEmpty(*llmModel, invoice.DefaultGeminiModel))
		c, err := invoice.NewGemini(ctx, apiKey, *llmModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		completer = c
	default:
		slog.Error("Invalid completion provider", "llm", *llm, "valid", "openai or gemini")
		os.Exit(1)
	}

	// Initialize text extraction
	var parser scanning.DocumentParser
	switch *pdfEngine {
	case "fitz":
		parser = scanning.FitzParser{}
	case "pdf":
		parser = scanning.PDFParser{}
	default:
		slog.Error("Invalid PDF engine", "pdf_engine", *pdfEngine, "valid", "fitz or pdf")
		os.Exit(1)
	}
	extractor := scanning.NewExtractor(scanning.NewTesseract(), parser, *ocrLang)
	slog.Info("Initialized text extractor", "ocr_languages", extractor.Languages(), "pdf_engine", *pdfEngine)

	// Initialize spreadsheet sink
	var appender sheet.Appender
	switch *sink {
	case "sheets":
		var opts []option.ClientOption
		if path := firstNonEmpty(*credentials, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); path != "" {
			opts = append(opts, option.WithCredentialsFile(path))
		}
		slog.Info("Initializing Google Sheets sink...", "spreadsheet_id", *sheetID, "range", *sheetRange)
		a, err := sheet.NewSheets(ctx, *sheetID, *sheetRange, opts...)
		if err != nil {
			slog.Error("Failed to initialize Google Sheets", "error", err)
			os.Exit(1)
		}
		appender = a
	case "xlsx":
		slog.Info("Initializing workbook sink...", "path", *xlsxPath)
		a, err := sheet.NewWorkbook(*xlsxPath)
		if err != nil {
			slog.Error("Failed to initialize workbook", "error", err)
			os.Exit(1)
		}
		appender = a
	case "bolt":
		slog.Info("Initializing bolt sink...", "path", *boltPath)
		a, err := sheet.NewLedger(*boltPath)
		if err != nil {
			slog.Error("Failed to initialize bolt ledger", "error", err)
			os.Exit(1)
		}
		defer a.Close()
		appender = a
	default:
		slog.Error("Invalid sink", "sink", *sink, "valid", "sheets, xlsx or bolt")
		os.Exit(1)
	}

	pipeline := invoice.NewPipeline(extractor, invoice.NewInterpreter(completer))
	service := bot.NewService(pipeline, appender, *maxConcurrent)

	basicAuth := bot.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           bot.NewServer(service, basicAuth),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Server started", "address", *addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// envFileArg finds an --env-file value on the command line, falling back to def
func envFileArg(args []string, def string) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name != "env-file" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("INVOICE_BOT_ENV_FILE"); v != "" {
		return v
	}
	return def
}

// loadEnvFile loads a dotenv file without overriding variables already set
func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading %s: %v\n", path, err)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
