package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/JuanValentinPerdomo/glosas/internal/ai"
	"github.com/JuanValentinPerdomo/glosas/internal/models"
)

func main() {
	// Parse command line flags
	apiKey := flag.String("key", "", "AI gateway API key (or set AI_GATEWAY_API_KEY env var)")
	baseURL := flag.String("base-url", "https://ai.gateway.lovable.dev/v1", "AI gateway base URL")
	model := flag.String("model", "google/gemini-2.5-flash", "Model name")
	timeout := flag.Duration("timeout", 60*time.Second, "API call timeout")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	_ = gotenv.Load()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *apiKey == "" {
		*apiKey = os.Getenv("AI_GATEWAY_API_KEY")
	}
	if *apiKey == "" {
		fmt.Fprintf(os.Stderr, "ERROR: AI_GATEWAY_API_KEY not set and no --key flag provided\n")
		fmt.Fprintf(os.Stderr, "Usage: test-gateway --key <key> [--base-url <url>] [--model <name>] [--timeout 60s]\n")
		os.Exit(1)
	}

	fmt.Println("=== AI Gateway Connection Test ===")
	fmt.Println("Configuration:")
	fmt.Printf("  Base URL: %s\n", *baseURL)
	fmt.Printf("  Model: %s\n", *model)
	fmt.Printf("  API key length: %d chars\n", len(*apiKey))
	fmt.Printf("  Timeout: %v\n", *timeout)
	fmt.Println()

	analyst := ai.NewAnalyst(ai.Config{
		APIKey:      *apiKey,
		BaseURL:     *baseURL,
		Model:       *model,
		Temperature: 0.3,
	}, logger)

	testService := &models.ServiceLine{
		CodigoDetalle:  "TEST-1",
		Factura:        "FAC-TEST",
		CodigoServicio: "890201",
		NombreServicio: "Consulta de primera vez por medicina general",
		ValorServicio:  45000,
		ValorGlosa:     45000,
		Comentario:     "Servicio no autorizado previamente",
	}

	fmt.Println("Test Service Line:")
	fmt.Printf("  Factura: %s\n", testService.Factura)
	fmt.Printf("  Servicio: %s (%s)\n", testService.NombreServicio, testService.CodigoServicio)
	fmt.Printf("  Valor glosado: %s\n", models.FormatMoney(testService.ValorGlosa))
	fmt.Printf("  Motivo: %s\n", testService.Comentario)
	fmt.Println()

	fmt.Println("Sending analysis request to the AI gateway...")
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	startTime := time.Now()
	analysis, err := analyst.AnalyzeGloss(ctx, testService)
	duration := time.Since(startTime)

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ ERROR: AI gateway call failed\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		fmt.Fprintf(os.Stderr, "Possible causes:\n")
		fmt.Fprintf(os.Stderr, "  1. Invalid or expired AI_GATEWAY_API_KEY\n")
		fmt.Fprintf(os.Stderr, "  2. Network connectivity issue\n")
		fmt.Fprintf(os.Stderr, "  3. Wrong base URL or model name\n")
		fmt.Fprintf(os.Stderr, "  4. Gateway quota exceeded or unavailable\n")
		os.Exit(1)
	}

	fmt.Println("✓ Received response from the gateway!")
	fmt.Printf("API Response Time: %v\n", duration)
	fmt.Println()

	fmt.Println("=== Analysis ===")
	fmt.Println(analysis)

	fmt.Printf("\nInferred decision: %s\n", ai.InferDecision(analysis))
	fmt.Println("\n✅ AI Gateway Connection Test PASSED!")
}
