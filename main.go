// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/shahil5z/Tattvashanti-Chatbot/llm"
	"github.com/shahil5z/Tattvashanti-Chatbot/observability"
	"github.com/shahil5z/Tattvashanti-Chatbot/retrieval"
	"github.com/shahil5z/Tattvashanti-Chatbot/routes"
	"github.com/shahil5z/Tattvashanti-Chatbot/services"
	"github.com/shahil5z/Tattvashanti-Chatbot/session"
	"github.com/shahil5z/Tattvashanti-Chatbot/webhook"
)

// janitorInterval is how often the background sweep prunes idle expired
// sessions between requests.
const janitorInterval = 10 * time.Minute

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "localhost:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("tattvashanti-chatbot")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// newWeaviateClient builds the vector index client. The index itself is
// an external managed service; a missing or unparseable URL is a fatal
// misconfiguration because the chatbot cannot ground answers without it.
func newWeaviateClient() (*weaviate.Client, error) {
	weaviateURL := strings.Trim(os.Getenv("WEAVIATE_URL"), "\"' ")
	if weaviateURL == "" {
		return nil, fmt.Errorf("WEAVIATE_URL environment variable not set")
	}

	parsedURL, err := url.Parse(weaviateURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		slog.Error("WEAVIATE_URL is invalid", "url", weaviateURL, "error", err)
		return nil, fmt.Errorf("WEAVIATE_URL %q is missing a scheme or host", weaviateURL)
	}

	clientConf := weaviate.Config{
		Host:   parsedURL.Host,
		Scheme: parsedURL.Scheme,
	}
	if apiKey := os.Getenv("WEAVIATE_API_KEY"); apiKey != "" {
		clientConf.AuthConfig = auth.ApiKey{Value: apiKey}
	}
	return weaviate.NewClient(clientConf)
}

func main() {
	port := os.Getenv("CHATBOT_PORT")
	if port == "" {
		port = "8000"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	weaviateClient, err := newWeaviateClient()
	if err != nil {
		log.Fatalf("FATAL: Could not initialize the Weaviate client: %v", err)
	}

	var llmClient llm.LLMClient
	switch backend := os.Getenv("LLM_BACKEND_TYPE"); backend {
	case "ollama":
		llmClient, err = llm.NewOllamaClient()
		slog.Info("Using Ollama LLM backend")
	case "openai", "":
		llmClient, err = llm.NewOpenAIClient()
		slog.Info("Using OpenAI LLM backend")
	default:
		slog.Warn("LLM_BACKEND_TYPE not recognized, defaulting to openai", "backend", backend)
		llmClient, err = llm.NewOpenAIClient()
	}
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	registry := session.NewRegistry()
	registry.StartJanitor(context.Background(), janitorInterval)

	sink := webhook.NewSink(os.Getenv("N8N_WEBHOOK_URL"))
	metrics := observability.NewChatMetrics(prometheus.DefaultRegisterer)
	retriever := retrieval.NewWeaviateRetriever(weaviateClient)
	answerService := services.NewAnswerService(retriever, llmClient, registry, sink, metrics)

	router := gin.Default()
	router.Use(otelgin.Middleware("tattvashanti-chatbot"))
	routes.SetupRoutes(router, answerService, registry, weaviateClient)

	log.Println("Starting the chatbot server on port ", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
