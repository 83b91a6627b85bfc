package main

import (
	"context"
	"log"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"chronicle_weaver/archive"
	"chronicle_weaver/config"
	"chronicle_weaver/game"
	"chronicle_weaver/handlers"
	"chronicle_weaver/narrative"
	"chronicle_weaver/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		logger.Fatal("gemini client", zap.Error(err))
	}
	defer client.Close()
	model := client.GenerativeModel(cfg.GeminiModel)

	catalog, err := game.LoadCatalog(cfg.RolesPath)
	if err != nil {
		logger.Fatal("role catalog", zap.Error(err))
	}

	arc, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		logger.Fatal("archive", zap.Error(err))
	}
	defer arc.Close()

	h := &handlers.Handler{
		Client:   narrative.NewClient(&narrative.GeminiGenerator{Model: model}, cfg.RequestTimeout),
		Sessions: session.NewManager(logger),
		Archive:  arc,
		Catalog:  catalog,
		Log:      logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/game/start", h.StartGame)
	mux.HandleFunc("/game/turn", h.Turn)
	mux.HandleFunc("/game/end", h.EndGame)
	mux.HandleFunc("/game/status", h.Status)
	mux.HandleFunc("/logout", h.Logout)
	mux.HandleFunc("/game/save", h.SaveGame)
	mux.HandleFunc("/game/load", h.LoadGame)
	mux.HandleFunc("/game/character", h.CharacterSheet)
	mux.HandleFunc("/game/memories", h.Memories)
	mux.HandleFunc("/game/export", h.ExportChronicle)
	mux.HandleFunc("/advisor/ask", h.AskAdvisor)
	mux.HandleFunc("/advisor/resolve", h.ResolveAdvisorMessage)
	mux.HandleFunc("/advisor", h.AdvisorThread)
	mux.HandleFunc("/lore/roles", h.Lore)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	logger.Fatal("server stopped", zap.Error(http.ListenAndServe(cfg.Addr, mux)))
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
