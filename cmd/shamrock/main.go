package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shamrock-game/shamrock/internal/board"
	"github.com/shamrock-game/shamrock/internal/config"
	"github.com/shamrock-game/shamrock/internal/game"
	"github.com/shamrock-game/shamrock/internal/game/cards"
	"github.com/shamrock-game/shamrock/internal/server"
	"github.com/shamrock-game/shamrock/internal/storage"
	"github.com/shamrock-game/shamrock/internal/storage/migrations"
	"github.com/shamrock-game/shamrock/internal/store"
)

func main() {
	cfg := config.FromEnv()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.Debug {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	st := store.NewMem(log)

	if cfg.PostgresURL != "" {
		if err := migrations.Migrate(cfg.PostgresURL); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		archive, err := storage.NewPostgresArchive(ctx, cfg.PostgresURL)
		if err != nil {
			cancel()
			log.Fatal().Err(err).Msg("connecting to postgres failed")
		}
		defer archive.Close()

		rooms, err := archive.LoadAll(ctx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("restoring room snapshots failed")
		}
		st.Restore(rooms)
		st.SetArchive(archive)

		log.Info().Int("rooms", len(rooms)).Msg("snapshot archive enabled")
	}

	engine := game.NewEngine(st, game.PlatformRandom(), cards.Pool(), board.Layout{}, log)

	srv := server.New(st, engine, cfg.FrontendOrigin, log)
	router := srv.Router(cfg.FrontendOrigin)

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
