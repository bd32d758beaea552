// Command seed loads users, movies and screenings from a JSON file into the
// database. Records go through the same schema checks as the API; movies
// are upserted by id and screenings are inserted in one bulk transaction.
// Cached screening responses are dropped afterwards when Redis is reachable.
//
//	go run ./cmd/seed -file seed.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-screening-booking/internal/config"
	"github.com/iliyamo/cinema-screening-booking/internal/database"
	"github.com/iliyamo/cinema-screening-booking/internal/logger"
	"github.com/iliyamo/cinema-screening-booking/internal/middleware"
	"github.com/iliyamo/cinema-screening-booking/internal/model"
	"github.com/iliyamo/cinema-screening-booking/internal/repository"
	"github.com/iliyamo/cinema-screening-booking/internal/schema"
)

type seedFile struct {
	Users      []json.RawMessage `json:"users"`
	Movies     []model.Movie     `json:"movies"`
	Screenings []json.RawMessage `json:"screenings"`
}

type seed struct {
	users      []model.NewUser
	movies     []model.Movie
	screenings []model.NewScreening
}

func main() {
	path := flag.String("file", "seed.json", "path to the seed file")
	migrate := flag.Bool("migrate", true, "create missing tables first")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlog := logger.New(cfg.LogLevel, cfg.Env)
	defer func() { _ = zlog.Sync() }()

	f, err := os.Open(*path)
	if err != nil {
		zlog.Fatal("open seed file", zap.Error(err))
	}
	defer f.Close()
	s, err := loadSeed(f)
	if err != nil {
		zlog.Fatal("invalid seed file", zap.String("file", *path), zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg)
	if err != nil {
		zlog.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			zlog.Fatal("migrate", zap.Error(err))
		}
	}

	created, err := repository.NewUserRepo(db).Create(ctx, s.users...)
	if err != nil {
		zlog.Fatal("seed users", zap.Error(err))
	}
	if err := repository.NewMovieRepo(db).Upsert(ctx, s.movies...); err != nil {
		zlog.Fatal("seed movies", zap.Error(err))
	}
	screenings, err := repository.NewScreeningRepo(db).Insert(ctx, s.screenings...)
	if err != nil {
		zlog.Fatal("seed screenings", zap.Error(err))
	}

	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		zlog.Warn("redis unavailable, response cache not invalidated", zap.Error(err))
	} else {
		defer rdb.Close()
	}
	invalidateCache(ctx, middleware.NewResponseCache(config.LoadCacheConfig(), rdb), zlog)

	zlog.Info("seed complete",
		zap.Int("users", len(created)),
		zap.Int("movies", len(s.movies)),
		zap.Int("screenings", len(screenings)))
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// invalidateCache drops cached screening responses so the API serves the
// seeded rows immediately. A failure only costs staleness until the TTL.
func invalidateCache(ctx context.Context, cache cacheInvalidator, zlog *zap.Logger) {
	if err := cache.Invalidate(ctx); err != nil {
		zlog.Warn("invalidate response cache", zap.Error(err))
	}
}

// loadSeed parses and validates a seed file. The first invalid record
// aborts the whole load.
func loadSeed(r io.Reader) (seed, error) {
	var raw seedFile
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return seed{}, fmt.Errorf("decode: %w", err)
	}

	var s seed
	for i, u := range raw.Users {
		nu, err := schema.ParseUserInsertable(u)
		if err != nil {
			return seed{}, fmt.Errorf("users[%d]: %w", i, err)
		}
		s.users = append(s.users, nu)
	}
	for i, m := range raw.Movies {
		if m.ID == 0 || m.Title == "" {
			return seed{}, fmt.Errorf("movies[%d]: id and title are required", i)
		}
	}
	s.movies = raw.Movies
	for i, sc := range raw.Screenings {
		ns, err := schema.ParseInsertable(sc)
		if err != nil {
			return seed{}, fmt.Errorf("screenings[%d]: %w", i, err)
		}
		s.screenings = append(s.screenings, ns)
	}
	return s, nil
}
