// Command seed-demo writes a synthetic analytics database with a labeled
// human cohort and bot-farm cohort, for demos and end-to-end verification.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/felthound/felthound/internal/synthpop"
	"github.com/felthound/felthound/pkg/logger"
)

// Default configuration constants.
const (
	defaultSeedTimeout = 2 * time.Minute
)

func main() {
	defaults := synthpop.DefaultConfig()
	var (
		out    = flag.String("out", "demo_analytics.db", "Output database path")
		humans = flag.Int("humans", defaults.Humans, "Number of human players to generate")
		bots   = flag.Int("bots", defaults.Bots, "Number of bot-farm accounts to generate")
		seed   = flag.Int64("seed", defaults.Seed, "Random seed")
		prefix = flag.String("prefix", defaults.SitePrefix, "Player ID prefix")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), defaultSeedTimeout)
	defer cancel()

	cfg := synthpop.Config{
		Humans:     *humans,
		Bots:       *bots,
		Seed:       *seed,
		SitePrefix: *prefix,
	}
	members := synthpop.Generate(cfg)

	if err := synthpop.SeedSQLite(ctx, *out, members); err != nil {
		log.Error(ctx, "seeding failed", logger.String("path", *out), logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "seeded demo database",
		logger.String("path", *out),
		logger.Int("humans", cfg.Humans),
		logger.Int("bots", cfg.Bots),
		logger.Int64("seed", cfg.Seed),
	)
}
