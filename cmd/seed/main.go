// Command seed fills the database with a generated social graph.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"feedgraph/internal/config"
	"feedgraph/internal/database"
	"feedgraph/internal/seed"
)

func main() {
	preset := flag.String("preset", "demo", "Seeder preset ("+strings.Join(presetNames(), ", ")+")")
	users := flag.Int("users", 0, "Override the preset's user count")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Generate and log without writing")
	randSeed := flag.Int64("seed", 0, "Override the preset's random seed")
	flag.Parse()

	presets, err := seed.BuiltinPresets()
	if err != nil {
		log.Fatalf("Failed to load presets: %v", err)
	}
	opts, err := presets.Lookup(*preset)
	if err != nil {
		log.Fatal(err)
	}
	if *users > 0 {
		opts.Users = *users
	}
	if *randSeed != 0 {
		opts.Seed = *randSeed
	}
	opts.DryRun = *dryRun

	log.Printf("Seeding preset=%s users=%d messages_per_user=%d clean=%t dry_run=%t",
		*preset, opts.Users, opts.MessagesPerUser, *shouldClean, opts.DryRun)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, opts)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Done: users=%d follows=%d messages=%d replies=%d likes=%d",
		res.Users, res.Follows, res.Messages, res.Replies, res.Likes)
}

func presetNames() []string {
	presets, err := seed.BuiltinPresets()
	if err != nil {
		return nil
	}
	return presets.Names()
}
