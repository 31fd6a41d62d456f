// Command seed fills the database with fake users, posts and votes.
package main

import (
	"context"
	"flag"
	"log"

	"socialapi/internal/bootstrap"
	"socialapi/internal/config"
	"socialapi/internal/database"
	"socialapi/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	maxVotes := flag.Int("votes", 10, "Maximum upvotes per post")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Build records without writing them")
	fastHash := flag.Bool("fast-hash", true, "Hash the shared password at minimum bcrypt cost")
	randSeed := flag.Int64("seed", 0, "Random seed, 0 picks one")
	flag.Parse()

	log.Printf("Target: %d users, %d posts, up to %d votes per post, clean=%v", *numUsers, *numPosts, *maxVotes, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer func() {
		_ = database.Close(rt.DB)
		_ = rt.Close(ctx)
	}()

	res, err := seed.Seed(rt.DB, seed.Options{
		NumUsers:        *numUsers,
		NumPosts:        *numPosts,
		MaxVotesPerPost: *maxVotes,
		ShouldClean:     *shouldClean && !*dryRun,
		Factory: seed.FactoryOptions{
			DryRun:   *dryRun,
			FastHash: *fastHash,
			Seed:     *randSeed,
		},
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d votes", len(res.Users), len(res.Posts), res.Votes)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
