package seed

import (
	"fmt"

	"socialapi/internal/middleware"
	"socialapi/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers int
	NumPosts int
	// MaxVotesPerPost caps the random number of upvotes each post gets.
	MaxVotesPerPost int
	ShouldClean     bool
	Factory         FactoryOptions
}

// Result reports what Seed created.
type Result struct {
	Users []*models.User
	Posts []*models.Post
	Votes int
}

// Seed populates the database with users, posts spread across them and
// random upvotes.
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	middleware.Logger.Info("starting database seeding", "users", opts.NumUsers, "posts", opts.NumPosts)

	if opts.ShouldClean {
		if err := ClearData(db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f, err := NewFactory(db, opts.Factory)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create users: %w", err)
		}
		res.Users = append(res.Users, u)
	}
	middleware.Logger.Info("users created", "count", len(res.Users))

	if len(res.Users) == 0 {
		return res, nil
	}

	for i := 0; i < opts.NumPosts; i++ {
		owner := res.Users[f.rng.Intn(len(res.Users))]
		res.Posts = append(res.Posts, f.BuildPost(owner))
	}
	if err := f.CreatePostsBatch(res.Posts); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	middleware.Logger.Info("posts created", "count", len(res.Posts))

	if opts.MaxVotesPerPost > 0 {
		for _, p := range res.Posts {
			voters := f.pickVoters(res.Users, f.rng.Intn(opts.MaxVotesPerPost+1))
			if err := f.CreateVotes(p, voters); err != nil {
				return nil, fmt.Errorf("failed to create votes: %w", err)
			}
			if !opts.Factory.DryRun {
				res.Votes += len(voters)
			}
		}
		middleware.Logger.Info("votes created", "count", res.Votes)
	}

	middleware.Logger.Info("database seeding completed")
	return res, nil
}

// ClearData removes every vote, post and user.
func ClearData(db *gorm.DB) error {
	middleware.Logger.Info("clearing existing data")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE votes, posts, users RESTART IDENTITY CASCADE`).Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"votes", "posts", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
