// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"socialapi/internal/auth"
	"socialapi/internal/middleware"
	"socialapi/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded account gets.
const DefaultPassword = "password123"

// FactoryOptions tunes how the factory builds data.
type FactoryOptions struct {
	// DryRun assigns synthetic ids instead of writing.
	DryRun bool
	// FastHash hashes with bcrypt.MinCost.
	FastHash bool
	// MaxDays spreads post timestamps over this many past days.
	MaxDays int
	// Seed makes generated content reproducible when non-zero.
	Seed int64
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db     *gorm.DB
	opts   FactoryOptions
	faker  *gofakeit.Faker
	rng    *rand.Rand
	hash   string
	nextID uint
	seq    int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts FactoryOptions) (*Factory, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cost := bcrypt.DefaultCost
	if opts.FastHash {
		cost = bcrypt.MinCost
	}
	// One hash shared by every seeded account.
	hash, err := auth.HashPassword(DefaultPassword, cost)
	if err != nil {
		return nil, err
	}

	return &Factory{
		db:     db,
		opts:   opts,
		faker:  gofakeit.New(seed),
		rng:    rand.New(rand.NewSource(seed)),
		hash:   hash,
		nextID: 1000,
	}, nil
}

// BuildUser returns an unsaved user with a unique fake email.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	f.seq++
	user := &models.User{
		Email:    strings.ToLower(fmt.Sprintf("%s.%d@%s", f.faker.Username(), f.seq, f.faker.DomainName())),
		Password: f.hash,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildPost returns an unsaved post owned by owner with a timestamp spread
// over the last MaxDays days.
func (f *Factory) BuildPost(owner *models.User, overrides ...func(*models.Post)) *models.Post {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute

	post := &models.Post{
		Title:     f.faker.Sentence(5),
		Content:   f.faker.Paragraph(1, 3, 5, "\n"),
		Published: f.rng.Intn(10) > 0,
		OwnerID:   owner.ID,
		CreatedAt: time.Now().UTC().Add(-back),
	}
	post.UpdatedAt = post.CreatedAt

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		middleware.Logger.Debug("[dry-run] CreateUser", "email", user.Email)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePostsBatch persists posts in batches.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		middleware.Logger.Debug("[dry-run] CreatePostsBatch", "count", len(posts))
		return nil
	}
	return f.db.Select("Title", "Content", "Published", "OwnerID", "CreatedAt", "UpdatedAt").
		CreateInBatches(posts, 100).Error
}

// CreateVotes records an upvote from each voter on post.
func (f *Factory) CreateVotes(post *models.Post, voters []*models.User) error {
	if len(voters) == 0 || f.opts.DryRun {
		return nil
	}
	votes := make([]models.Vote, 0, len(voters))
	for _, v := range voters {
		votes = append(votes, models.Vote{UserID: v.ID, PostID: post.ID, CreatedAt: time.Now().UTC()})
	}
	return f.db.Omit("User", "Post").CreateInBatches(votes, 200).Error
}

// pickVoters returns up to n distinct users chosen at random.
func (f *Factory) pickVoters(users []*models.User, n int) []*models.User {
	if n > len(users) {
		n = len(users)
	}
	idx := f.rng.Perm(len(users))[:n]
	out := make([]*models.User, 0, n)
	for _, i := range idx {
		out = append(out, users[i])
	}
	return out
}
