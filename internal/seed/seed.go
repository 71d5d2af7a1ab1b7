package seed

import (
	"fmt"
	"log"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	MaxDays     int
}

var categoryTitles = []string{
	"Travel", "Food", "Technology", "Music", "Books",
	"Photography", "Fitness", "History", "Science", "Art",
}

// Seed populates the database with demo data: users, published and
// unpublished categories, locations, posts spread over past and future
// publication dates, and comments. The mix intentionally covers every
// visibility case so a seeded instance demonstrates the filtering rules.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database: %d users, %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("warning: could not clear all existing data, continuing anyway")
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	categories, err := createCategories(f)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("created %d categories", len(categories))

	locations, err := createLocations(f)
	if err != nil {
		return fmt.Errorf("failed to create locations: %w", err)
	}

	posts, err := createPosts(f, users, categories, locations, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	commented, err := createComments(f, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("created %d comments", commented)

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	sql := `TRUNCATE TABLE comments, posts, locations, categories, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createCategories(f *Factory) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(categoryTitles))
	for i, title := range categoryTitles {
		// Every fifth category stays unpublished: its posts vanish from
		// public feeds no matter what their own flags say.
		category, err := f.CreateCategory(title, i%5 != 4)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func createLocations(f *Factory) ([]*models.Location, error) {
	locations := make([]*models.Location, 0, 6)
	for i := 0; i < 6; i++ {
		location, err := f.CreateLocation(i%3 != 2)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func createPosts(f *Factory, users []*models.User, categories []*models.Category, locations []*models.Location, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author posts")
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[f.rand.Intn(len(users))]
		category := categories[f.rand.Intn(len(categories))]
		var location *models.Location
		if f.rand.Intn(4) != 0 {
			location = locations[f.rand.Intn(len(locations))]
		}
		posts = append(posts, f.BuildPost(author, category, location))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func createComments(f *Factory, users []*models.User, posts []*models.Post) (int, error) {
	count := 0
	for _, post := range posts {
		for i := 0; i < f.rand.Intn(6); i++ {
			author := users[f.rand.Intn(len(users))]
			if _, err := f.CreateComment(author, post); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
