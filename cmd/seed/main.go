package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	admindomain "github.com/hykleas/Review-Guard/internal/admin/domain"
	mongodoc "github.com/hykleas/Review-Guard/internal/infrastructure/mongo"
	publicdomain "github.com/hykleas/Review-Guard/internal/public/domain"
)

type seedOptions struct {
	envName         string
	ownerID         string
	businessName    string
	reviewLink      string
	reviewCount     int
	days            int
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	profiles            string
	reviews             string
	failedNotifications string
}

var sampleComments = map[publicdomain.Band][]string{
	publicdomain.BandLow: {
		"Waited too long for my order.",
		"The table was not clean.",
		"Staff seemed busy and ignored us.",
		"",
	},
	publicdomain.BandHigh: {
		"Great coffee and friendly staff!",
		"Lovely atmosphere, will come back.",
		"Best breakfast in the neighbourhood.",
		"",
	},
}

var sampleNames = []string{"Ayse", "Mehmet", "Elif", "Can", "Zeynep", ""}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("failed to load env files: %v", err)
	}

	cfg := collections{
		profiles:            envOrDefault("PROFILE_COLLECTION", "profiles"),
		reviews:             envOrDefault("REVIEW_COLLECTION", "reviews"),
		failedNotifications: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "review-guard")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB connect failed: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		for _, name := range []string{cfg.profiles, cfg.reviews, cfg.failedNotifications} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				log.Fatalf("failed to drop %s: %v", name, err)
			}
		}
		log.Printf("dropped existing collections")
	}

	if err := mongodoc.EnsureIndexes(ctx, db, cfg.profiles, cfg.reviews); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	profile, err := buildProfile(opts)
	if err != nil {
		log.Fatalf("invalid profile flags: %v", err)
	}
	profiles := mongodoc.NewProfileRepository(db, cfg.profiles)
	if err := profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, admindomain.ErrProfileExists) {
			log.Fatalf("profile %s already exists; rerun with -drop", opts.ownerID)
		}
		log.Fatalf("failed to insert profile: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	reviews := mongodoc.NewReviewRepository(db, cfg.reviews)
	internal := 0
	for _, review := range generateReviews(rng, profile, opts) {
		review := review
		if err := reviews.Create(ctx, &review); err != nil {
			log.Fatalf("failed to insert review: %v", err)
		}
		if review.IsInternal {
			internal++
		}
	}

	log.Printf("seed complete: owner=%s qr=%s reviews=%d internal=%d", profile.ID, profile.QRCodeID, opts.reviewCount, internal)
	log.Printf("customer URL: %s", profile.QRCodeID.URL(envOrDefault("PUBLIC_BASE_URL", "http://localhost:3000")))
	log.Printf("Mongo: %s / %s (env=%s)", mongoURI, dbName, opts.envName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "env file name under ../env (e.g. local, staging)")
	flag.StringVar(&opts.ownerID, "owner", "demo-owner", "owner subject used as the profile id")
	flag.StringVar(&opts.businessName, "name", "Demo Cafe", "business name")
	flag.StringVar(&opts.reviewLink, "link", "https://g.page/r/demo-cafe/review", "external review link")
	flag.IntVar(&opts.reviewCount, "reviews", 60, "number of reviews to generate")
	flag.IntVar(&opts.days, "days", 90, "spread reviews over this many past days")
	flag.BoolVar(&opts.dropCollections, "drop", true, "drop existing collections before seeding")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "random seed for reproducible data")
	flag.Parse()

	if strings.TrimSpace(opts.ownerID) == "" {
		log.Fatal("owner must not be empty")
	}
	if opts.reviewCount < 0 {
		opts.reviewCount = 0
	}
	if opts.days < 1 {
		opts.days = 1
	}
	return opts
}

func buildProfile(opts seedOptions) (*admindomain.Profile, error) {
	name, err := admindomain.NewBusinessName(opts.businessName)
	if err != nil {
		return nil, err
	}
	email, err := admindomain.NewEmail(fmt.Sprintf("%s@example.com", strings.ToLower(strings.ReplaceAll(opts.ownerID, " ", "-"))))
	if err != nil {
		return nil, err
	}
	link, err := admindomain.NewReviewLink(opts.reviewLink)
	if err != nil {
		return nil, err
	}
	qr, err := admindomain.NewQRCodeID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	enabled := true
	return &admindomain.Profile{
		ID:                   opts.ownerID,
		BusinessName:         name,
		Email:                email,
		ReviewLink:           link,
		QRCodeID:             qr,
		AutoRedirectToGoogle: &enabled,
		ShowGooglePrompt:     &enabled,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// generateReviews skews ratings positive the way real traffic does.
func generateReviews(rng *rand.Rand, profile *admindomain.Profile, opts seedOptions) []publicdomain.Review {
	weights := []int{1, 1, 2, 3, 5}
	total := 0
	for _, w := range weights {
		total += w
	}

	now := time.Now().UTC()
	settings := publicdomain.Settings{
		AutoRedirectToGoogle: profile.AutoRedirectToGoogle,
		ShowGooglePrompt:     profile.ShowGooglePrompt,
		ExternalReviewLink:   profile.ReviewLink.String(),
	}
	cfg := settings.Resolve()

	reviews := make([]publicdomain.Review, 0, opts.reviewCount)
	for i := 0; i < opts.reviewCount; i++ {
		pick := rng.Intn(total)
		value := 1
		for idx, w := range weights {
			if pick < w {
				value = idx + 1
				break
			}
			pick -= w
		}
		rating, _ := publicdomain.NewRating(value)
		band := rating.Band()

		state := publicdomain.StateLowRatingForm
		if band == publicdomain.BandHigh {
			state = publicdomain.StateHighRatingForm
		}
		decision, err := publicdomain.DecideSubmit(state, cfg)
		if err != nil {
			continue
		}

		comments := sampleComments[band]
		sub := publicdomain.Submission{
			Comment:      comments[rng.Intn(len(comments))],
			CustomerName: sampleNames[rng.Intn(len(sampleNames))],
		}
		createdAt := now.Add(-time.Duration(rng.Int63n(int64(opts.days) * int64(24*time.Hour))))
		reviews = append(reviews, publicdomain.NewReview(profile.ID, rating, sub, decision.IsInternal, createdAt))
	}
	return reviews
}

func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil {
			return err
		}
	}
	return nil
}

// loadEnvFile applies KEY=VALUE lines; a missing file is skipped.
func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
