package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedInstitutions = []string{
	"MIT", "ETH Zurich", "KU Leuven", "Univ. of Tokyo", "Max Planck Institute",
}

var seedInterests = [][]string{
	{"machine learning", "genomics"},
	{"climate modeling", "statistics"},
	{"robotics", "control theory"},
	{"neuroscience", "imaging"},
	{"materials science", "simulation"},
}

var seedSkills = [][]string{
	{"python", "pytorch"},
	{"r", "bayesian inference"},
	{"ros", "c++"},
	{"matlab", "signal processing"},
	{"fortran", "hpc"},
}

// SeedTestData resets the database and populates it with demo researchers
// and swipe decisions.
//
// Behavior:
//  1. Clears existing data in profiles, match_decisions and notifications.
//  2. Creates 20 researcher profiles with hashed passwords.
//  3. Generates ~150 decisions with ~70% matches; every 3rd pair is made
//     mutual, with the corresponding match notification.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"notifications", "match_decisions", "profiles"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	log.Println("Cleared existing data")

	// --- Seed profiles ---
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	for i := 1; i <= 20; i++ {
		first := fmt.Sprintf("Researcher%d", i)
		last := "Demo"
		institution := seedInstitutions[i%len(seedInstitutions)]
		bio := fmt.Sprintf("Demo researcher %d looking for collaborators.", i)
		pitch := "Open to co-authoring and grant proposals."

		profile := Profile{
			Email:        fmt.Sprintf("researcher%d@example.com", i),
			PasswordHash: string(hash),
			Active:       true,
			LastLoginAt:  time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
			FirstName:    &first,
			LastName:     &last,
			Bio:          &bio,
			Institution:  &institution,
			CollabPitch:  &pitch,
			Interests:    seedInterests[i%len(seedInterests)],
			Skills:       seedSkills[i%len(seedSkills)],
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
	}
	log.Println("Seeded 20 profiles.")

	var ids []uint64
	if err := db.Model(&Profile{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to load seeded ids: %w", err)
	}

	// --- Seed decisions ---
	counter := 0
	for _, matcherID := range ids {
		for j := 0; j < 8; j++ {
			matcheeID := ids[r.Intn(len(ids))]
			if matcherID == matcheeID {
				continue
			}

			status := DecisionRejected
			if r.Intn(100) < 70 {
				status = DecisionMatched
			}

			// guarantee mutual matches every 3rd pair
			if counter%3 == 0 {
				status = DecisionMatched
				recip := MatchDecision{
					MatcherID: matcheeID,
					MatcheeID: matcherID,
					Status:    DecisionMatched,
				}
				if err := db.Create(&recip).Error; err != nil {
					return fmt.Errorf("failed to seed reciprocal decision: %w", err)
				}

				link := fmt.Sprintf("/profile/%d", matcherID)
				sender := matcherID
				notification := Notification{
					RecipientID: matcheeID,
					SenderID:    &sender,
					Type:        NotificationTypeMatch,
					Content:     "You have a new collaboration match!",
					LinkTo:      &link,
				}
				if err := db.Create(&notification).Error; err != nil {
					return fmt.Errorf("failed to seed notification: %w", err)
				}
			}

			decision := MatchDecision{
				MatcherID: matcherID,
				MatcheeID: matcheeID,
				Status:    status,
			}
			if err := db.Create(&decision).Error; err != nil {
				return fmt.Errorf("failed to seed decision: %w", err)
			}

			counter++
		}
	}

	log.Println("Seeding completed.")
	return nil
}
