package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/.scentsearch/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	profileCount := 0
	accountCount := 0
	sessionCount := 0
	reviewCount := 0

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			switch {
			case len(key) > 8 && key[:8] == "profile:":
				err := item.Value(func(val []byte) error {
					var profile domain.Profile
					if err := json.Unmarshal(val, &profile); err != nil {
						return err
					}
					profileCount++
					if profileCount <= 3 {
						fmt.Printf("Profile: %s\n", profile.DisplayName)
						fmt.Printf("  ID: %s\n", profile.ID)
						fmt.Printf("  Collection: %d\n", len(profile.Collection))
						fmt.Printf("  Wishlist: %d\n", len(profile.Wishlist))
						fmt.Printf("  Top five: %d\n", len(profile.TopFive))
						if profile.SignatureScent != "" {
							fmt.Printf("  Signature: %s\n", profile.SignatureScent)
						}
						fmt.Println()
					}
					return nil
				})
				if err != nil {
					log.Printf("Error reading profile %s: %v", key, err)
				}
			case len(key) > 8 && key[:8] == "account:":
				accountCount++
			case len(key) > 8 && key[:8] == "session:":
				sessionCount++
			case key == "reviews":
				err := item.Value(func(val []byte) error {
					var reviews []domain.Review
					if err := json.Unmarshal(val, &reviews); err != nil {
						return err
					}
					reviewCount = len(reviews)
					return nil
				})
				if err != nil {
					log.Printf("Error reading reviews: %v", err)
				}
			}
		}
		return nil
	})

	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Profiles: %d\n", profileCount)
	fmt.Printf("Accounts: %d\n", accountCount)
	fmt.Printf("Sessions: %d\n", sessionCount)
	fmt.Printf("Reviews: %d\n", reviewCount)
}
