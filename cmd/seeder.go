package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	expenseDatamodel "github.com/TamilarasanG17/VT-Wallet/internal/core/datamodel/expense"
	userDatamodel "github.com/TamilarasanG17/VT-Wallet/internal/core/datamodel/user"
	"github.com/TamilarasanG17/VT-Wallet/internal/timebucket"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo user and sample expenses for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			if err := gormDB.Exec("DELETE FROM expenses").Error; err != nil {
				log.Fatalf("failed to clear expenses: %v", err)
			}
			if err := gormDB.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		demoEmail := "tamil@mail.com"
		var demo userDatamodel.User
		err = gormDB.Where("email = ?", demoEmail).First(&demo).Error
		if err == nil {
			fmt.Println("demo user already exists:", demoEmail)
		} else {
			demo = userDatamodel.User{
				Username:     "Tamil",
				Email:        demoEmail,
				PasswordHash: string(hash),
				IsVerified:   true,
			}
			if err := gormDB.Create(&demo).Error; err != nil {
				log.Fatalf("failed to insert demo user: %v", err)
			}
			fmt.Println("Seeded demo user:", demoEmail)
		}

		now := time.Now().UTC()
		samples := []struct {
			name     string
			amount   string
			category string
			daysAgo  int
		}{
			{"Groceries", "54.20", "food", 0},
			{"Coffee", "4.50", "food", 1},
			{"Bus pass", "30.00", "travel", 2},
			{"Cinema", "12.00", "entertainment", 5},
			{"Electricity", "88.75", "bills", 12},
			{"Sneakers", "120.00", "shopping", 20},
			{"Train ticket", "45.30", "travel", 35},
			{"Streaming", "9.99", "entertainment", 40},
		}

		for _, s := range samples {
			date := now.AddDate(0, 0, -s.daysAgo)
			buckets := timebucket.Compute(date)
			record := expenseDatamodel.Expense{
				ID:        uuid.NewString(),
				UserID:    demo.ID,
				Name:      s.name,
				Amount:    decimal.RequireFromString(s.amount),
				Category:  s.category,
				Date:      date,
				Week:      buckets.WeekLabel,
				Month:     buckets.MonthName,
				Year:      buckets.Year,
				CreatedAt: now,
			}
			if err := gormDB.Create(&record).Error; err != nil {
				log.Fatalf("failed to insert sample expense %q: %v", s.name, err)
			}
		}
		fmt.Printf("Seeded %d sample expenses for %s\n", len(samples), demoEmail)
	},
}
