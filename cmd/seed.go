package cmd

import (
	"log"
	"time"

	"library-rental/core/config"
	"library-rental/core/database"
	"library-rental/core/logger"
	catalogmodels "library-rental/feature/catalog/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the catalog with sample books",
	Long:  `Inserts a small set of sample books, keyed by ISBN so reruns are safe.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(&catalogmodels.Book{}); err != nil {
			logg.Fatal("Failed to migrate schema", zap.Error(err))
		}

		created := 0
		for _, book := range sampleBooks() {
			res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&book)
			if res.Error != nil {
				logg.Fatal("Failed to seed book", zap.String("isbn", book.ISBN), zap.Error(res.Error))
			}
			if res.RowsAffected > 0 {
				created++
			}
		}
		logg.Info("Seed complete", zap.Int("created", created))
	},
}

func sampleBooks() []catalogmodels.Book {
	date := func(value string) *time.Time {
		t, _ := time.Parse("2006-01-02", value)
		return &t
	}
	str := func(value string) *string { return &value }

	books := []catalogmodels.Book{
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "9780743273565", PublishedDate: date("1925-04-10"), Genre: str("Classic"), TotalCopies: 5, AvailableCopies: 5},
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "9780061120084", PublishedDate: date("1960-07-11"), Genre: str("Fiction"), TotalCopies: 3, AvailableCopies: 3},
		{Title: "1984", Author: "George Orwell", ISBN: "9780451524935", PublishedDate: date("1949-06-08"), Genre: str("Dystopian"), TotalCopies: 4, AvailableCopies: 4},
		{Title: "Pride and Prejudice", Author: "Jane Austen", ISBN: "9781503290563", PublishedDate: date("1813-01-28"), Genre: str("Romance"), TotalCopies: 2, AvailableCopies: 2},
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", ISBN: "9780547928227", PublishedDate: date("1937-09-21"), Genre: str("Fantasy"), TotalCopies: 6, AvailableCopies: 6},
		{Title: "The Catcher in the Rye", Author: "J.D. Salinger", ISBN: "9780316769488", PublishedDate: date("1951-07-16"), Genre: str("Coming-of-age"), TotalCopies: 3, AvailableCopies: 3},
		{Title: "Brave New World", Author: "Aldous Huxley", ISBN: "9780060850524", PublishedDate: date("1932-08-30"), Genre: str("Dystopian"), TotalCopies: 4, AvailableCopies: 4},
	}
	for i := range books {
		books[i].ID = uuid.NewString()
	}
	return books
}

func init() {
	RootCmd.AddCommand(seedCmd)
}
