package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	mongorepo "github.com/SellStarHQ/partner-rewards-backend/internal/repositories/mongodb"
	"github.com/SellStarHQ/partner-rewards-backend/internal/services"
	"github.com/SellStarHQ/partner-rewards-backend/pkg/mongodb"
	"github.com/SellStarHQ/partner-rewards-backend/pkg/notifier"
	"github.com/joho/godotenv"
)

// Imports historical deals from a CSV file. Expected columns:
// userEmail,productType,productName,dealValue,quantity,closeDate
// Deals are created through the deal service so the same validation applies
// as for API submissions; imported deals land as PENDING and still need
// admin approval to earn points.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "partner-rewards"
	}

	if len(os.Args) < 2 {
		log.Fatal("CSV file path is required as a command line argument")
	}
	csvFilePath := os.Args[1]

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)

	userRepo := mongorepo.NewUserRepository(db)
	dealRepo := mongorepo.NewDealRepository(db)
	rateRepo := mongorepo.NewRateConfigRepository(db)
	pointsRepo := mongorepo.NewPointsHistoryRepository(db)
	tx := mongorepo.NewTransactor(client.Raw())

	dealService := services.NewDealService(dealRepo, userRepo, rateRepo, pointsRepo, tx, notifier.NewMockNotifier())

	imported, skipped, err := importDeals(context.Background(), csvFilePath, userRepo, dealService)
	if err != nil {
		log.Fatalf("Failed to import deals: %v", err)
	}

	log.Printf("Import complete: %d deals created, %d rows skipped", imported, skipped)
}

func importDeals(ctx context.Context, csvFilePath string, userRepo *mongorepo.UserRepository, dealService services.DealService) (int, int, error) {
	file, err := os.Open(csvFilePath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse CSV file: %v", err)
	}
	if len(records) < 2 {
		return 0, 0, fmt.Errorf("CSV file is empty or has only header")
	}

	imported, skipped := 0, 0
	for i, record := range records {
		if i == 0 {
			continue
		}
		if len(record) < 6 {
			log.Printf("Warning: Record %d has less than 6 fields, skipping", i)
			skipped++
			continue
		}

		email := record[0]
		productType := models.ProductType(record[1])
		productName := record[2]
		dealValue := record[3]
		quantity, err := strconv.Atoi(record[4])
		if err != nil {
			log.Printf("Warning: Record %d has invalid quantity, skipping", i)
			skipped++
			continue
		}
		closeDate, err := time.Parse("2006-01-02", record[5])
		if err != nil {
			log.Printf("Warning: Record %d has invalid close date, skipping", i)
			skipped++
			continue
		}

		user, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			log.Printf("Warning: Record %d user %s not found, skipping", i, email)
			skipped++
			continue
		}

		req := services.CreateDealRequest{
			ProductType: productType,
			ProductName: productName,
			DealValue:   dealValue,
			Quantity:    quantity,
			CloseDate:   closeDate,
		}
		if _, err := dealService.CreateDeal(ctx, user.ID, &req); err != nil {
			log.Printf("Warning: Record %d rejected: %v", i, err)
			skipped++
			continue
		}
		imported++
	}

	return imported, skipped, nil
}
