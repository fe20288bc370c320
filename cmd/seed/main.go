package main

import (
	"flag"
	"log"
	"os"

	"sms-rental-be/pkg/database"

	"github.com/joho/godotenv"
)

// Promotes an existing account to admin and optionally tops up its
// balance. Meant for bootstrapping a fresh environment.
func main() {
	email := flag.String("email", "", "email of the account to promote")
	balance := flag.Int64("balance", -1, "balance to set, negative leaves it untouched")
	flag.Parse()

	if *email == "" {
		log.Fatal("Error: -email is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	res := db.Exec(`UPDATE users SET role = 'admin', updated_at = NOW() WHERE email = ?`, *email)
	if res.Error != nil {
		log.Fatal("Error: Failed to promote user:", res.Error)
	}
	if res.RowsAffected == 0 {
		log.Fatalf("Error: No account with email %s. Log in once first so the account exists.", *email)
	}
	log.Printf("Promoted %s to admin", *email)

	if *balance >= 0 {
		if err := db.Exec(`UPDATE users SET balance = ?, updated_at = NOW() WHERE email = ?`, *balance, *email).Error; err != nil {
			log.Fatal("Error: Failed to set balance:", err)
		}
		log.Printf("Set balance of %s to %d", *email, *balance)
	}
}
