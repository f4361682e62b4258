package initializers

import (
	"log"

	"github.com/prasetyadi/surya-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.SolarCalculation{},
	)
	log.Println("Database synced successfully.")
}
