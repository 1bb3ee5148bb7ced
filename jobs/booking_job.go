package jobs

import (
	"log"
	"time"

	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/models"
)

// CompleteElapsedStays moves confirmed bookings whose check-out has passed to
// completed.
func CompleteElapsedStays() {
	log.Println("Running job: CompleteElapsedStays...")

	var elapsedBookings []models.Booking
	err := database.DB.
		Where("status = ? AND check_out < ?", "confirmed", time.Now()).
		Find(&elapsedBookings).Error
	if err != nil {
		log.Printf("Error checking for elapsed stays: %v", err)
		return
	}

	if len(elapsedBookings) == 0 {
		return
	}

	for _, booking := range elapsedBookings {
		booking.Status = "completed"
		database.DB.Save(&booking)
	}

	log.Printf("Marked %d booking(s) as completed.", len(elapsedBookings))
}
