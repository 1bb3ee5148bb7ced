package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/models"
	"github.com/urbanrent/urban_rent/notifications"
)

// SendCheckInReminders emails tenants whose confirmed stay starts within the
// next day. The window is as wide as the cron interval so each booking is
// picked up exactly once.
func SendCheckInReminders() {
	log.Println("Running job: SendCheckInReminders...")

	now := time.Now()
	lowerBound := now.Add(24 * time.Hour)
	upperBound := now.Add(24*time.Hour + 10*time.Minute)

	var upcomingBookings []models.Booking
	err := database.DB.
		Preload("Tenant").
		Preload("Property").
		Preload("Property.Location").
		Where("status = ? AND check_in BETWEEN ? AND ?", "confirmed", lowerBound, upperBound).
		Find(&upcomingBookings).Error
	if err != nil {
		log.Printf("Error checking for upcoming stays: %v", err)
		return
	}

	for _, booking := range upcomingBookings {
		log.Printf("Sending check-in reminder for booking %s", booking.Reference)

		emailSubject := "Reminder: Your Stay Starts Tomorrow!"
		emailBody := fmt.Sprintf(
			"<h1>Check-in Reminder</h1><p>Hi %s,</p><p>Your stay at <b>%s</b> (%s, %s) starts on %s. Booking reference: %s.</p>",
			booking.Tenant.Name,
			booking.Property.Name,
			booking.Property.Location.AreaName,
			booking.Property.Location.SubCity,
			booking.CheckIn.Format("January 2, 2006"),
			booking.Reference,
		)

		go notifications.SendEmail(booking.Tenant.Name, booking.Tenant.Email, emailSubject, emailBody)
	}
}
