package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbanrent/urban_rent/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGenerateBookingReference(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Booking{}))

	code, err := GenerateBookingReference(db)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "UR-"))
	assert.Len(t, code, 11)
	for _, r := range code[3:] {
		assert.Contains(t, letterBytes, string(r))
	}
}

func TestGenerateBookingReferenceSkipsTakenCodes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Booking{}))

	require.NoError(t, db.Create(&models.Booking{
		ID:         uuid.New(),
		Reference:  "UR-TAKEN001",
		PropertyID: uuid.New(),
		TenantID:   uuid.New(),
		Guests:     1,
		TotalPrice: 100,
		Status:     "pending",
	}).Error)

	for i := 0; i < 20; i++ {
		code, err := GenerateBookingReference(db)
		require.NoError(t, err)
		assert.NotEqual(t, "UR-TAKEN001", code)
	}
}
