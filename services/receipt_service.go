package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/urbanrent/urban_rent/configs"
	"github.com/urbanrent/urban_rent/database"
	"github.com/urbanrent/urban_rent/models"
)

// GenerateBookingReceipt renders a PDF receipt for a confirmed booking,
// uploads it to Cloudinary and stores the URL on the booking. Failures are
// logged and swallowed; the booking stays confirmed either way.
func GenerateBookingReceipt(booking models.Booking) {
	htmlData, err := generateReceiptHTML(&booking)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML for booking %s: %v", booking.Reference, err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF for booking %s: %v", booking.Reference, err)
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, booking.Reference)
	if err != nil {
		log.Printf("🔥 Failed to upload receipt for booking %s: %v", booking.Reference, err)
		return
	}

	if err := database.DB.Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Update("receipt_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Failed to store receipt URL for booking %s: %v", booking.Reference, err)
		return
	}

	log.Printf("✅ Generated receipt for booking %s.", booking.Reference)
}

func generateReceiptHTML(booking *models.Booking) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	nights := int(booking.CheckOut.Sub(booking.CheckIn).Hours() / 24)
	data := struct {
		Reference    string
		TenantName   string
		PropertyName string
		AreaName     string
		SubCity      string
		CheckIn      string
		CheckOut     string
		Nights       int
		Guests       int
		TotalPrice   string
		IssuedAt     string
	}{
		Reference:    booking.Reference,
		TenantName:   booking.Tenant.Name,
		PropertyName: booking.Property.Name,
		AreaName:     booking.Property.Location.AreaName,
		SubCity:      booking.Property.Location.SubCity,
		CheckIn:      booking.CheckIn.Format("January 2, 2006"),
		CheckOut:     booking.CheckOut.Format("January 2, 2006"),
		Nights:       nights,
		Guests:       booking.Guests,
		TotalPrice:   fmt.Sprintf("%.2f ETB", booking.TotalPrice),
		IssuedAt:     time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, reference string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", reference, uuid.New().String()),
		Folder:       "urbanrent_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
