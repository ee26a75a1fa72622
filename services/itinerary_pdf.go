package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"myanmar-travel/models"
	"myanmar-travel/utils"

	"github.com/jung-kurt/gofpdf"
)

// ItineraryPDF renders a trip and its cost breakdown as an A4 document.
// The core Helvetica font is Latin-1 only, so text goes through tr.
func ItineraryPDF(trip models.TripPlan, cost CostBreakdown, travelerName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// header bar
	pdf.SetFillColor(200, 16, 46)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(120, 10, "Myanmar Travel Planner", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, tr("Itinerary "+trip.ReferenceCode), "", 1, "L", false, 0, "")
	pdf.SetY(36)

	if trip.Status != models.TripBooked {
		pdf.SetFillColor(255, 248, 225)
		pdf.SetTextColor(130, 90, 20)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(170, 8, "Draft plan. Prices are estimates until the trip is booked.", "", 1, "C", true, 0, "")
		pdf.Ln(4)
	}

	section := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, tr(value), "", 1, "L", false, 0, "")
	}

	section("Trip")
	if travelerName == "" {
		travelerName = "Traveler"
	}
	row("Traveler", travelerName)
	row("Title", trip.Title)
	row("Destination", trip.Destination.Name)
	row("Dates", fmt.Sprintf("%s to %s (%d nights)", readableDate(trip.StartDate), readableDate(trip.EndDate), cost.Nights))
	row("Travelers", fmt.Sprintf("%d, %d room(s)", trip.Travelers, cost.Rooms))
	row("Status", strings.ToUpper(trip.Status))
	pdf.Ln(4)

	section("Hotel")
	if trip.Hotel != nil && trip.Hotel.ID != 0 {
		row("Hotel", trip.Hotel.Name)
		if trip.Hotel.Address != "" {
			row("Address", trip.Hotel.Address)
		}
		row("Rate", fmt.Sprintf("%s / night", utils.FormatUSD(trip.Hotel.PricePerNight)))
		row("Hotel total", fmt.Sprintf("%s (%s)", utils.FormatUSD(cost.HotelTotalUSD), cost.HotelDisplay))
	} else {
		row("Hotel", "Not selected")
	}
	pdf.Ln(4)

	section("Transport")
	if sel, ok := trip.Transport(); ok {
		row("Service", sel.Name)
		if sel.From != "" && sel.To != "" && sel.From != sel.To {
			row("Route", sel.From+" to "+sel.To)
		}
		when := sel.Date
		if sel.DepartureTime != "" {
			when = fmt.Sprintf("%s, %s - %s", sel.Date, sel.DepartureTime, sel.ArrivalTime)
		}
		row("When", when)
		if len(sel.Seats) > 0 {
			row("Seats", strings.Join(sel.Seats, ", "))
		}
		row("Price", fmt.Sprintf("%s x %d", utils.FormatMMK(sel.UnitPrice), sel.Quantity))
	} else {
		row("Service", "Not selected")
	}
	pdf.Ln(4)

	section("Cost")
	row("Hotel", cost.HotelDisplay)
	row("Transport", cost.TransportDisplay)
	row("Exchange rate", fmt.Sprintf("1 USD = %s", utils.FormatMMK(cost.ExchangeRate)))
	pdf.SetFillColor(212, 168, 67)
	pdf.SetTextColor(13, 24, 37)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, "TOTAL", "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, cost.TotalDisplay, "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	if strings.TrimSpace(trip.Notes) != "" {
		pdf.Ln(4)
		section("Notes")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(170, 5, tr(trip.Notes), "", "L", false)
	}

	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8, "Generated "+time.Now().UTC().Format("02 Jan 2006 15:04 UTC"), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render itinerary: %w", err)
	}
	return buf.Bytes(), nil
}

func readableDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("02 Jan 2006 (Mon)")
}

// Itinerary loads an owned trip and renders it.
func (s *TripService) Itinerary(ctx context.Context, userID, tripID uint) ([]byte, string, error) {
	trip, err := s.owned(ctx, s.DB, userID, tripID)
	if err != nil {
		return nil, "", err
	}
	var user models.User
	name := ""
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err == nil {
		name = firstNonEmpty(user.FullName, user.Username)
	}
	body, err := ItineraryPDF(trip, s.cost(trip), name)
	if err != nil {
		return nil, "", err
	}
	return body, fmt.Sprintf("itinerary-%s.pdf", trip.ReferenceCode), nil
}
