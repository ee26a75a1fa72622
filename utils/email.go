package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" && c.Password != ""
}

// TripEmail carries the fields rendered into a booking confirmation.
type TripEmail struct {
	RecipientEmail string
	RecipientName  string
	ReferenceCode  string
	Destination    string
	Hotel          string
	Transport      string
	StartDate      string
	EndDate        string
	TotalCost      string
	TripLink       string
}

var sendMail = smtp.SendMail

// SendTripConfirmationEmail sends a plain+HTML confirmation. Without SMTP
// settings it only logs the message.
func SendTripConfirmationEmail(cfg SMTPConfig, e TripEmail) error {
	if !cfg.Configured() {
		log.Printf("[MOCK EMAIL] to:%s trip:%s total:%s link:%s",
			MaskEmail(e.RecipientEmail), e.ReferenceCode, e.TotalCost, e.TripLink)
		return nil
	}

	msg := buildTripConfirmationMessage(cfg, e)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	if err := sendMail(addr, auth, cfg.Username, []string{e.RecipientEmail}, msg); err != nil {
		log.Printf("Failed to send trip confirmation to %s: %v", MaskEmail(e.RecipientEmail), err)
		return err
	}

	log.Printf("Trip confirmation %s sent to %s", e.ReferenceCode, MaskEmail(e.RecipientEmail))
	return nil
}

func buildTripConfirmationMessage(cfg SMTPConfig, e TripEmail) []byte {
	safe := func(s string) string {
		s = strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
		return strings.ReplaceAll(s, "\n", " ")
	}

	name := safe(e.RecipientName)
	ref := safe(e.ReferenceCode)
	dest := safe(e.Destination)
	hotel := safe(e.Hotel)
	if hotel == "" {
		hotel = "Not selected"
	}
	transport := safe(e.Transport)
	if transport == "" {
		transport = "Not selected"
	}
	link := safe(e.TripLink)
	if link != "" && !(strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")) {
		link = "https://" + strings.TrimLeft(link, "/")
	}

	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.Username)
	subject := fmt.Sprintf("Your Myanmar trip is booked - %s", ref)
	boundary := "----=_TRIP_EMAIL_BOUNDARY"

	plainBody := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your trip has been booked. Details:\n\n"+
			"Reference: %s\n"+
			"Destination: %s\n"+
			"Dates: %s to %s\n"+
			"Hotel: %s\n"+
			"Transport: %s\n"+
			"Total: %s\n\n"+
			"View your trip: %s\n\n"+
			"Safe travels,\n%s",
		name, ref, dest, safe(e.StartDate), safe(e.EndDate), hotel, transport, safe(e.TotalCost), link, cfg.FromName,
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Trip booked</title>
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:640px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
.label { font-weight:700; width:140px; display:inline-block; }
.btn { display:inline-block; padding:12px 20px; background:#c8102e; color:#fff; text-decoration:none; border-radius:6px; margin-top:16px; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>Your trip is booked</h2>
    <p>Dear %s,</p>
    <p><span class="label">Reference:</span> %s</p>
    <p><span class="label">Destination:</span> %s</p>
    <p><span class="label">Dates:</span> %s &ndash; %s</p>
    <p><span class="label">Hotel:</span> %s</p>
    <p><span class="label">Transport:</span> %s</p>
    <p><span class="label">Total:</span> %s</p>
    <a class="btn" href="%s" target="_blank">View my trip</a>
  </div>
</div>
</body>
</html>`,
		name, ref, dest, safe(e.StartDate), safe(e.EndDate), hotel, transport, safe(e.TotalCost), link,
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", e.RecipientEmail))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(sb.String())
}
