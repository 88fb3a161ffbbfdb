package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"prepo/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		return fmt.Errorf("email sender not configured")
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Prepo <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.footer { padding: 20px; text-align: center; color: #999999; font-size: 12px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">Prepo Learning Platform</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendPayoutNotification emails a mentor that their share for a confirmed
// enrollment has been released (or queued for manual payout).
func SendPayoutNotification(email, courseCode string, amount float64, txHash string) error {
	status := "has been sent from the owner wallet"
	if txHash == "" {
		status = "is queued for manual payout"
	}

	body := fmt.Sprintf(`
		<p>An enrollment for course <b>%s</b> was confirmed.</p>
		<p>Your mentor share of <b>%.6f CELO</b> %s.</p>
		<p>Payout transaction: <code>%s</code></p>`,
		courseCode, amount, status, txHash)

	return SendEmail([]string{email}, "Enrollment confirmed – mentor payout", getEmailTemplate("Payout Released", body))
}
