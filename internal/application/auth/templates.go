package auth

import (
	"fmt"
	"html"
	"net/url"

	"github.com/jhoicas/opencms-api/internal/application/notification"
)

// Asuntos de los correos de autenticación.
const (
	SubjectResetRequest      = "Password Reset Request"
	SubjectResetConfirmation = "Password Reset Confirmation"
)

// ResetLink arma <base>?token=..&email=.. con ambos valores escapados.
func ResetLink(base, token, email string) string {
	return base + "?token=" + url.QueryEscape(token) + "&email=" + url.QueryEscape(email)
}

func resetRequestMessage(to, link string) notification.Message {
	return notification.Message{
		To:      to,
		Subject: SubjectResetRequest,
		HTMLBody: fmt.Sprintf(
			`<p>To reset your password, please click the link below:</p><p><a href="%s">Reset Password</a></p>`,
			html.EscapeString(link)),
	}
}

func resetConfirmationMessage(to string) notification.Message {
	return notification.Message{
		To:       to,
		Subject:  SubjectResetConfirmation,
		HTMLBody: `<p>Your password has been successfully reset.</p>`,
	}
}
