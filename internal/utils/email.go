package utils

import (
	"fmt"
	"log"

	"github.com/wneessen/go-mail"

	"farmavida_back_end/internal/config"
	"farmavida_back_end/internal/models"
)

var smtpConfig config.SMTPConfig

// InitMailer installe la configuration SMTP au démarrage.
func InitMailer(cfg config.SMTPConfig) {
	smtpConfig = cfg
}

// SendOrderConfirmationEmail envoie l'e-mail de confirmation de commande.
// L'envoi est best-effort: un échec ne remet jamais en cause la commande.
func SendOrderConfirmationEmail(confirmation *models.OrderConfirmation) error {
	msg := mail.NewMsg()

	from := smtpConfig.From
	if from == "" {
		from = "pedidos@farmavida.com.br"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(confirmation.Customer.Email); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Confirmation de votre commande %s", confirmation.ID))
	msg.SetBodyString(mail.TypeTextHTML, GenerateOrderConfirmationHTML(confirmation))

	port := smtpConfig.Port
	if port <= 0 {
		port = 587
	}

	client, err := mail.NewClient(smtpConfig.Host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(smtpConfig.Username),
		mail.WithPassword(smtpConfig.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail de confirmation à", confirmation.Customer.Email)
	return client.DialAndSend(msg)
}

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande
func GenerateOrderConfirmationHTML(confirmation *models.OrderConfirmation) string {
	itemsHTML := ""
	for _, item := range confirmation.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>R$ %.2f</td>
				<td>R$ %.2f</td>
			</tr>`, item.Name, item.Quantity, item.UnitPrice, item.UnitPrice*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande</h2>
		<p>Bonjour %s,</p>
		<p>Votre commande <strong>%s</strong> a bien été enregistrée.</p>
		<table style="width: 100%%; border-collapse: collapse;" border="1" cellpadding="8">
			<tr style="background-color: #f0f0f0;">
				<th>Produit</th>
				<th>Quantité</th>
				<th>Prix unitaire</th>
				<th>Total</th>
			</tr>%s
		</table>
		<p style="font-size: 18px;"><strong>Total : R$ %.2f</strong></p>
		<p>Merci de votre confiance,<br>L'équipe FarmaVida</p>
	</div>
</body>
</html>`, confirmation.Customer.Name, confirmation.ID, itemsHTML, confirmation.Total)
}
