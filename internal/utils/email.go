package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"velora_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendConfirmationEmail envoie l'email de confirmation de commande, avec le
// QR de suivi en pièce jointe
func SendConfirmationEmail(to, subject, htmlBody string, qrPNG []byte) error {
	msg := mail.NewMsg()

	if err := msg.From("noreply@velora.shop"); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if qrPNG != nil {
		msg.AttachReader("suivi_commande.png", bytes.NewReader(qrPNG))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande
func GenerateOrderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f€</td>
				<td>%.2f€</td>
			</tr>`, item.Name, item.Quantity, item.UnitPrice, item.UnitPrice*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Merci pour votre commande !</h2>
	<p>Votre commande <strong>%s</strong> est enregistrée. Paiement à la livraison.</p>
	<table border="1" cellpadding="8" cellspacing="0" style="border-collapse: collapse;">
		<tr><th>Article</th><th>Quantité</th><th>Prix unitaire</th><th>Sous-total</th></tr>
		%s
	</table>
	<p>Sous-total : %.2f€<br/>
	Livraison : %.2f€<br/>
	TVA : %.2f€<br/>
	<strong>Total à régler à la livraison : %.2f€</strong></p>
	<p>Adresse de livraison : %s, %s %s, %s</p>
	<p>Scannez le QR joint pour suivre votre commande.</p>
</body>
</html>`,
		order.ID.String(), itemsHTML,
		order.Subtotal, order.ShippingFee, order.Tax, order.TotalPrice,
		order.Shipping.Street, order.Shipping.PostalCode, order.Shipping.City, order.Shipping.Country)
}
