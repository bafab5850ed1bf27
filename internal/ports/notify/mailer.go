package notify

import "context"

// Mailer envía los emails transaccionales. La entrega es best-effort: un error
// nunca revierte la escritura que originó el email.
type Mailer interface {
	DonationReceipt(ctx context.Context, d DonationMail) error
	DonationAdminNotice(ctx context.Context, d DonationMail) error
	ContactNotice(ctx context.Context, c ContactMail) error
}
