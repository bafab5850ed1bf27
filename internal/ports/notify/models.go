package notify

import "time"

// DonationMail son los datos de una donación que necesitan los emails.
type DonationMail struct {
	ID        int64
	Reference string
	Name      string
	Email     string
	Phone     string
	Amount    float64
	Method    string
	Message   string
	Date      time.Time
}

// ContactMail son los datos de un mensaje de contacto.
type ContactMail struct {
	ID      int64
	Name    string
	Email   string
	Phone   string
	Message string
	Date    time.Time
}
