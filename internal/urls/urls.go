package urls

import (
	"fmt"
	"net/url"
)

// SchoolWebsite is the school's public site
const SchoolWebsite = "https://www.stmarysjajpurroad.com/"

// CampusPhoto is shown on the landing screen when images are supported
const CampusPhoto = "https://www.stmarysjajpurroad.com/school-admin/uploads/gallery/1576842162ing.jpg"

// QRService renders the payment QR code
const QRService = "https://api.qrserver.com/v1/create-qr-code/"

// UPIPayee is the school's collection account
const (
	UPIPayee     = "stmaryschool@bank"
	UPIPayeeName = "StMarysSchool"
)

// UPIPayment returns the upi:// intent for paying amount rupees
func UPIPayment(amount int) string {
	q := url.Values{}
	q.Set("pa", UPIPayee)
	q.Set("pn", UPIPayeeName)
	q.Set("am", fmt.Sprintf("%d.00", amount))
	q.Set("cu", "INR")
	return "upi://pay?" + q.Encode()
}

// PaymentQR returns the URL of a QR image encoding the UPI intent for amount
func PaymentQR(amount int) string {
	q := url.Values{}
	q.Set("size", "200x200")
	q.Set("data", UPIPayment(amount))
	return QRService + "?" + q.Encode()
}
