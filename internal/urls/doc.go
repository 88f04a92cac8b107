// Package urls provides centralized constants for the external links shown
// to applicants: the school website, the campus photo and the UPI payment
// QR code.
//
// Usage:
//
//	import "github.com/stmarys-jajpur/admitform/internal/urls"
//
//	fmt.Printf("Pay the fee by scanning: %s\n", urls.PaymentQR(500))
package urls
