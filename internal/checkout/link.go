package checkout

import (
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DeepLink builds https://<host>/<recipient>?text=<message> with the message
// percent-encoded (spaces as %20, not "+"). Non-digit characters are stripped
// from recipient, which is how messaging hosts expect phone numbers.
func DeepLink(host, recipient, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, recipient)

	u := url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     "/" + digits,
		RawQuery: "text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20"),
	}
	return u.String()
}

// QRCode renders link as a PNG of size×size pixels, for visitors checking
// out on a desktop who will finish on their phone.
func QRCode(link string, size int) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("checkout.QRCode: %w", err)
	}
	return png, nil
}
