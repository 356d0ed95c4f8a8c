package catalog

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"
)

// ContactForPrice is shown in place of a missing price.
const ContactForPrice = "Liên hệ"

var viPrinter = message.NewPrinter(language.Vietnamese)

// foldName prepares a name for case-insensitive matching. Input typed with
// combining marks and precomposed names compare equal after NFC.
func foldName(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// FormatPrice renders a VND amount with Vietnamese digit grouping, e.g.
// "15.000.000đ". Nil and zero prices render as ContactForPrice.
func FormatPrice(price *int64) string {
	if price == nil || *price == 0 {
		return ContactForPrice
	}
	return viPrinter.Sprintf("%d", *price) + "đ"
}
