package engine

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func formatAmount(n int64) string {
	return printer.Sprintf("%d", n)
}
