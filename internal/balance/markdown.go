package balance

import (
	"fmt"
	"strings"
)

// Markdown renders the page as a markdown table for terminal display.
func Markdown(page Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Wallet %s\n\n", page.Wallet)

	if len(page.Rows) == 0 {
		b.WriteString("_No balances to display._\n")
		return b.String()
	}

	b.WriteString("| Blockchain | Currency | Amount | USD |\n")
	b.WriteString("|---|---|--:|--:|\n")
	for _, row := range page.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			escapeCell(row.Blockchain), escapeCell(row.Currency), row.FormattedAmount, row.USDDisplay)
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", page.TotalUSDDisplay)
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
