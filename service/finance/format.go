package finance

import (
	"fmt"
	"strings"

	"github.com/jaroslaw-weber/finbot-server/cmd/models"
	"github.com/jaroslaw-weber/finbot-server/service/ai"
)

// Fixed replies. The *asterisks* render as bold in WhatsApp.
const (
	noTransactionsSummary = "📊 No transactions yet. Start by adding one!"
	noTransactionsHistory = "📋 No transactions yet"
	clearedMessage        = "🗑️ All transactions cleared"
	parseFailedMessage    = `❌ Could not parse transaction. Try: "bought coffee for $5" or type "help"`
	invalidDataMessage    = "❌ Invalid transaction data. Please try again."

	helpMessage = "📖 *Finance Tracker Help*\n\n" +
		"*Add transaction:*\n" +
		"  \"bought coffee for $5 at Starbucks\"\n" +
		"  \"spent $20 on groceries\"\n\n" +
		"*Commands:*\n" +
		"  \"summary\" - Show spending summary\n" +
		"  \"history\" - Show recent transactions\n" +
		"  \"clear\" - Clear all transactions\n" +
		"  \"help\" - Show this message"
)

// formatSummary renders the spending summary. Category ordering is inherited
// from the store (total descending).
func formatSummary(summary *models.Summary) string {
	if summary.TransactionsCount == 0 {
		return noTransactionsSummary
	}

	var b strings.Builder
	b.WriteString("📊 *Summary*\n\n")
	fmt.Fprintf(&b, "💰 Total spent: $%.2f\n", summary.TotalSpent)
	fmt.Fprintf(&b, "📝 Transactions: %d\n\n", summary.TransactionsCount)

	if len(summary.Categories) > 0 {
		b.WriteString("*Categories:*\n")
		for _, cat := range summary.Categories {
			fmt.Fprintf(&b, "• %s: $%.2f (%d)\n", cat.Category, cat.Total, cat.Count)
		}
	}

	return b.String()
}

// formatTransactionList renders the history view, most recent first.
func formatTransactionList(transactions []models.Transaction) string {
	if len(transactions) == 0 {
		return noTransactionsHistory
	}

	var b strings.Builder
	b.WriteString("📋 *Recent Transactions*\n\n")
	for _, t := range transactions {
		fmt.Fprintf(&b, "• %s - $%.2f (%s)", t.Item, t.Amount, t.Category)
		if t.Store != "" {
			fmt.Fprintf(&b, " @ %s", t.Store)
		}
		fmt.Fprintf(&b, "\n  %s\n\n", t.CreatedAt.Format("1/2/2006"))
	}

	return b.String()
}

// formatSaved renders the confirmation after recording a transaction.
func formatSaved(parsed *ai.ParsedTransaction) string {
	response := fmt.Sprintf("✅ Saved: %s - $%.2f", parsed.Item, parsed.Amount)
	if parsed.Store != "" {
		response += " at " + parsed.Store
	}
	response += fmt.Sprintf(" (%s)", parsed.Category)
	return response
}
