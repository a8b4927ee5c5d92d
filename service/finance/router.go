package finance

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jaroslaw-weber/finbot-server/service/ai"
)

// TransactionParser extracts structured transaction data from free text.
// A nil result means the text could not be parsed; the reason is not
// distinguishable by the caller.
type TransactionParser interface {
	ParseTransaction(ctx context.Context, text string) *ai.ParsedTransaction
}

type commandKind int

const (
	cmdRecord commandKind = iota
	cmdSummary
	cmdHistory
	cmdClear
	cmdHelp
)

// commands maps every recognized keyword and alias onto its handler kind.
// The set is fixed at compile time; nothing registers commands at runtime.
var commands = map[string]commandKind{
	"summary": cmdSummary,
	"total":   cmdSummary,
	"history": cmdHistory,
	"list":    cmdHistory,
	"clear":   cmdClear,
	"help":    cmdHelp,
}

// historyLimit is how many transactions the history command shows.
const historyLimit = 10

// Router dispatches one inbound message to the matching command handler, or
// to the transaction-recording fallback for free text.
type Router struct {
	store  *Store
	parser TransactionParser
}

func NewRouter(store *Store, parser TransactionParser) *Router {
	return &Router{store: store, parser: parser}
}

// HandleMessage routes one message and returns the reply text. An empty
// reply means nothing should be sent back. Storage errors propagate; the
// webhook layer converts them to HTTP 500.
func (r *Router) HandleMessage(ctx context.Context, from, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	switch classify(text) {
	case cmdSummary:
		return r.handleSummary(from)
	case cmdHistory:
		return r.handleHistory(from)
	case cmdClear:
		return r.handleClear(from)
	case cmdHelp:
		return helpMessage, nil
	default:
		return r.handleRecord(ctx, from, text)
	}
}

// classify lowercases and trims the text before matching it against the
// command table. Anything unrecognized is treated as a transaction
// description, not an error.
func classify(text string) commandKind {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if kind, ok := commands[normalized]; ok {
		return kind
	}
	return cmdRecord
}

func (r *Router) handleSummary(from string) (string, error) {
	summary, err := r.store.Summarize(from)
	if err != nil {
		return "", err
	}
	return formatSummary(summary), nil
}

func (r *Router) handleHistory(from string) (string, error) {
	transactions, err := r.store.ListByUser(from, historyLimit)
	if err != nil {
		return "", err
	}
	return formatTransactionList(transactions), nil
}

func (r *Router) handleClear(from string) (string, error) {
	if err := r.store.Clear(from); err != nil {
		return "", err
	}
	return clearedMessage, nil
}

// handleRecord parses the raw text (not the lowercased form) and saves the
// transaction.
func (r *Router) handleRecord(ctx context.Context, from, text string) (string, error) {
	parsed := r.parser.ParseTransaction(ctx, text)
	if parsed == nil {
		return parseFailedMessage, nil
	}

	// Re-checked after the parser so a bad parse can never reach the store.
	if parsed.Amount <= 0 || parsed.Item == "" || parsed.Category == "" {
		slog.Error("Invalid parsed transaction",
			"amount", parsed.Amount, "item", parsed.Item, "category", parsed.Category)
		return invalidDataMessage, nil
	}

	if _, err := r.store.Insert(from, parsed.Amount, parsed.Item, parsed.Category, parsed.Store); err != nil {
		return "", err
	}

	return formatSaved(parsed), nil
}
