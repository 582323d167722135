package sqlrepo

import (
	"strings"

	"conversational-commerce/internal/eventlog"
	repo "conversational-commerce/internal/eventlog/repository"
)

// buildListQuery builds the WHERE clause + args for List using '?' placeholders.
func buildListQuery(opt repo.ListOptions) (string, []any) {
	conditions := []string{"occurred_at >= ?"}
	args := []any{opt.Start.UTC().UnixMicro()}

	if !opt.End.IsZero() {
		conditions = append(conditions, "occurred_at < ?")
		args = append(args, opt.End.UTC().UnixMicro())
	}
	if len(opt.Kinds) > 0 {
		marks := make([]string, len(opt.Kinds))
		for i, k := range opt.Kinds {
			marks[i] = "?"
			args = append(args, string(k))
		}
		conditions = append(conditions, "kind IN ("+strings.Join(marks, ", ")+")")
	}
	return strings.Join(conditions, " AND "), args
}

// payloadDoc is the JSON stored in the payload column.
type payloadDoc struct {
	Message     *eventlog.MessagePayload     `json:"message,omitempty"`
	ProductView *eventlog.ProductViewPayload `json:"product_view,omitempty"`
	Action      *eventlog.ActionPayload      `json:"action,omitempty"`
	Transaction *eventlog.TransactionPayload `json:"transaction,omitempty"`
}

func toPayloadDoc(e eventlog.Event) payloadDoc {
	return payloadDoc{
		Message:     e.Message,
		ProductView: e.ProductView,
		Action:      e.Action,
		Transaction: e.Transaction,
	}
}

func (d payloadDoc) apply(e *eventlog.Event) {
	e.Message = d.Message
	e.ProductView = d.ProductView
	e.Action = d.Action
	e.Transaction = d.Transaction
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
