package agent

import (
	"fmt"
	"sort"
	"time"
)

// Operation is a commerce backend operation the agent layer may trigger.
type Operation string

const (
	OpSearchProducts   Operation = "search_products"
	OpGetProduct       Operation = "get_product"
	OpCreateCart       Operation = "create_cart"
	OpAddToCart        Operation = "add_to_cart"
	OpUpdateCart       Operation = "update_cart"
	OpGetCart          Operation = "get_cart"
	OpCheckout         Operation = "checkout"
	OpTrackOrder       Operation = "track_order"
	OpGetStorePolicies Operation = "get_store_policies"
)

var descriptions = map[Operation]string{
	OpSearchProducts:   "Search the catalog by free text",
	OpGetProduct:       "Fetch one product with its variants",
	OpCreateCart:       "Create a cart attributed to the conversation",
	OpAddToCart:        "Add lines to the active cart",
	OpUpdateCart:       "Change quantities or remove lines",
	OpGetCart:          "Fetch the active cart",
	OpCheckout:         "Hand the user a checkout link",
	OpTrackOrder:       "Look up an order's fulfillment status",
	OpGetStorePolicies: "Fetch shipping, refund and privacy policies",
}

// ParseOperation returns the Operation named s.
func ParseOperation(s string) (Operation, error) {
	op := Operation(s)
	if _, ok := descriptions[op]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
	return op, nil
}

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	_, ok := descriptions[op]
	return ok
}

// Description returns a one-line description of op.
func (op Operation) Description() string {
	return descriptions[op]
}

// Operations lists every operation, sorted by name.
func Operations() []Operation {
	ops := make([]Operation, 0, len(descriptions))
	for op := range descriptions {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Action is one timed operation, ready to be recorded.
type Action struct {
	UserID         string
	ConversationID string
	Operation      Operation
	Parameters     map[string]any
	ResultSummary  string
	Success        bool
	Latency        time.Duration
	At             time.Time
}
