package analytics

import "conversational-commerce/internal/eventlog"

// Limits for TopProducts.
const (
	DefaultTopLimit = 10
	MaxTopLimit     = 100
)

// Overview summarizes a window. Amounts are in minor units; rates are
// percentages rounded to 2 decimals.
type Overview struct {
	Window eventlog.Window

	Conversations       int
	UniqueUsers         int
	Messages            int
	AvgMessagesPerConv  float64
	CartsCreated        int
	OrdersCompleted     int
	AttributedOrders    int
	UnattributedOrders  int
	RevenueMinor        int64
	AttributedRevenue   int64
	AvgOrderValueMinor  int64
	CartToOrderRate     float64
	ConversationToOrder float64
}

// DailyRevenue is one UTC day bucket.
type DailyRevenue struct {
	Date         string // YYYY-MM-DD
	RevenueMinor int64
	Orders       int
}

// ProductPerformance ranks a product by completed-order line items.
type ProductPerformance struct {
	ProductID     string
	Title         string
	PurchaseCount int
	RevenueMinor  int64
	Views         int
}

// Funnel stage names.
const (
	StageConversationStarted = "conversation_started"
	StageProductViewed       = "product_viewed"
	StageCartCreated         = "cart_created"
	StageOrderCompleted      = "order_completed"
)

// FunnelStage counts distinct conversations reaching a stage. Percentage is
// relative to the first stage; DropOff to the previous one.
type FunnelStage struct {
	Name       string
	Count      int
	Percentage float64
	DropOff    int
}

// FunnelAnomaly is a stage whose count exceeds the stage before it.
type FunnelAnomaly struct {
	Stage         string
	Count         int
	PreviousStage string
	PreviousCount int
}

type Funnel struct {
	Window                eventlog.Window
	Stages                []FunnelStage
	Anomalies             []FunnelAnomaly
	UnattributedOrders    int
	OverallConversionRate float64
}

// ActionPerformance aggregates one operation.
type ActionPerformance struct {
	Operation    string
	Total        int
	Successful   int
	SuccessRate  float64
	AvgLatencyMS float64
}

type AgentPerformance struct {
	Window       eventlog.Window
	Total        int
	Successful   int
	Failed       int
	SuccessRate  float64
	AvgLatencyMS float64
	Actions      []ActionPerformance
}

type Engagement struct {
	Window                  eventlog.Window
	ActiveUsers             int
	RepeatUsers             int
	NewUsers                int
	RepeatRate              float64
	AvgConversationSeconds  float64
	AvgMessagesPerUser      float64
	AvgConversationsPerUser float64
}

// WebhookSubscription is one topic to register on the backend.
type WebhookSubscription struct {
	Topic   string
	Address string
	Format  string
}

type SetupGuide struct {
	Subscriptions    []WebhookSubscription
	SignatureHeader  string
	SecretConfigured bool
	SourceMarker     string
}
