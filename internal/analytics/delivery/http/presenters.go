package http

import (
	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/model"
	"conversational-commerce/pkg/response"
)

type periodResp struct {
	StartDate response.Date `json:"start_date"`
	EndDate   response.Date `json:"end_date"`
	Days      int           `json:"days"`
}

func newPeriodResp(w eventlog.Window) periodResp {
	return periodResp{
		StartDate: response.Date(w.Start),
		EndDate:   response.Date(w.End.AddDate(0, 0, -1)),
		Days:      int(w.End.Sub(w.Start).Hours() / 24),
	}
}

// ---

type overviewConversations struct {
	Total                      int     `json:"total"`
	UniqueUsers                int     `json:"unique_users"`
	TotalMessages              int     `json:"total_messages"`
	AvgMessagesPerConversation float64 `json:"avg_messages_per_conversation"`
}

type overviewCommerce struct {
	CartsCreated       int     `json:"carts_created"`
	OrdersCompleted    int     `json:"orders_completed"`
	AttributedOrders   int     `json:"attributed_orders"`
	UnattributedOrders int     `json:"unattributed_orders"`
	TotalRevenue       float64 `json:"total_revenue"`
	AttributedRevenue  float64 `json:"attributed_revenue"`
	AvgOrderValue      float64 `json:"avg_order_value"`
}

type overviewConversion struct {
	CartToOrderRate         float64 `json:"cart_to_order_rate"`
	ConversationToOrderRate float64 `json:"conversation_to_order_rate"`
}

type overviewResp struct {
	Period        periodResp            `json:"period"`
	Conversations overviewConversations `json:"conversations"`
	Commerce      overviewCommerce      `json:"commerce"`
	Conversion    overviewConversion    `json:"conversion"`
}

func (h *handler) newOverviewResp(o analytics.Overview) overviewResp {
	return overviewResp{
		Period: newPeriodResp(o.Window),
		Conversations: overviewConversations{
			Total:                      o.Conversations,
			UniqueUsers:                o.UniqueUsers,
			TotalMessages:              o.Messages,
			AvgMessagesPerConversation: o.AvgMessagesPerConv,
		},
		Commerce: overviewCommerce{
			CartsCreated:       o.CartsCreated,
			OrdersCompleted:    o.OrdersCompleted,
			AttributedOrders:   o.AttributedOrders,
			UnattributedOrders: o.UnattributedOrders,
			TotalRevenue:       model.MajorUnits(o.RevenueMinor),
			AttributedRevenue:  model.MajorUnits(o.AttributedRevenue),
			AvgOrderValue:      model.MajorUnits(o.AvgOrderValueMinor),
		},
		Conversion: overviewConversion{
			CartToOrderRate:         o.CartToOrderRate,
			ConversationToOrderRate: o.ConversationToOrder,
		},
	}
}

// ---

type dailyRevenueItem struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type dailyRevenueResp struct {
	Period periodResp         `json:"period"`
	Days   []dailyRevenueItem `json:"days"`
}

func (h *handler) newDailyRevenueResp(w eventlog.Window, days []analytics.DailyRevenue) dailyRevenueResp {
	items := make([]dailyRevenueItem, len(days))
	for i, d := range days {
		items[i] = dailyRevenueItem{Date: d.Date, Revenue: model.MajorUnits(d.RevenueMinor), Orders: d.Orders}
	}
	return dailyRevenueResp{Period: newPeriodResp(w), Days: items}
}

// ---

type productItem struct {
	ProductID     string  `json:"product_id"`
	ProductTitle  string  `json:"product_title"`
	PurchaseCount int     `json:"purchase_count"`
	Revenue       float64 `json:"revenue"`
	Views         int     `json:"views"`
}

type topProductsResp struct {
	Period   periodResp    `json:"period"`
	Products []productItem `json:"products"`
}

func (h *handler) newTopProductsResp(w eventlog.Window, products []analytics.ProductPerformance) topProductsResp {
	items := make([]productItem, len(products))
	for i, p := range products {
		items[i] = productItem{
			ProductID:     p.ProductID,
			ProductTitle:  p.Title,
			PurchaseCount: p.PurchaseCount,
			Revenue:       model.MajorUnits(p.RevenueMinor),
			Views:         p.Views,
		}
	}
	return topProductsResp{Period: newPeriodResp(w), Products: items}
}

// ---

type funnelStageItem struct {
	Stage      string  `json:"stage"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	DropOff    int     `json:"drop_off"`
}

type funnelAnomalyItem struct {
	Stage         string `json:"stage"`
	Count         int    `json:"count"`
	PreviousStage string `json:"previous_stage"`
	PreviousCount int    `json:"previous_count"`
}

type funnelResp struct {
	Period                periodResp          `json:"period"`
	Stages                []funnelStageItem   `json:"funnel_stages"`
	Anomalies             []funnelAnomalyItem `json:"anomalies"`
	UnattributedOrders    int                 `json:"unattributed_orders"`
	OverallConversionRate float64             `json:"overall_conversion_rate"`
}

func (h *handler) newFunnelResp(f analytics.Funnel) funnelResp {
	stages := make([]funnelStageItem, len(f.Stages))
	for i, s := range f.Stages {
		stages[i] = funnelStageItem{Stage: s.Name, Count: s.Count, Percentage: s.Percentage, DropOff: s.DropOff}
	}
	anomalies := make([]funnelAnomalyItem, len(f.Anomalies))
	for i, a := range f.Anomalies {
		anomalies[i] = funnelAnomalyItem{
			Stage:         a.Stage,
			Count:         a.Count,
			PreviousStage: a.PreviousStage,
			PreviousCount: a.PreviousCount,
		}
	}
	return funnelResp{
		Period:                newPeriodResp(f.Window),
		Stages:                stages,
		Anomalies:             anomalies,
		UnattributedOrders:    f.UnattributedOrders,
		OverallConversionRate: f.OverallConversionRate,
	}
}

// ---

type actionItem struct {
	ActionName   string  `json:"action_name"`
	Total        int     `json:"total"`
	Successful   int     `json:"successful"`
	SuccessRate  float64 `json:"success_rate"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

type agentPerformanceResp struct {
	Period       periodResp   `json:"period"`
	TotalActions int          `json:"total_actions"`
	Successful   int          `json:"successful_actions"`
	Failed       int          `json:"failed_actions"`
	SuccessRate  float64      `json:"success_rate"`
	AvgLatencyMS float64      `json:"avg_response_time_ms"`
	Actions      []actionItem `json:"actions"`
}

func (h *handler) newAgentPerformanceResp(p analytics.AgentPerformance) agentPerformanceResp {
	actions := make([]actionItem, len(p.Actions))
	for i, a := range p.Actions {
		actions[i] = actionItem{
			ActionName:   a.Operation,
			Total:        a.Total,
			Successful:   a.Successful,
			SuccessRate:  a.SuccessRate,
			AvgLatencyMS: a.AvgLatencyMS,
		}
	}
	return agentPerformanceResp{
		Period:       newPeriodResp(p.Window),
		TotalActions: p.Total,
		Successful:   p.Successful,
		Failed:       p.Failed,
		SuccessRate:  p.SuccessRate,
		AvgLatencyMS: p.AvgLatencyMS,
		Actions:      actions,
	}
}

// ---

type engagementResp struct {
	Period                  periodResp `json:"period"`
	ActiveUsers             int        `json:"total_active"`
	RepeatUsers             int        `json:"repeat_users"`
	NewUsers                int        `json:"new_users"`
	RepeatRate              float64    `json:"repeat_rate"`
	AvgConversationSeconds  float64    `json:"avg_conversation_duration_seconds"`
	AvgMessagesPerUser      float64    `json:"avg_messages_per_user"`
	AvgConversationsPerUser float64    `json:"avg_conversations_per_user"`
}

func (h *handler) newEngagementResp(e analytics.Engagement) engagementResp {
	return engagementResp{
		Period:                  newPeriodResp(e.Window),
		ActiveUsers:             e.ActiveUsers,
		RepeatUsers:             e.RepeatUsers,
		NewUsers:                e.NewUsers,
		RepeatRate:              e.RepeatRate,
		AvgConversationSeconds:  e.AvgConversationSeconds,
		AvgMessagesPerUser:      e.AvgMessagesPerUser,
		AvgConversationsPerUser: e.AvgConversationsPerUser,
	}
}

// ---

type subscriptionItem struct {
	Topic   string `json:"topic"`
	Address string `json:"address"`
	Format  string `json:"format"`
}

type setupGuideResp struct {
	Subscriptions    []subscriptionItem `json:"subscriptions"`
	SignatureHeader  string             `json:"signature_header"`
	SecretConfigured bool               `json:"secret_configured"`
	SourceMarker     string             `json:"source_marker"`
}

func (h *handler) newSetupGuideResp(g analytics.SetupGuide) setupGuideResp {
	subs := make([]subscriptionItem, len(g.Subscriptions))
	for i, s := range g.Subscriptions {
		subs[i] = subscriptionItem{Topic: s.Topic, Address: s.Address, Format: s.Format}
	}
	return setupGuideResp{
		Subscriptions:    subs,
		SignatureHeader:  g.SignatureHeader,
		SecretConfigured: g.SecretConfigured,
		SourceMarker:     g.SourceMarker,
	}
}
