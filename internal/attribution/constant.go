package attribution

// Reserved attribute keys written onto backend carts.
const (
	KeyConversationID = "_agent_conversation_id"
	KeyUserID         = "_agent_user_id"
	KeySource         = "_agent_source"
	KeyTimestamp      = "_agent_timestamp"
)

// DefaultSourceMarker identifies carts created by the chat agent.
const DefaultSourceMarker = "behold_whatsapp_agent"

// MaxFieldLength bounds every tag field, in bytes.
const MaxFieldLength = 255

// payloadAttributeFields are searched, in order, by DecodePayload.
var payloadAttributeFields = []string{
	"attributes",
	"note_attributes",
	"noteAttributes",
	"custom_attributes",
	"customAttributes",
}
