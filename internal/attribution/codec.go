package attribution

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Codec encodes tags into backend attributes and recognises them again.
type Codec struct {
	marker string
}

// NewCodec creates a codec accepting only tags with the given source marker.
func NewCodec(marker string) Codec {
	if marker == "" {
		marker = DefaultSourceMarker
	}
	return Codec{marker: marker}
}

// Marker returns the source marker this codec writes and accepts.
func (c Codec) Marker() string {
	return c.marker
}

// Encode renders t as attributes. An empty Source is filled with the codec marker.
func (c Codec) Encode(t Tag) []Attribute {
	source := t.Source
	if source == "" {
		source = c.marker
	}

	attrs := []Attribute{
		{Key: KeyConversationID, Value: t.ConversationID},
		{Key: KeyUserID, Value: t.UserID},
		{Key: KeySource, Value: source},
	}
	if !t.Timestamp.IsZero() {
		attrs = append(attrs, Attribute{Key: KeyTimestamp, Value: t.Timestamp.UTC().Format(time.RFC3339Nano)})
	}
	return attrs
}

// Decode recognises a tag among attrs. Anything missing, empty, malformed or
// carrying another source marker yields ok == false.
func (c Codec) Decode(attrs []Attribute) (Tag, bool) {
	values := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if _, seen := values[a.Key]; !seen {
			values[a.Key] = a.Value
		}
	}
	return c.fromValues(values)
}

func (c Codec) fromValues(values map[string]string) (Tag, bool) {
	t := Tag{
		ConversationID: values[KeyConversationID],
		UserID:         values[KeyUserID],
		Source:         values[KeySource],
	}
	if !t.WellFormed() || t.Source != c.marker {
		return Tag{}, false
	}
	if ts, err := time.Parse(time.RFC3339, values[KeyTimestamp]); err == nil {
		t.Timestamp = ts.UTC()
	}
	return t, true
}

// DecodePayload looks for a tag in the attribute lists of a raw backend
// payload. Keys come from "key" or "name"; values may be strings or numbers.
// Any unexpected JSON shape yields ok == false.
func (c Codec) DecodePayload(raw []byte) (Tag, bool) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Tag{}, false
	}

	values := make(map[string]string)
	for _, field := range payloadAttributeFields {
		list, ok := doc[field]
		if !ok || isNull(list) {
			continue
		}
		var items []map[string]json.RawMessage
		if err := json.Unmarshal(list, &items); err != nil {
			return Tag{}, false
		}
		for _, item := range items {
			key, ok := stringField(item, "key")
			if !ok || key == "" {
				key, ok = stringField(item, "name")
			}
			if !ok || key == "" {
				continue
			}
			value, ok := scalarText(item["value"])
			if !ok {
				return Tag{}, false
			}
			if _, seen := values[key]; !seen {
				values[key] = value
			}
		}
	}
	return c.fromValues(values)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func stringField(item map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := item[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// scalarText renders a JSON string, number or null as text.
func scalarText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || isNull(raw) {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err == nil {
		return strings.TrimSpace(n.String()), true
	}
	return "", false
}
