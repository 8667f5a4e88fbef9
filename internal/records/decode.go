// Package records turns raw backend rows into typed log records. Rows are
// checked against a JSON schema first so that shape problems surface as one
// error instead of half-filled records.
package records

import (
	"fmt"
	"strings"
	"time"

	"github.com/dhima/guild-log-viewer/internal/models"
	"github.com/valyala/fastjson"
	"github.com/xeipuuv/gojsonschema"
)

// timestampLayouts covers RFC 3339, PostgREST's zone-less timestamps and the
// text form SQL drivers hand back without parseTime.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// RowError reports the first row that failed validation or decoding.
type RowError struct {
	Kind   models.LogKind
	Index  int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %s", e.Kind, e.Index, e.Reason)
}

// Decoder validates and decodes rows. It is safe for concurrent use.
type Decoder struct {
	schemas map[models.LogKind]*gojsonschema.Schema
	parsers fastjson.ParserPool
}

// NewDecoder compiles the row schemas.
func NewDecoder() (*Decoder, error) {
	d := &Decoder{schemas: make(map[models.LogKind]*gojsonschema.Schema, 2)}
	for kind, raw := range map[models.LogKind]string{
		models.LogKindEvent:   eventLogSchema,
		models.LogKindMessage: messageLogSchema,
	} {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", kind, err)
		}
		d.schemas[kind] = schema
	}
	return d, nil
}

// MustNewDecoder panics if the embedded schemas do not compile.
func MustNewDecoder() *Decoder {
	d, err := NewDecoder()
	if err != nil {
		panic(err)
	}
	return d
}

// Decode converts rows of the given kind, preserving their order.
func (d *Decoder) Decode(kind models.LogKind, rows [][]byte) ([]models.Record, error) {
	schema, ok := d.schemas[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownLogKind, kind)
	}

	p := d.parsers.Get()
	defer d.parsers.Put(p)

	out := make([]models.Record, 0, len(rows))
	for i, raw := range rows {
		result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, &RowError{Kind: kind, Index: i, Reason: err.Error()}
		}
		if !result.Valid() {
			reasons := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				reasons = append(reasons, desc.String())
			}
			return nil, &RowError{Kind: kind, Index: i, Reason: strings.Join(reasons, "; ")}
		}

		v, err := p.ParseBytes(raw)
		if err != nil {
			return nil, &RowError{Kind: kind, Index: i, Reason: err.Error()}
		}
		if kind == models.LogKindMessage {
			out = append(out, decodeMessage(v))
		} else {
			out = append(out, decodeEvent(v))
		}
	}
	return out, nil
}

func decodeEvent(v *fastjson.Value) models.EventLogRecord {
	rec := models.EventLogRecord{
		ID:        identifier(v.Get("id")),
		EventType: models.EventType(v.GetStringBytes("event_type")),
		Timestamp: ParseTimestamp(string(v.GetStringBytes("timestamp"))),
	}
	if details := v.Get("details"); details != nil && details.Type() == fastjson.TypeString {
		s := string(details.GetStringBytes())
		rec.Details = &s
	}
	return rec
}

func decodeMessage(v *fastjson.Value) models.MessageLogRecord {
	return models.MessageLogRecord{
		ID:        identifier(v.Get("id")),
		User:      string(v.GetStringBytes("user")),
		AvatarURL: string(v.GetStringBytes("avatar_url")),
		Content:   string(v.GetStringBytes("content")),
		Channel:   string(v.GetStringBytes("channel")),
		Timestamp: ParseTimestamp(string(v.GetStringBytes("timestamp"))),
	}
}

func identifier(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	if v.Type() == fastjson.TypeString {
		return string(v.GetStringBytes())
	}
	return string(v.MarshalTo(nil))
}

// ParseTimestamp returns the zero time when raw is empty or unrecognised.
// Zone-less values are read as UTC.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
