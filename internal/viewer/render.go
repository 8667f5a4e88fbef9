package viewer

import (
	"bytes"
	"html/template"
	"time"

	"github.com/dhima/guild-log-viewer/internal/models"
)

const (
	// DefaultTimestampLayout renders like an en-US locale string.
	DefaultTimestampLayout = "1/2/2006, 3:04:05 PM"

	// DetailsPlaceholder is shown for event rows without details.
	DetailsPlaceholder = "No details available."

	// InvalidDate is shown for missing or unparseable timestamps.
	InvalidDate = "Invalid Date"
)

// Field labels, in display order.
const (
	LabelID        = "ID"
	LabelEventType = "Event Type"
	LabelTimestamp = "Timestamp"
	LabelDetails   = "Details"
	LabelUser      = "User"
	LabelContent   = "Content"
	LabelChannel   = "Channel"
)

var rowTemplates = template.Must(template.New("rows").Parse(`
{{- define "event" -}}
<div><strong>ID:</strong> {{.ID}}</div>
<div><strong>Event Type:</strong> {{.EventType}}</div>
<div><strong>Timestamp:</strong> {{.Timestamp}}</div>
<div><strong>Details:</strong> {{.Details}}</div>
{{- end -}}
{{- define "message" -}}
<div><img src="{{.AvatarURL}}" alt="avatar"></div>
<div><strong>ID:</strong> {{.ID}}</div>
<div><strong>User:</strong> {{.User}}</div>
<div><strong>Content:</strong> {{.Content}}</div>
<div><strong>Channel:</strong> {{.Channel}}</div>
<div><strong>Timestamp:</strong> {{.Timestamp}}</div>
{{- end -}}
`))

// TimeFormatter formats record timestamps for display. The zero value uses
// the local zone and DefaultTimestampLayout.
type TimeFormatter struct {
	Location *time.Location
	Layout   string
}

// Format renders t, or InvalidDate when t is zero.
func (f TimeFormatter) Format(t time.Time) string {
	if t.IsZero() {
		return InvalidDate
	}
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	return t.In(loc).Format(layout)
}

// Field is one labelled value of a rendered row.
type Field struct {
	Label string `json:"label" example:"Event Type"`
	Value string `json:"value" example:"Member Join"`
} // @name Field

// Row is one rendered list item.
type Row struct {
	Kind      models.LogKind `json:"kind" example:"event"`
	ID        string         `json:"id" example:"1"`
	Fields    []Field        `json:"fields"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	HTML      template.HTML  `json:"-"`
} // @name Row

// Value returns the value of the field with the given label.
func (r Row) Value(label string) (string, bool) {
	for _, f := range r.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

// Renderer turns records into rows. It holds no mutable state.
type Renderer struct {
	times TimeFormatter
}

// NewRenderer returns a renderer that formats timestamps with times.
func NewRenderer(times TimeFormatter) *Renderer {
	return &Renderer{times: times}
}

// RenderRow formats a single record. Field values go through html/template
// so markup in record content is escaped.
func (r *Renderer) RenderRow(rec models.Record) Row {
	switch v := rec.(type) {
	case models.EventLogRecord:
		return r.renderEvent(v)
	case *models.EventLogRecord:
		return r.renderEvent(*v)
	case models.MessageLogRecord:
		return r.renderMessage(v)
	case *models.MessageLogRecord:
		return r.renderMessage(*v)
	}
	return Row{Kind: rec.Kind(), ID: rec.RecordID(), Fields: []Field{{Label: LabelID, Value: rec.RecordID()}}}
}

func (r *Renderer) renderEvent(rec models.EventLogRecord) Row {
	details := DetailsPlaceholder
	if rec.Details != nil && *rec.Details != "" {
		details = *rec.Details
	}
	view := struct {
		ID, EventType, Timestamp, Details string
	}{rec.ID, string(rec.EventType), r.times.Format(rec.Timestamp), details}

	row := Row{
		Kind: models.LogKindEvent,
		ID:   rec.ID,
		Fields: []Field{
			{Label: LabelID, Value: view.ID},
			{Label: LabelEventType, Value: view.EventType},
			{Label: LabelTimestamp, Value: view.Timestamp},
			{Label: LabelDetails, Value: view.Details},
		},
	}
	row.HTML = execute("event", view, row.Fields)
	return row
}

func (r *Renderer) renderMessage(rec models.MessageLogRecord) Row {
	view := struct {
		ID, User, AvatarURL, Content, Channel, Timestamp string
	}{rec.ID, rec.User, rec.AvatarURL, rec.Content, rec.Channel, r.times.Format(rec.Timestamp)}

	row := Row{
		Kind:      models.LogKindMessage,
		ID:        rec.ID,
		AvatarURL: rec.AvatarURL,
		Fields: []Field{
			{Label: LabelID, Value: view.ID},
			{Label: LabelUser, Value: view.User},
			{Label: LabelContent, Value: view.Content},
			{Label: LabelChannel, Value: view.Channel},
			{Label: LabelTimestamp, Value: view.Timestamp},
		},
	}
	row.HTML = execute("message", view, row.Fields)
	return row
}

// execute runs a row template. The templates only read string fields, so the
// fallback to escaped plain text is not expected to trigger.
func execute(name string, data any, fields []Field) template.HTML {
	var buf bytes.Buffer
	if err := rowTemplates.ExecuteTemplate(&buf, name, data); err == nil {
		return template.HTML(buf.String())
	}
	buf.Reset()
	for _, f := range fields {
		buf.WriteString("<div>")
		buf.WriteString(template.HTMLEscapeString(f.Label + ": " + f.Value))
		buf.WriteString("</div>")
	}
	return template.HTML(buf.String())
}
