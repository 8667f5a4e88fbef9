package records

// Row schemas only insist on an identifier. Every other attribute may be
// missing or null and is defaulted when rendered.
const eventLogSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "event_logs row",
	"type": "object",
	"required": ["id"],
	"properties": {
		"id":         {"type": ["integer", "string"]},
		"event_type": {"type": ["string", "null"]},
		"timestamp":  {"type": ["string", "null"]},
		"details":    {"type": ["string", "null"]}
	}
}`

const messageLogSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "message_logs row",
	"type": "object",
	"required": ["id"],
	"properties": {
		"id":         {"type": ["integer", "string"]},
		"user":       {"type": ["string", "null"]},
		"avatar_url": {"type": ["string", "null"]},
		"content":    {"type": ["string", "null"]},
		"channel":    {"type": ["string", "null"]},
		"timestamp":  {"type": ["string", "null"]}
	}
}`
