package models

import "strings"

// EventType is the category label of an event_logs row.
type EventType string

const (
	EventMessageCreated     EventType = "Message Created"
	EventMessageEdited      EventType = "Message Edited"
	EventMessageDeleted     EventType = "Message Deleted"
	EventMemberJoin         EventType = "Member Join"
	EventMemberLeave        EventType = "Member Leave"
	EventChannelCreated     EventType = "Channel Created"
	EventVoiceChannelJoin   EventType = "Voice Channel Join"
	EventVoiceChannelLeave  EventType = "Voice Channel Leave"
	EventVoiceChannelSwitch EventType = "Voice Channel Switch"
	EventCommandUsed        EventType = "Command Used"
	EventRoleCreated        EventType = "Role Created"
	EventRoleDeleted        EventType = "Role Deleted"
	EventRoleAssigned       EventType = "Role Assigned"
	EventServerBoost        EventType = "Server Boost"
	EventEmojisAdded        EventType = "Emojis Added"
	EventEmojisRemoved      EventType = "Emojis Removed"
	EventServerUpdated      EventType = "Server Updated"
	EventUserTyping         EventType = "User Typing"
)

// EventTypeInfo pairs a label with the description shown next to its filter.
type EventTypeInfo struct {
	Type        EventType `json:"type" example:"Member Join"`
	Description string    `json:"description" example:"Logs when a new member joins the server."`
} // @name EventTypeInfo

var eventCatalogue = []EventTypeInfo{
	{EventMessageCreated, "Logs when a message is sent."},
	{EventMessageEdited, "Logs when a message is edited, including the content before and after the edit."},
	{EventMessageDeleted, "Logs when a message is deleted, including the content of the deleted message."},
	{EventMemberJoin, "Logs when a new member joins the server."},
	{EventMemberLeave, "Logs when a member leaves the server."},
	{EventChannelCreated, "Logs when a new channel is created."},
	{EventVoiceChannelJoin, "Logs when a member joins a voice channel."},
	{EventVoiceChannelLeave, "Logs when a member leaves a voice channel."},
	{EventVoiceChannelSwitch, "Logs when a member switches from one voice channel to another."},
	{EventCommandUsed, "Logs when a command is used, including the command name, user, and channel."},
	{EventRoleCreated, "Logs when a new role is created."},
	{EventRoleDeleted, "Logs when a role is deleted."},
	{EventRoleAssigned, "Logs when a role is assigned to a member."},
	{EventServerBoost, "Logs when a member boosts the server."},
	{EventEmojisAdded, "Logs when new emojis are added to the server."},
	{EventEmojisRemoved, "Logs when emojis are removed from the server."},
	{EventServerUpdated, "Logs when the server is updated, including changes in server properties."},
	{EventUserTyping, "Logs when a user starts typing in a channel."},
}

// EventTypes returns the catalogue in display order. The slice is a copy.
func EventTypes() []EventTypeInfo {
	out := make([]EventTypeInfo, len(eventCatalogue))
	copy(out, eventCatalogue)
	return out
}

// Describe returns the catalogue description, or "" for labels outside it.
func (t EventType) Describe() string {
	for _, info := range eventCatalogue {
		if info.Type == t {
			return info.Description
		}
	}
	return ""
}

// Slug turns the label into a lowercase, dash-separated identifier.
func (t EventType) Slug() string {
	return strings.Join(strings.Fields(strings.ToLower(string(t))), "-")
}
