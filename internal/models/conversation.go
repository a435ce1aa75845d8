package models

import "time"

// Conversation and Message are published through /schema for clients building chat.
// Nothing stores or serves them yet.
type Conversation struct {
	ID             string    `json:"id" bson:"_id"`
	ParticipantIDs []string  `json:"participant_ids" bson:"participant_ids" jsonschema:"required"`
	Type           string    `json:"type" bson:"type" jsonschema:"enum=1:1,enum=group,enum=project,default=1:1"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

type Message struct {
	ID             string    `json:"id" bson:"_id"`
	ConversationID string    `json:"conversation_id" bson:"conversation_id" jsonschema:"required"`
	FromUser       string    `json:"from_user" bson:"from_user" jsonschema:"required"`
	Text           string    `json:"text" bson:"text" jsonschema:"required"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}
