package types

import (
	"time"
)

type User struct {
	Id           int       `json:"id"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"email_address,omitempty"`
	Password     string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type Conversation struct {
	Id        int       `json:"id"`
	Title     string    `json:"title"`
	JoinCode  string    `json:"join_code,omitempty"`
	OwnerId   int       `json:"owner_id"`
	Members   []User    `json:"members,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Message struct {
	Id             int       `json:"id"`
	ConversationId int       `json:"conversation_id"`
	SenderId       int       `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
