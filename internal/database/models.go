package database

import "time"

type User struct {
	Id           int
	Username     string
	EmailAddress string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Conversation struct {
	Id        int
	Title     string
	JoinCode  string
	OwnerId   int
	MemberIds []int
	CreatedAt time.Time
}

type Message struct {
	Id             int
	ConversationId int
	SenderId       int
	Content        string
	CreatedAt      time.Time
}

type CreateAccountParams struct {
	Username     string
	EmailAddress string
	PasswordHash string
}

type CreateConversationParams struct {
	Title    string
	JoinCode string
	OwnerId  int
}
