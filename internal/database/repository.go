package database

type Repository interface {
	CreateAccount(params CreateAccountParams) (User, error)
	GetAccountById(accountId int) (User, error)
	GetAccountByEmail(email string) (User, error)
	CreateConversation(params CreateConversationParams) (Conversation, error)
	GetConversation(conversationId int) (Conversation, error)
	GetConversationByJoinCode(code string) (Conversation, error)
	ListConversations(accountId int) ([]Conversation, error)
	AddMember(conversationId, accountId int) error
	IsMember(conversationId, accountId int) bool
	CreateMessage(conversationId, senderId int, content string) (Message, error)
	GetMessages(conversationId, after, before, limit int) ([]Message, error)
}
