package database

import (
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) GetAccountById(accountId int) (User, error) {
	args := m.Called(accountId)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) GetAccountByEmail(email string) (User, error) {
	args := m.Called(email)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) CreateConversation(params CreateConversationParams) (Conversation, error) {
	args := m.Called(params)
	return args.Get(0).(Conversation), args.Error(1)
}

func (m *MockRepository) GetConversation(conversationId int) (Conversation, error) {
	args := m.Called(conversationId)
	return args.Get(0).(Conversation), args.Error(1)
}

func (m *MockRepository) GetConversationByJoinCode(code string) (Conversation, error) {
	args := m.Called(code)
	return args.Get(0).(Conversation), args.Error(1)
}

func (m *MockRepository) ListConversations(accountId int) ([]Conversation, error) {
	args := m.Called(accountId)
	return args.Get(0).([]Conversation), args.Error(1)
}

func (m *MockRepository) AddMember(conversationId, accountId int) error {
	args := m.Called(conversationId, accountId)
	return args.Error(0)
}

func (m *MockRepository) IsMember(conversationId, accountId int) bool {
	args := m.Called(conversationId, accountId)
	return args.Bool(0)
}

func (m *MockRepository) CreateMessage(conversationId, senderId int, content string) (Message, error) {
	args := m.Called(conversationId, senderId, content)
	return args.Get(0).(Message), args.Error(1)
}

func (m *MockRepository) GetMessages(conversationId, after, before, limit int) ([]Message, error) {
	args := m.Called(conversationId, after, before, limit)
	return args.Get(0).([]Message), args.Error(1)
}
