package database

import (
	"time"
)

const defaultMessageLimit = 50

func (db *PgRepository) CreateAccount(params CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO accounts (username, email, password_hash, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, username, email, created_at",
		params.Username,
		params.EmailAddress,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.EmailAddress,
		&u.CreatedAt,
	)

	return u, err
}

func (db *PgRepository) GetAccountById(accountId int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, created_at FROM accounts "+
			"WHERE id = $1 LIMIT 1",
		accountId,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.CreatedAt,
	)

	return user, err
}

func (db *PgRepository) GetAccountByEmail(email string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, password_hash, created_at FROM accounts "+
			"WHERE email = $1 LIMIT 1",
		email,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	return user, err
}

// CreateConversation inserts the conversation and the owner's membership in
// one transaction so a conversation never exists without its owner as a
// member.
func (db *PgRepository) CreateConversation(params CreateConversationParams) (Conversation, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Conversation{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		"INSERT INTO conversations (title, join_code, owner_id, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, title, join_code, owner_id, created_at",
		params.Title,
		params.JoinCode,
		params.OwnerId,
		time.Now().UTC(),
	)

	var conv Conversation
	if err := row.Scan(
		&conv.Id,
		&conv.Title,
		&conv.JoinCode,
		&conv.OwnerId,
		&conv.CreatedAt,
	); err != nil {
		return Conversation{}, err
	}

	if _, err := tx.Exec(
		"INSERT INTO conversation_members (conversation_id, account_id, created_at) VALUES ($1, $2, $3)",
		conv.Id,
		params.OwnerId,
		time.Now().UTC(),
	); err != nil {
		return Conversation{}, err
	}

	if err := tx.Commit(); err != nil {
		return Conversation{}, err
	}

	conv.MemberIds = []int{params.OwnerId}
	return conv, nil
}

func (db *PgRepository) GetConversation(conversationId int) (Conversation, error) {
	row := db.conn.QueryRow(
		"SELECT id, title, join_code, owner_id, created_at FROM conversations "+
			"WHERE id = $1 LIMIT 1",
		conversationId,
	)

	var conv Conversation
	if err := row.Scan(
		&conv.Id,
		&conv.Title,
		&conv.JoinCode,
		&conv.OwnerId,
		&conv.CreatedAt,
	); err != nil {
		return Conversation{}, err
	}

	rows, err := db.conn.Query(
		"SELECT account_id FROM conversation_members WHERE conversation_id = $1",
		conv.Id,
	)
	if err != nil {
		return Conversation{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var memberId int
		if err := rows.Scan(&memberId); err != nil {
			return Conversation{}, err
		}
		conv.MemberIds = append(conv.MemberIds, memberId)
	}

	return conv, rows.Err()
}

func (db *PgRepository) GetConversationByJoinCode(code string) (Conversation, error) {
	row := db.conn.QueryRow(
		"SELECT id, title, join_code, owner_id, created_at FROM conversations "+
			"WHERE join_code = $1 LIMIT 1",
		code,
	)

	var conv Conversation
	err := row.Scan(
		&conv.Id,
		&conv.Title,
		&conv.JoinCode,
		&conv.OwnerId,
		&conv.CreatedAt,
	)

	return conv, err
}

func (db *PgRepository) ListConversations(accountId int) ([]Conversation, error) {
	rows, err := db.conn.Query(
		"SELECT c.id, c.title, c.join_code, c.owner_id, c.created_at "+
			"FROM conversations c "+
			"JOIN conversation_members m ON m.conversation_id = c.id "+
			"WHERE m.account_id = $1 "+
			"ORDER BY c.created_at",
		accountId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []Conversation
	for rows.Next() {
		var conv Conversation
		if err := rows.Scan(
			&conv.Id,
			&conv.Title,
			&conv.JoinCode,
			&conv.OwnerId,
			&conv.CreatedAt,
		); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}

	return convs, rows.Err()
}

func (db *PgRepository) AddMember(conversationId, accountId int) error {
	_, err := db.conn.Exec(
		"INSERT INTO conversation_members (conversation_id, account_id, created_at) "+
			"VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		conversationId,
		accountId,
		time.Now().UTC(),
	)

	return err
}

func (db *PgRepository) IsMember(conversationId, accountId int) bool {
	row := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM conversation_members WHERE conversation_id = $1 AND account_id = $2)",
		conversationId,
		accountId,
	)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false
	}

	return exists
}

func (db *PgRepository) CreateMessage(conversationId, senderId int, content string) (Message, error) {
	row := db.conn.QueryRow(
		"INSERT INTO messages (conversation_id, sender_id, content, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, conversation_id, sender_id, content, created_at",
		conversationId,
		senderId,
		content,
		time.Now().UTC(),
	)

	var msg Message
	err := row.Scan(
		&msg.Id,
		&msg.ConversationId,
		&msg.SenderId,
		&msg.Content,
		&msg.CreatedAt,
	)

	return msg, err
}

func (db *PgRepository) GetMessages(conversationId, after, before, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	query := "SELECT id, conversation_id, sender_id, content, created_at FROM messages " +
		"WHERE conversation_id = $1"
	args := []any{conversationId}

	if after > 0 {
		args = append(args, after)
		query += " AND id > $2"
	}
	if before > 0 {
		args = append(args, before)
		if after > 0 {
			query += " AND id < $3"
		} else {
			query += " AND id < $2"
		}
	}

	args = append(args, limit)
	switch len(args) {
	case 2:
		query += " ORDER BY id DESC LIMIT $2"
	case 3:
		query += " ORDER BY id DESC LIMIT $3"
	case 4:
		query += " ORDER BY id DESC LIMIT $4"
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(
			&msg.Id,
			&msg.ConversationId,
			&msg.SenderId,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
