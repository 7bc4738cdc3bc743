package app

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicwebsite/internal/pkg/passhash"
)

func TestRegisterSuccess(t *testing.T) {
	userRepo, _, mock := newMockRepos(t)
	svc := NewAuthService(userRepo)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE username = ?")).
		WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(userRows())
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `users`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "listen-to-more-jazz",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email, "email is stored lowercased")
	assert.True(t, passhash.Verify("listen-to-more-jazz", user.PasswordHash))
	assert.NotEqual(t, "listen-to-more-jazz", user.PasswordHash)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUsernameTaken(t *testing.T) {
	userRepo, _, mock := newMockRepos(t)
	svc := NewAuthService(userRepo)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE username = ?")).
		WillReturnRows(userRows().AddRow(1, "alice", "alice@example.com", "hash"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(userRows())

	_, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "new@example.com",
		Password: "some-password",
	})

	var fields FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "username")
	assert.NotContains(t, fields, "email")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterBothFieldsTaken(t *testing.T) {
	userRepo, _, mock := newMockRepos(t)
	svc := NewAuthService(userRepo)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE username = ?")).
		WillReturnRows(userRows().AddRow(1, "alice", "alice@example.com", "hash"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(userRows().AddRow(2, "bob", "bob@example.com", "hash"))

	_, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "bob@example.com",
		Password: "some-password",
	})

	var fields FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginByUsername(t *testing.T) {
	userRepo, _, mock := newMockRepos(t)
	svc := NewAuthService(userRepo)

	hash, err := passhash.Hash("correct-pw")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE username = ?")).
		WillReturnRows(userRows().AddRow(1, "alice", "alice@example.com", hash))

	user, err := svc.Login(LoginInput{Identifier: "alice", Password: "correct-pw"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginByEmailFallback(t *testing.T) {
	userRepo, _, mock := newMockRepos(t)
	svc := NewAuthService(userRepo)

	hash, err := passhash.Hash("correct-pw")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE username = ?")).
		WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(userRows().AddRow(1, "alice", "alice@example.com", hash))

	user, err := svc.Login(LoginInput{Identifier: "alice@example.com", Password: "correct-pw"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo, _, mock := newMockRepos(t)
	svc := NewAuthService(userRepo)

	hash, err := passhash.Hash("correct-pw")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE username = ?")).
		WillReturnRows(userRows().AddRow(1, "alice", "alice@example.com", hash))

	_, err = svc.Login(LoginInput{Identifier: "alice", Password: "wrong-pw"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownUserSameError(t *testing.T) {
	userRepo, _, mock := newMockRepos(t)
	svc := NewAuthService(userRepo)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE username = ?")).
		WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(userRows())

	_, err := svc.Login(LoginInput{Identifier: "ghost", Password: "whatever"})
	// Indistinguishable from a wrong password.
	assert.ErrorIs(t, err, ErrInvalidCredential)

	require.NoError(t, mock.ExpectationsWereMet())
}
