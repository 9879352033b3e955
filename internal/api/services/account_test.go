package services

import (
	"context"
	"strings"
	"testing"

	"github.com/rohits-web03/notely/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.accounts.Register(ctx, RegisterInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "engine"})
	require.NoError(t, err)
	require.NotEmpty(t, reg.User.ID)
	assert.NotEqual(t, "engine", reg.User.Password)
	assert.False(t, reg.User.CreatedOn.IsZero())

	login, err := f.accounts.Login(ctx, "ada@example.com", "engine")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	p, err := f.tokens.Verify(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, p.UserID)
}

func TestRegisterThenLogin_LongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	long := strings.Repeat("x", 79) + "y"

	_, err := f.accounts.Register(ctx, RegisterInput{FirstName: "L", LastName: "P", Email: "long@example.com", Password: long})
	require.NoError(t, err)

	_, err = f.accounts.Login(ctx, "long@example.com", long)
	require.NoError(t, err)

	// bytes past 72 still count
	_, err = f.accounts.Login(ctx, "long@example.com", long[:72])
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.accounts.Login(ctx, "long@example.com", strings.Repeat("x", 80))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		in   RegisterInput
		want string
	}{
		{"first name", RegisterInput{LastName: "L", Email: "e", Password: "p"}, "First Name is Required"},
		{"last name", RegisterInput{FirstName: "F", Email: "e", Password: "p"}, "Last Name is Required"},
		{"email", RegisterInput{FirstName: "F", LastName: "L", Password: "p"}, "Email is Required"},
		{"password", RegisterInput{FirstName: "F", LastName: "L", Email: "e"}, "Password is Required"},
		{"first missing field wins", RegisterInput{}, "First Name is Required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.accounts.Register(context.Background(), tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Message)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dup@example.com")

	_, err := f.accounts.Register(context.Background(), RegisterInput{FirstName: "A", LastName: "B", Email: "dup@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "bob@example.com")
	ctx := context.Background()

	_, err := f.accounts.Login(ctx, "bob@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.accounts.Login(ctx, "nobody@example.com", "x")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.accounts.Login(ctx, "", "x")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email is Required", verr.Message)

	_, err = f.accounts.Login(ctx, "bob@example.com", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password is Required", verr.Message)

	assert.Equal(t, 1, f.recorder.failures["invalid_credentials"])
	assert.Equal(t, 1, f.recorder.failures["user_not_found"])
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	p := f.register(t, "me@example.com")

	u, err := f.accounts.CurrentUser(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", u.Email)

	_, err = f.accounts.CurrentUser(context.Background(), auth.Principal{UserID: "gone"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSignInWithProvider(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.accounts.SignInWithProvider(ctx, ProviderProfile{Email: "g@example.com", FirstName: "Gee"})
	require.NoError(t, err)
	assert.Equal(t, "Gee", first.User.FirstName)
	assert.NotEmpty(t, first.User.Password)

	again, err := f.accounts.SignInWithProvider(ctx, ProviderProfile{Email: "g@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	// an existing password account is reused, not duplicated
	existing := f.register(t, "pw@example.com")
	linked, err := f.accounts.SignInWithProvider(ctx, ProviderProfile{Email: "pw@example.com"})
	require.NoError(t, err)
	assert.Equal(t, existing.UserID, linked.User.ID)

	fallback, err := f.accounts.SignInWithProvider(ctx, ProviderProfile{Email: "noname@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "noname", fallback.User.FirstName)
}
