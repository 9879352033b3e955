package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rohits-web03/notely/internal/auth"
	"github.com/rohits-web03/notely/internal/logging"
	"github.com/rohits-web03/notely/internal/models"
	"github.com/rohits-web03/notely/internal/repositories"
	"github.com/rohits-web03/notely/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Session is what a successful registration or login hands back.
type Session struct {
	User        *models.User
	AccessToken string
}

// ProviderProfile is the identity an external sign-in provider vouched for.
type ProviderProfile struct {
	Email     string
	FirstName string
	LastName  string
}

type AccountService struct {
	users    repositories.UserRepository
	tokens   *auth.Tokens
	recorder Recorder
	log      logging.Logger
	now      func() time.Time
}

func NewAccountService(users repositories.UserRepository, tokens *auth.Tokens, recorder Recorder, log logging.Logger) *AccountService {
	return &AccountService{
		users:    users,
		tokens:   tokens,
		recorder: recorder,
		log:      log.With("component", "accounts"),
		now:      time.Now,
	}
}

// Register creates a user with a bcrypt-hashed password and signs them in.
// The email check is find-then-create; stores with a unique index also
// report a concurrent duplicate as ErrUserExists.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	switch {
	case in.FirstName == "":
		return nil, invalid("First Name is Required")
	case in.LastName == "":
		return nil, invalid("Last Name is Required")
	case in.Email == "":
		return nil, invalid("Email is Required")
	case in.Password == "":
		return nil, invalid("Password is Required")
	}

	_, err := s.users.FindUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  string(hashed),
		CreatedOn: s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return s.session(user)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" {
		return nil, invalid("Email is Required")
	}
	if password == "" {
		return nil, invalid("Password is Required")
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.recorder.AuthFailure("user_not_found")
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := checkPassword(user.Password, password); err != nil {
		s.recorder.AuthFailure("invalid_credentials")
		return nil, ErrInvalidCredentials
	}
	return s.session(user)
}

// CurrentUser re-reads the principal's profile. A token whose user has
// since disappeared is reported as ErrUnauthorized.
func (s *AccountService) CurrentUser(ctx context.Context, p auth.Principal) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// SignInWithProvider finds the user with the profile's email or creates one.
// Users created this way get a random password nobody knows, so only the
// provider can sign them in until they reset it.
func (s *AccountService) SignInWithProvider(ctx context.Context, profile ProviderProfile) (*Session, error) {
	if profile.Email == "" {
		return nil, invalid("Email is Required")
	}

	user, err := s.users.FindUserByEmail(ctx, profile.Email)
	if err == nil {
		return s.session(user)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	secret, err := utils.RandomToken(32)
	if err != nil {
		return nil, err
	}
	hashed, err := hashPassword(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	first, last := profile.FirstName, profile.LastName
	if first == "" {
		first = strings.SplitN(profile.Email, "@", 2)[0]
	}
	user = &models.User{
		FirstName: first,
		LastName:  last,
		Email:     profile.Email,
		Password:  string(hashed),
		CreatedOn: s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		// lost a race with a concurrent sign-in
		if user, err = s.users.FindUserByEmail(ctx, profile.Email); err != nil {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	}

	s.log.Info(ctx, "user signed in with provider", "user_id", user.ID)
	return s.session(user)
}

func (s *AccountService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, AccessToken: token}, nil
}

// passwordDigest folds a password of any length into 44 bytes, under
// bcrypt's 72 byte input limit.
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword(passwordDigest(password), bcrypt.DefaultCost)
}

func checkPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordDigest(password))
}
