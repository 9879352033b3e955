package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rohits-web03/notely/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresStore struct {
	db *gorm.DB
}

// ConnectDatabase opens the postgres database and migrates the schema.
func ConnectDatabase(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Note{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return NewPostgresStore(db), nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = uuid.NewString()
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		u.ID = ""
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, notFound(err, "failed to find user by email")
	}
	return &u, nil
}

func (s *PostgresStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	var u models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, notFound(err, "failed to find user by id")
	}
	return &u, nil
}

func (s *PostgresStore) CreateNote(ctx context.Context, n *models.Note) error {
	n.ID = uuid.NewString()
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		n.ID = ""
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindNote(ctx context.Context, userID, noteID string) (*models.Note, error) {
	if !isUUID(noteID) || !isUUID(userID) {
		return nil, ErrNotFound
	}
	var n models.Note
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", noteID, userID).
		First(&n).Error
	if err != nil {
		return nil, notFound(err, "failed to find note")
	}
	return &n, nil
}

func (s *PostgresStore) UpdateNote(ctx context.Context, n *models.Note) error {
	if !isUUID(n.ID) || !isUUID(n.UserID) {
		return ErrNotFound
	}
	res := s.db.WithContext(ctx).
		Model(&models.Note{}).
		Where("id = ? AND user_id = ?", n.ID, n.UserID).
		Select("title", "content", "tags", "is_pinned", "image").
		Updates(n)
	if res.Error != nil {
		return fmt.Errorf("failed to update note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteNote(ctx context.Context, userID, noteID string) error {
	if !isUUID(noteID) || !isUUID(userID) {
		return ErrNotFound
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", noteID, userID).
		Delete(&models.Note{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListNotes(ctx context.Context, userID string) ([]models.Note, error) {
	notes := []models.Note{}
	if !isUUID(userID) {
		return notes, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_pinned DESC").
		Order("created_on DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Postgres rejects malformed uuid literals with an error; a malformed id
// simply matches nothing here.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
