package store

import (
	"context"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.conn(ctx).Create(u).Error)
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id uint, name *string, email string) error {
	err := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "email": email}).Error
	return translate(err)
}

func (s *Store) UpdatePassword(ctx context.Context, id uint, hash string) error {
	err := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash).Error
	return translate(err)
}

func (s *Store) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	err := s.conn(ctx).Model(&models.User{}).Where("email = ?", email).Update("is_admin", isAdmin).Error
	return translate(err)
}

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.conn(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error
	return users, translate(err)
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.User{}).Count(&n).Error
	return n, translate(err)
}
