package repo

import (
	"tccapi"
	"tccapi/internal/api/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	Db *gorm.DB
}

func NewUserRepository() *UserRepository {
	return &UserRepository{Db: tccapi.DB}
}

func (slf *UserRepository) FindByUsername(username string) (models.User, error) {
	var user models.User
	err := slf.Db.Where("username = ?", username).First(&user).Error
	return user, err
}

func (slf *UserRepository) Create(user *models.User) error {
	return slf.Db.Create(user).Error
}

func (slf *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := slf.Db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}
