package repo

import (
	"tccapi"
	"tccapi/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrabalhoRepository struct {
	Db *gorm.DB
}

func NewTrabalhoRepository() *TrabalhoRepository {
	return &TrabalhoRepository{Db: tccapi.DB}
}

func (slf *TrabalhoRepository) Create(trabalho *models.Trabalho) error {
	return slf.Db.Create(trabalho).Error
}

// FindByID loads the full aggregate: messages in arrival order plus the
// accepted file names.
func (slf *TrabalhoRepository) FindByID(id string) (models.Trabalho, error) {
	var trabalho models.Trabalho
	err := slf.Db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.id ASC")
		}).
		Preload("Files").
		First(&trabalho, "id = ?", id).Error
	return trabalho, err
}

func (slf *TrabalhoRepository) FindAll() ([]models.Trabalho, error) {
	var trabalhos []models.Trabalho
	err := slf.Db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.id ASC")
		}).
		Preload("Files").
		Order("created_at ASC").
		Find(&trabalhos).Error
	return trabalhos, err
}

func (slf *TrabalhoRepository) ExistsByID(id string) (bool, error) {
	var count int64
	err := slf.Db.Model(&models.Trabalho{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// AppendMessage persists a single message row. The insert is atomic, so
// concurrent appends against the same trabalho cannot lose each other.
func (slf *TrabalhoRepository) AppendMessage(message *models.Message) error {
	return slf.Db.Create(message).Error
}

func (slf *TrabalhoRepository) FindMessages(trabalhoID string) ([]models.Message, error) {
	var messages []models.Message
	err := slf.Db.
		Where("trabalho_id = ?", trabalhoID).
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// AppendFile records an accepted file name. Re-uploading the same name is an
// upsert: the name stays listed once and the bytes on disk are the last
// writer's.
func (slf *TrabalhoRepository) AppendFile(file *models.TrabalhoFile) error {
	return slf.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trabalho_id"}, {Name: "filename"}},
		DoNothing: true,
	}).Create(file).Error
}

func (slf *TrabalhoRepository) HasFile(trabalhoID string, filename string) (bool, error) {
	var count int64
	err := slf.Db.Model(&models.TrabalhoFile{}).
		Where("trabalho_id = ? AND filename = ?", trabalhoID, filename).
		Count(&count).Error
	return count > 0, err
}
