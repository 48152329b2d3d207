package service

import (
	"errors"
	"fmt"
	"io"
	"os"

	"tccapi"
	"tccapi/internal/api/models"
	"tccapi/internal/api/repo"
	"tccapi/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type TrabalhoService struct {
	trabalhoRepo *repo.TrabalhoRepository
	uploadArea   *storage.UploadArea
	mailService  *MailService
	logger       zerolog.Logger
}

func NewTrabalhoService() *TrabalhoService {
	return &TrabalhoService{
		trabalhoRepo: repo.NewTrabalhoRepository(),
		uploadArea:   storage.NewUploadArea(tccapi.GetConfig().UploadConfig.Dir),
		mailService:  NewMailService(),
		logger:       tccapi.Logger,
	}
}

// Create persists a new trabalho with a fresh server-generated ID and empty
// collections.
func (slf *TrabalhoService) Create(name string) (*models.Trabalho, error) {
	trabalho := models.Trabalho{
		ID:       uuid.NewString(),
		Name:     name,
		Messages: []models.Message{},
		Files:    []models.TrabalhoFile{},
	}
	if err := slf.trabalhoRepo.Create(&trabalho); err != nil {
		slf.logger.Error().Err(err).Msg("Error creating trabalho")
		return nil, err
	}
	return &trabalho, nil
}

func (slf *TrabalhoService) FindByID(id string) (*models.Trabalho, error) {
	trabalho, err := slf.trabalhoRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrabalhoNotFound
		}
		slf.logger.Error().Err(err).Str("trabalhoId", id).Msg("Error getting trabalho")
		return nil, err
	}
	return &trabalho, nil
}

func (slf *TrabalhoService) FindAll() ([]models.Trabalho, error) {
	trabalhos, err := slf.trabalhoRepo.FindAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error listing trabalhos")
		return nil, err
	}
	return trabalhos, nil
}

// AddMessage appends a message to an existing trabalho and then notifies the
// advisor. The append commits first: a notification failure is reported as
// ErrNotificationFailed alongside the already-persisted message, never rolled
// back.
func (slf *TrabalhoService) AddMessage(trabalhoID string, sender string, text string) (*models.Message, error) {
	exists, err := slf.trabalhoRepo.ExistsByID(trabalhoID)
	if err != nil {
		slf.logger.Error().Err(err).Str("trabalhoId", trabalhoID).Msg("Error checking trabalho existence")
		return nil, err
	}
	if !exists {
		return nil, ErrTrabalhoNotFound
	}

	message := models.Message{
		Sender:     sender,
		Text:       text,
		TrabalhoID: trabalhoID,
	}
	if err := slf.trabalhoRepo.AppendMessage(&message); err != nil {
		slf.logger.Error().Err(err).Str("trabalhoId", trabalhoID).Msg("Error appending message")
		return nil, err
	}

	if err := slf.mailService.NotifyAdvisor(sender, text); err != nil {
		slf.logger.Warn().Err(err).Str("trabalhoId", trabalhoID).Msg("Advisor notification failed")
		return &message, ErrNotificationFailed
	}

	return &message, nil
}

func (slf *TrabalhoService) ListMessages(trabalhoID string) ([]models.Message, error) {
	exists, err := slf.trabalhoRepo.ExistsByID(trabalhoID)
	if err != nil {
		slf.logger.Error().Err(err).Str("trabalhoId", trabalhoID).Msg("Error checking trabalho existence")
		return nil, err
	}
	if !exists {
		return nil, ErrTrabalhoNotFound
	}
	messages, err := slf.trabalhoRepo.FindMessages(trabalhoID)
	if err != nil {
		slf.logger.Error().Err(err).Str("trabalhoId", trabalhoID).Msg("Error listing messages")
		return nil, err
	}
	return messages, nil
}

// UploadFile writes the bytes into the trabalho's subtree and only then
// records the filename. A failed write leaves the trabalho's file list
// untouched.
func (slf *TrabalhoService) UploadFile(trabalhoID string, filename string, src io.Reader) error {
	exists, err := slf.trabalhoRepo.ExistsByID(trabalhoID)
	if err != nil {
		slf.logger.Error().Err(err).Str("trabalhoId", trabalhoID).Msg("Error checking trabalho existence")
		return err
	}
	if !exists {
		return ErrTrabalhoNotFound
	}

	if err := slf.uploadArea.Write(trabalhoID, filename, src); err != nil {
		if errors.Is(err, storage.ErrInvalidFilename) {
			return ErrInvalidArquivo
		}
		slf.logger.Error().Err(err).Str("trabalhoId", trabalhoID).Str("filename", filename).Msg("Error writing arquivo")
		return fmt.Errorf("storing arquivo: %w", err)
	}

	file := models.TrabalhoFile{
		TrabalhoID: trabalhoID,
		Filename:   filename,
	}
	if err := slf.trabalhoRepo.AppendFile(&file); err != nil {
		slf.logger.Error().Err(err).Str("trabalhoId", trabalhoID).Str("filename", filename).Msg("Error recording arquivo")
		return err
	}

	return nil
}

// OpenFile streams a previously uploaded arquivo. Ownership is checked
// against the trabalho's file list before any filesystem resolution, so
// guessed names never reach the disk.
func (slf *TrabalhoService) OpenFile(trabalhoID string, filename string) (*os.File, error) {
	exists, err := slf.trabalhoRepo.ExistsByID(trabalhoID)
	if err != nil {
		slf.logger.Error().Err(err).Str("trabalhoId", trabalhoID).Msg("Error checking trabalho existence")
		return nil, err
	}
	if !exists {
		return nil, ErrTrabalhoNotFound
	}

	owned, err := slf.trabalhoRepo.HasFile(trabalhoID, filename)
	if err != nil {
		slf.logger.Error().Err(err).Str("trabalhoId", trabalhoID).Str("filename", filename).Msg("Error checking arquivo ownership")
		return nil, err
	}
	if !owned {
		return nil, ErrArquivoNotFound
	}

	f, err := slf.uploadArea.Open(trabalhoID, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidFilename) {
			// Listed but missing on disk is inconsistent state; report absent.
			return nil, ErrArquivoNotFound
		}
		slf.logger.Error().Err(err).Str("trabalhoId", trabalhoID).Str("filename", filename).Msg("Error opening arquivo")
		return nil, err
	}
	return f, nil
}
