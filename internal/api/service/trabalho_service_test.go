package service

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"tccapi"
	"tccapi/internal/api/models"
	"tccapi/internal/api/repo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTrabalhoTestDB(t *testing.T) {
	tccapi.InitConfig("../../../.env.test")

	err := tccapi.DB.AutoMigrate(
		&models.User{},
		&models.Trabalho{},
		&models.Message{},
		&models.TrabalhoFile{},
	)
	require.NoError(t, err, "Failed to migrate trabalho-related tables")
}

func cleanupTrabalho(t *testing.T, id string) {
	if id != "" {
		tccapi.DB.Where("trabalho_id = ?", id).Delete(&models.TrabalhoFile{})
		tccapi.DB.Where("trabalho_id = ?", id).Delete(&models.Message{})
		tccapi.DB.Delete(&models.Trabalho{}, "id = ?", id)
	}
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestTrabalho_Create(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()
	name := uniqueName("TCC")

	created, err := service.Create(name)
	require.NoError(t, err, "Failed to create trabalho")
	require.NotNil(t, created)
	defer cleanupTrabalho(t, created.ID)

	require.NotEmpty(t, created.ID)
	_, err = uuid.Parse(created.ID)
	require.NoError(t, err, "Trabalho ID should be a UUID")

	assert.Equal(t, name, created.Name)
	assert.Empty(t, created.Messages)
	assert.Empty(t, created.Files)

	found, err := service.FindByID(created.ID)
	require.NoError(t, err, "Failed to find trabalho right after creation")
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, name, found.Name)
	assert.Empty(t, found.Messages)
	assert.Empty(t, found.FileNames())
}

func TestTrabalho_FindByID_NotFound(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()
	unknown := uuid.NewString()

	// Repeated lookups must keep reporting absence, never a stale result.
	for i := 0; i < 3; i++ {
		_, err := service.FindByID(unknown)
		require.ErrorIs(t, err, ErrTrabalhoNotFound)
	}
}

func TestTrabalho_AddMessage(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()

	created, err := service.Create(uniqueName("TCC"))
	require.NoError(t, err)
	defer cleanupTrabalho(t, created.ID)

	message, err := service.AddMessage(created.ID, "alice", "primeira entrega enviada")
	require.NoError(t, err, "Failed to add message")
	require.NotNil(t, message)

	assert.Equal(t, "alice", message.Sender)
	assert.Equal(t, "primeira entrega enviada", message.Text)
	assert.Equal(t, created.ID, message.TrabalhoID)

	messages, err := service.ListMessages(created.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "alice", messages[0].Sender)
}

func TestTrabalho_AddMessage_NotFound(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()

	_, err := service.AddMessage(uuid.NewString(), "alice", "oi")
	require.ErrorIs(t, err, ErrTrabalhoNotFound)
}

func TestTrabalho_AddMessage_Concurrent(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()

	created, err := service.Create(uniqueName("TCC"))
	require.NoError(t, err)
	defer cleanupTrabalho(t, created.ID)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.AddMessage(created.ID, "bob", fmt.Sprintf("mensagem %d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	messages, err := service.ListMessages(created.ID)
	require.NoError(t, err)
	assert.Len(t, messages, n, "No appended message may be lost or duplicated")
}

func TestTrabalho_ListMessages_Ordered(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()

	created, err := service.Create(uniqueName("TCC"))
	require.NoError(t, err)
	defer cleanupTrabalho(t, created.ID)

	for i := 0; i < 5; i++ {
		_, err := service.AddMessage(created.ID, "alice", fmt.Sprintf("entrega %d", i))
		require.NoError(t, err)
	}

	messages, err := service.ListMessages(created.ID)
	require.NoError(t, err)
	require.Len(t, messages, 5)
	for i, m := range messages {
		assert.Equal(t, fmt.Sprintf("entrega %d", i), m.Text)
	}
}

func TestTrabalho_UploadAndOpen_RoundTrip(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()

	created, err := service.Create(uniqueName("TCC"))
	require.NoError(t, err)
	defer cleanupTrabalho(t, created.ID)

	content := []byte("conteudo do capitulo 1")
	err = service.UploadFile(created.ID, "capitulo1.pdf", bytes.NewReader(content))
	require.NoError(t, err, "Failed to upload arquivo")

	found, err := service.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"capitulo1.pdf"}, found.FileNames())

	f, err := service.OpenFile(created.ID, "capitulo1.pdf")
	require.NoError(t, err, "Failed to open uploaded arquivo")
	defer f.Close()

	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, content, got, "Downloaded bytes must match the upload")
}

func TestTrabalho_Upload_NotFound(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()

	err := service.UploadFile(uuid.NewString(), "qualquer.txt", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrTrabalhoNotFound)
}

func TestTrabalho_Upload_TraversalRejected(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()

	created, err := service.Create(uniqueName("TCC"))
	require.NoError(t, err)
	defer cleanupTrabalho(t, created.ID)

	err = service.UploadFile(created.ID, "../../etc/passwd", strings.NewReader("malicioso"))
	require.ErrorIs(t, err, ErrInvalidArquivo)

	// The rejected name must not appear in the trabalho's file list.
	found, err := service.FindByID(created.ID)
	require.NoError(t, err)
	assert.Empty(t, found.FileNames())
}

func TestTrabalho_Upload_DuplicateOverwrites(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()

	created, err := service.Create(uniqueName("TCC"))
	require.NoError(t, err)
	defer cleanupTrabalho(t, created.ID)

	require.NoError(t, service.UploadFile(created.ID, "notas.txt", strings.NewReader("primeira")))
	require.NoError(t, service.UploadFile(created.ID, "notas.txt", strings.NewReader("segunda")))

	found, err := service.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"notas.txt"}, found.FileNames(), "Duplicate upload must not duplicate the name")

	f, err := service.OpenFile(created.ID, "notas.txt")
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "segunda", string(got), "Last writer wins")
}

func TestTrabalho_OpenFile_OwnershipEnforced(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()

	owner, err := service.Create(uniqueName("TCC"))
	require.NoError(t, err)
	defer cleanupTrabalho(t, owner.ID)

	other, err := service.Create(uniqueName("TCC"))
	require.NoError(t, err)
	defer cleanupTrabalho(t, other.ID)

	require.NoError(t, service.UploadFile(owner.ID, "segredo.txt", strings.NewReader("so do dono")))

	// The bytes exist on disk under owner's subtree, but other never uploaded
	// that name, so the download must report absence.
	_, err = service.OpenFile(other.ID, "segredo.txt")
	require.ErrorIs(t, err, ErrArquivoNotFound)
}

func TestTrabalho_OpenFile_MissingBytes(t *testing.T) {
	setupTrabalhoTestDB(t)

	service := NewTrabalhoService()

	created, err := service.Create(uniqueName("TCC"))
	require.NoError(t, err)
	defer cleanupTrabalho(t, created.ID)

	// Record a filename without ever writing bytes: inconsistent state must
	// surface as absent, not as an internal fault.
	trabalhoRepo := repo.NewTrabalhoRepository()
	err = trabalhoRepo.AppendFile(&models.TrabalhoFile{TrabalhoID: created.ID, Filename: "fantasma.txt"})
	require.NoError(t, err)

	_, err = service.OpenFile(created.ID, "fantasma.txt")
	require.ErrorIs(t, err, ErrArquivoNotFound)
}
