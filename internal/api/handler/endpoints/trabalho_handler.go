package endpoints

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"tccapi"
	"tccapi/internal/api/handler/mapper"
	"tccapi/internal/api/handler/middleware"
	"tccapi/internal/api/handler/request"
	"tccapi/internal/api/handler/response"
	"tccapi/internal/api/service"
	"tccapi/pkg"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type trabalhoHandler struct {
	trabalhoService *service.TrabalhoService
	trabalhoMapper  mapper.TrabalhoMapper
	config          tccapi.AppConfig
	logger          zerolog.Logger
}

func newTrabalhoHandler() *trabalhoHandler {
	return &trabalhoHandler{
		trabalhoService: service.NewTrabalhoService(),
		trabalhoMapper:  mapper.NewTrabalhoMapper(),
		config:          tccapi.GetConfig(),
		logger:          tccapi.Logger,
	}
}

func TrabalhoHandler(router *graceful.Graceful) {
	h := newTrabalhoHandler()

	routes := router.Group("/api/trabalhos")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.POST("", h.create)
		routes.GET("", h.getAll)
		routes.GET("/:id", h.getByID)
		routes.POST("/:id/mensagens", h.postMessage)
		routes.GET("/:id/mensagens", h.getMessages)
		routes.POST("/:id/upload", h.upload)
		routes.GET("/:id/arquivos/:filename", h.download)
	}
}

func (slf *trabalhoHandler) create(c *gin.Context) {
	var req request.CreateTrabalho
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse create trabalho request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	trabalho, err := slf.trabalhoService.Create(req.Name)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to create trabalho")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to create trabalho"})
		return
	}

	c.JSON(http.StatusCreated, slf.trabalhoMapper.ToTrabalhoResponse(*trabalho))
}

func (slf *trabalhoHandler) getAll(c *gin.Context) {
	trabalhos, err := slf.trabalhoService.FindAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to list trabalhos")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve trabalhos"})
		return
	}

	c.JSON(http.StatusOK, slf.trabalhoMapper.ToTrabalhoResponses(trabalhos))
}

func (slf *trabalhoHandler) getByID(c *gin.Context) {
	id := c.Param("id")

	trabalho, err := slf.trabalhoService.FindByID(id)
	if err != nil {
		if errors.Is(err, service.ErrTrabalhoNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: "Trabalho not found"})
			return
		}
		slf.logger.Error().Err(err).Str("id", id).Msg("Failed to get trabalho")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve trabalho"})
		return
	}

	c.JSON(http.StatusOK, slf.trabalhoMapper.ToTrabalhoResponse(*trabalho))
}

func (slf *trabalhoHandler) postMessage(c *gin.Context) {
	id := c.Param("id")

	var req request.PostMessage
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse post message request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	message, err := slf.trabalhoService.AddMessage(id, req.Sender, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrTrabalhoNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: "Trabalho not found"})
			return
		}
		if errors.Is(err, service.ErrNotificationFailed) {
			// The message is committed; only the advisor mail failed.
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":   "Mensagem adicionada, notificação falhou",
				"mensagem": mapper.ToMessageResponse(*message),
			})
			return
		}
		slf.logger.Error().Err(err).Str("id", id).Msg("Failed to add message")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to add message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   "Mensagem adicionada",
		"mensagem": mapper.ToMessageResponse(*message),
	})
}

func (slf *trabalhoHandler) getMessages(c *gin.Context) {
	id := c.Param("id")

	messages, err := slf.trabalhoService.ListMessages(id)
	if err != nil {
		if errors.Is(err, service.ErrTrabalhoNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: "Trabalho not found"})
			return
		}
		slf.logger.Error().Err(err).Str("id", id).Msg("Failed to list messages")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve messages"})
		return
	}

	c.JSON(http.StatusOK, mapper.ToMessageResponses(messages))
}

func (slf *trabalhoHandler) upload(c *gin.Context) {
	id := c.Param("id")

	fileHeader, err := c.FormFile("arquivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Arquivo vazio"})
		return
	}
	if fileHeader.Size == 0 || fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Arquivo vazio"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		slf.logger.Error().Err(err).Str("id", id).Msg("Failed to open uploaded arquivo")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to store arquivo"})
		return
	}
	defer src.Close()

	if err := slf.trabalhoService.UploadFile(id, fileHeader.Filename, src); err != nil {
		switch {
		case errors.Is(err, service.ErrTrabalhoNotFound):
			c.JSON(http.StatusNotFound, response.APIError{Message: "Trabalho not found"})
		case errors.Is(err, service.ErrInvalidArquivo):
			c.JSON(http.StatusBadRequest, response.APIError{Message: "Nome de arquivo inválido"})
		default:
			slf.logger.Error().Err(err).Str("id", id).Str("filename", fileHeader.Filename).Msg("Failed to store arquivo")
			c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to store arquivo"})
		}
		return
	}

	c.JSON(http.StatusOK, response.Upload{
		Status:   "Upload realizado",
		Filename: fileHeader.Filename,
	})
}

func (slf *trabalhoHandler) download(c *gin.Context) {
	id := c.Param("id")
	filename := c.Param("filename")

	f, err := slf.trabalhoService.OpenFile(id, filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrabalhoNotFound):
			c.JSON(http.StatusNotFound, response.APIError{Message: "Trabalho not found"})
		case errors.Is(err, service.ErrArquivoNotFound):
			c.JSON(http.StatusNotFound, response.APIError{Message: "Arquivo not found"})
		default:
			slf.logger.Error().Err(err).Str("id", id).Str("filename", filename).Msg("Failed to open arquivo")
			c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to read arquivo"})
		}
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		slf.logger.Error().Err(err).Str("id", id).Str("filename", filename).Msg("Failed to stat arquivo")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to read arquivo"})
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, info.Size(), contentType, f, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	})
}
