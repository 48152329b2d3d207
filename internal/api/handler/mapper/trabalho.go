package mapper

import (
	"tccapi/internal/api/handler/response"
	"tccapi/internal/api/models"
)

type TrabalhoMapper struct{}

func NewTrabalhoMapper() TrabalhoMapper {
	return TrabalhoMapper{}
}

func (TrabalhoMapper) ToTrabalhoResponse(trabalho models.Trabalho) response.Trabalho {
	return response.Trabalho{
		ID:        trabalho.ID,
		Name:      trabalho.Name,
		Messages:  ToMessageResponses(trabalho.Messages),
		FileNames: trabalho.FileNames(),
	}
}

func (slf TrabalhoMapper) ToTrabalhoResponses(trabalhos []models.Trabalho) []response.Trabalho {
	out := make([]response.Trabalho, 0, len(trabalhos))
	for _, t := range trabalhos {
		out = append(out, slf.ToTrabalhoResponse(t))
	}
	return out
}

func ToMessageResponse(message models.Message) response.Message {
	return response.Message{
		Sender: message.Sender,
		Text:   message.Text,
	}
}

func ToMessageResponses(messages []models.Message) []response.Message {
	out := make([]response.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, ToMessageResponse(m))
	}
	return out
}
