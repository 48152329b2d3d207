package request

type CreateTrabalho struct {
	Name string `json:"name" validate:"required"`
}

type PostMessage struct {
	Sender string `json:"sender" validate:"required"`
	Text   string `json:"text" validate:"required"`
}
