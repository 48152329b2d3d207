package response

type Trabalho struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Messages  []Message `json:"messages"`
	FileNames []string  `json:"fileNames"`
}

type Message struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type Upload struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
}
