package models

import (
	"time"
)

// Trabalho is the aggregate root for a submission unit. It owns its messages
// and the list of file names accepted for it; both collections are
// append-only.
type Trabalho struct {
	ID        string         `gorm:"primaryKey;type:uuid"`
	Name      string         `gorm:"not null"`
	Messages  []Message      `gorm:"foreignKey:TrabalhoID;constraint:OnDelete:CASCADE"`
	Files     []TrabalhoFile `gorm:"foreignKey:TrabalhoID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;column:updated_at"`
}

func (Trabalho) TableName() string {
	return "trabalhos"
}

// FileNames flattens the owned file rows into the plain name list exposed by
// the API.
func (slf *Trabalho) FileNames() []string {
	names := make([]string, 0, len(slf.Files))
	for _, f := range slf.Files {
		names = append(names, f.Filename)
	}
	return names
}

// HasFile reports whether filename was previously accepted for this trabalho.
// Download must consult this before touching the filesystem.
func (slf *Trabalho) HasFile(filename string) bool {
	for _, f := range slf.Files {
		if f.Filename == filename {
			return true
		}
	}
	return false
}

// Message is a text note appended to a trabalho. The back-reference is set at
// construction and never reassigned.
type Message struct {
	ID         uint      `gorm:"primaryKey"`
	Sender     string    `gorm:"not null;column:sender"`
	Text       string    `gorm:"not null;column:text"`
	TrabalhoID string    `gorm:"not null;index;column:trabalho_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;column:created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// TrabalhoFile records a file name accepted for a trabalho. A row exists only
// after the bytes were durably written under the trabalho's upload subtree.
type TrabalhoFile struct {
	ID         uint      `gorm:"primaryKey"`
	TrabalhoID string    `gorm:"not null;uniqueIndex:idx_trabalho_filename;column:trabalho_id"`
	Filename   string    `gorm:"not null;uniqueIndex:idx_trabalho_filename;column:filename"`
	CreatedAt  time.Time `gorm:"autoCreateTime;column:created_at"`
}

func (TrabalhoFile) TableName() string {
	return "trabalho_files"
}
