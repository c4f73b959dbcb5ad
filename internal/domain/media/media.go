package media

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ID          uuid.UUID
	ObjectKey   string
	FileName    string
	ContentType string
	SizeBytes   int64
	AltText     string
	UploadedBy  string
	CreatedAt   time.Time
}

type CreateItemInput struct {
	ID          uuid.UUID
	ObjectKey   string
	FileName    string
	ContentType string
	SizeBytes   int64
	AltText     string
	UploadedBy  string
}

type ListItemsFilter struct {
	ContentTypePrefix string
	Limit             int
	Offset            int
}
