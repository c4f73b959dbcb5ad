package contact

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusArchived Status = "archived"
)

// ValidStatus reports whether s is one of the known submission states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied, StatusArchived:
		return true
	}
	return false
}

type Submission struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Subject     string
	Message     string
	Status      Status
	VisitorHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateSubmissionInput struct {
	Name        string
	Email       string
	Subject     string
	Message     string
	VisitorHash string
}

type ListSubmissionsFilter struct {
	Status *Status
	Limit  int
	Offset int
}
