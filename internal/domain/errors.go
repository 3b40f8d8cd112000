package domain

import "fmt"

// ErrTemplateNotFound is returned when a template doesn't exist
type ErrTemplateNotFound struct {
	Message string
}

func (e *ErrTemplateNotFound) Error() string {
	return e.Message
}

// ErrContactNotFound is returned when a contact doesn't exist
type ErrContactNotFound struct {
	Message string
}

func (e *ErrContactNotFound) Error() string {
	return e.Message
}

// ErrCampaignNotFound is returned when a campaign doesn't exist
type ErrCampaignNotFound struct {
	Message string
}

func (e *ErrCampaignNotFound) Error() string {
	return e.Message
}

// ErrProjectNotFound is returned when a project doesn't exist
type ErrProjectNotFound struct {
	Message string
}

func (e *ErrProjectNotFound) Error() string {
	return e.Message
}

// ErrContentBlocked is returned when the structural validator reports
// error-severity findings and the caller's policy refuses the operation.
type ErrContentBlocked struct {
	Findings []string
}

func (e *ErrContentBlocked) Error() string {
	return fmt.Sprintf("content blocked by validation: %v", e.Findings)
}
