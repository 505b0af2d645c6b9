package model

import "errors"

var (
	ErrSpeakerNotFound      = errors.New("speaker not found")
	ErrDuplicateSpeakerName = errors.New("speaker with this name already exists")
	ErrSpeakerHasTalks      = errors.New("speaker still has talks and cannot be deleted")
)
