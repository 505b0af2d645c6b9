package model

import "errors"

var (
	ErrTalkNotFound  = errors.New("talk not found")
	ErrDuplicateTalk = errors.New("talk with this title already exists for the speaker")
)
