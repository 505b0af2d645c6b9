package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateTalkRequest struct {
	Title   string `json:"title"`
	Speaker string `json:"speaker"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Views   int64  `json:"views"`
	Likes   int64  `json:"likes"`
	Link    string `json:"link"`
}

func (r CreateTalkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Speaker, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Year, validation.Required, validation.Min(1)),
		validation.Field(&r.Month, validation.Required, validation.Min(1), validation.Max(12)),
		validation.Field(&r.Views, validation.Min(0)),
		validation.Field(&r.Likes, validation.Min(0)),
		validation.Field(&r.Link, validation.Required, validation.Match(LinkPattern)),
	)
}

// UpdateTalkRequest carries partial updates; nil means leave unchanged.
type UpdateTalkRequest struct {
	Title *string `json:"title,omitempty"`
	Year  *int    `json:"year,omitempty"`
	Month *int    `json:"month,omitempty"`
	Views *int64  `json:"views,omitempty"`
	Likes *int64  `json:"likes,omitempty"`
	Link  *string `json:"link,omitempty"`
}

func (r UpdateTalkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 500)),
		validation.Field(&r.Year, validation.Min(1)),
		validation.Field(&r.Month, validation.Min(1), validation.Max(12)),
		validation.Field(&r.Views, validation.Min(int64(0))),
		validation.Field(&r.Likes, validation.Min(int64(0))),
		validation.Field(&r.Link, validation.Match(LinkPattern)),
	)
}
