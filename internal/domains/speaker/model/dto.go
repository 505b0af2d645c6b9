package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateSpeakerRequest struct {
	Name string  `json:"name"`
	Bio  *string `json:"bio,omitempty"`
}

func (r CreateSpeakerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Bio, validation.Length(0, 5000)),
	)
}

type UpdateBioRequest struct {
	Bio string `json:"bio"`
}

func (r UpdateBioRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Bio, validation.Required, validation.Length(1, 5000)),
	)
}
