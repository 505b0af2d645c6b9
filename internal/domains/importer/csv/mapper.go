package csv

import (
	"strings"
	"time"

	"tedtalks-backend/internal/domains/importer/model"
	talkmodel "tedtalks-backend/internal/domains/talk/model"
)

// dateLayout matches the dataset's "December 2021" style dates.
const dateLayout = "January 2006"

// Mapper turns a raw row into an ImportRecord. Validation runs first;
// a row that fails validation never reaches the parsing stage.
type Mapper struct {
	validator *Validator
}

func NewMapper(validator *Validator) *Mapper {
	return &Mapper{validator: validator}
}

// Map never panics. Every parse failure on an individually valid-looking
// field comes back as an INVALID_FORMAT error carrying field and value.
func (m *Mapper) Map(raw model.RawRecord) model.ValidationResult {
	if errs := m.validator.ValidateRow(raw); len(errs) > 0 {
		return model.ValidationResult{Errors: errs}
	}

	var errs []model.ValidationError

	date := strings.TrimSpace(raw.Date)
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		errs = append(errs, model.NewInvalidFormat(raw.Row, FieldDate, date,
			`date must look like "December 2021"`))
	} else if parsed.Year() < 1 {
		errs = append(errs, model.NewConstraintViolation(raw.Row, "year must be positive"))
	}

	views, vErr := m.validator.ParseNumeric(raw.Row, FieldViews, raw.Views)
	if vErr != nil {
		errs = append(errs, *vErr)
	}
	likes, lErr := m.validator.ParseNumeric(raw.Row, FieldLikes, raw.Likes)
	if lErr != nil {
		errs = append(errs, *lErr)
	}

	link := strings.TrimSpace(raw.Link)
	if !talkmodel.LinkPattern.MatchString(link) {
		errs = append(errs, model.NewInvalidFormat(raw.Row, FieldLink, link,
			"link must be an absolute http(s) URL"))
	}

	if len(errs) > 0 {
		return model.ValidationResult{Errors: errs}
	}

	return model.ValidationResult{
		Record: &model.ImportRecord{
			Title:       strings.TrimSpace(raw.Title),
			SpeakerName: strings.TrimSpace(raw.Author),
			Year:        parsed.Year(),
			Month:       int(parsed.Month()),
			Views:       views,
			Likes:       likes,
			Link:        link,
		},
	}
}
