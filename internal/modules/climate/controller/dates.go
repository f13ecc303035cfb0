package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// The dataset ends on 2017-08-23; "last year" routes look back 365 days from
// there rather than from the wall clock.
var (
	ReferenceDate = time.Date(2017, time.August, 23, 0, 0, 0, 0, time.UTC)
	CutoffDate    = ReferenceDate.AddDate(0, 0, -365)
)

// MostActiveStation is the station with the most measurements in the dataset.
const MostActiveStation = "USC00519281"

// pathDateLayout is MMDDYYYY.
const pathDateLayout = "01022006"

var ErrInvalidDate = errors.New("invalid date")

var validate = validator.New()

type tempRangeParams struct {
	Start string `validate:"required,len=8,numeric"`
	End   string `validate:"omitempty,len=8,numeric"`
}

// parseTempRange validates and parses the {start} and optional {end} path
// values. hasEnd reports whether an end date was supplied. A start after the
// end is accepted; the range then simply matches no rows.
func parseTempRange(rawStart, rawEnd string) (start time.Time, end time.Time, hasEnd bool, err error) {
	params := tempRangeParams{Start: strings.TrimSpace(rawStart), End: strings.TrimSpace(rawEnd)}

	if err := validate.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			value := params.Start
			if field == "end" {
				value = params.End
			}
			return time.Time{}, time.Time{}, false, fmt.Errorf("%w: %s %q (expected MMDDYYYY)", ErrInvalidDate, field, value)
		}
		return time.Time{}, time.Time{}, false, err
	}

	start, err = time.Parse(pathDateLayout, params.Start)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: start %q (expected MMDDYYYY)", ErrInvalidDate, params.Start)
	}
	if params.End == "" {
		return start, time.Time{}, false, nil
	}

	end, err = time.Parse(pathDateLayout, params.End)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: end %q (expected MMDDYYYY)", ErrInvalidDate, params.End)
	}
	return start, end, true, nil
}
