package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/internal/domain/scoring"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs struct tag validation and flattens the failures into
// one readable error.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), strings.SplitN(fe.Namespace(), ".", 2)[0]+".")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("missing %s", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// chartRequest mirrors the OpenAPI schema for POST /charts.
type chartRequest struct {
	Year         *int     `json:"y" validate:"required,min=1,max=9999"`
	Month        *int     `json:"m" validate:"required,min=1,max=12"`
	Day          *int     `json:"d" validate:"required,min=1,max=31"`
	Hour         *int     `json:"hh" validate:"required,min=0,max=23"`
	Minute       *int     `json:"mm" validate:"required,min=0,max=59"`
	Second       int      `json:"ss" validate:"min=0,max=59"`
	OffsetHours  *float64 `json:"tzOffsetHours" validate:"required,min=-12,max=14"`
	Latitude     *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Longitude    *float64 `json:"lon" validate:"required,min=-180,max=180"`
	Name         string   `json:"name" validate:"max=200"`
	LocationName string   `json:"locationName" validate:"max=200"`
}

// birthInput converts a validated request. Calendar validity (day within
// month) is checked by the domain.
func (r chartRequest) birthInput() astro.BirthInput {
	return astro.BirthInput{
		Year:         *r.Year,
		Month:        *r.Month,
		Day:          *r.Day,
		Hour:         *r.Hour,
		Minute:       *r.Minute,
		Second:       r.Second,
		OffsetHours:  *r.OffsetHours,
		Latitude:     *r.Latitude,
		Longitude:    *r.Longitude,
		Name:         strings.TrimSpace(r.Name),
		LocationName: strings.TrimSpace(r.LocationName),
	}
}

// batchRequest mirrors the OpenAPI schema for POST /charts/batch.
type batchRequest struct {
	Inputs []chartRequest `json:"inputs" validate:"required,min=1,dive"`
}

// placementRequest is one entry of POST /profile. House is numeric and
// clamped into 1..12.
type placementRequest struct {
	Body   string  `json:"body" validate:"required"`
	Sign   string  `json:"sign" validate:"required"`
	House  float64 `json:"house"`
	Degree int     `json:"degree" validate:"min=0,max=29"`
	Minute int     `json:"minute" validate:"min=0,max=59"`
}

// profileRequest mirrors the OpenAPI schema for POST /profile.
type profileRequest struct {
	Placements []placementRequest `json:"placements" validate:"max=64,dive"`
}

// placements resolves names to the closed enumerations. Unknown bodies or
// signs are rejected and houses are clamped into 1..12. A body listed twice
// keeps its first position and its last values.
func (r profileRequest) placements() ([]astro.Placement, error) {
	out := make([]astro.Placement, 0, len(r.Placements))
	index := make(map[astro.Body]int, len(r.Placements))
	for i, p := range r.Placements {
		body, ok := astro.ParseBody(p.Body)
		if !ok {
			return nil, fmt.Errorf("placements[%d].body: unknown body %q", i, p.Body)
		}
		sign, ok := astro.ParseSign(p.Sign)
		if !ok {
			return nil, fmt.Errorf("placements[%d].sign: unknown sign %q", i, p.Sign)
		}
		placed := astro.Placement{
			Body:   body,
			Sign:   sign,
			House:  astro.ClampHouse(p.House),
			Degree: p.Degree,
			Minute: p.Minute,
		}
		if j, ok := index[body]; ok {
			out[j] = placed
			continue
		}
		index[body] = len(out)
		out = append(out, placed)
	}
	return out, nil
}

type profileResponse struct {
	Profile scoring.Profile `json:"profile"`
	Trace   *scoring.Trace  `json:"trace,omitempty"`
}
