package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"cadena-service/internal/model"
)

var (
	dateRe      = regexp.MustCompile(`^(0?[1-9]|[12][0-9]|3[01])[/-](0?[1-9]|1[012])[/-]\d{4}$`)
	dateSplitRe = regexp.MustCompile(`[/-]+`)
	titleRe     = regexp.MustCompile(`(?i)^[a-z0-9\-_\s]+$`)
)

var validate = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report wire keys instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Draft is a normalized chain that has not been stored yet. Chain.Slug stays
// empty until the identity assigner stamps it.
type Draft struct {
	Chain    model.Chain
	SlugBase string
}

// Normalize turns a validated raw payload into a Draft. Fields are processed
// in schema order; anything malformed aborts the whole normalization.
func Normalize(raw map[string]interface{}) (*Draft, error) {
	d := &Draft{Chain: NewDraft()}
	c := &d.Chain

	for _, key := range chainFields {
		value, present := raw[key]
		if !present {
			continue
		}

		var err error
		switch key {
		case fieldSlug:
			// derived, never taken from input
		case fieldTitle:
			c.Title, d.SlugBase, err = normalizeTitle(value)
		case fieldStartDate:
			c.StartDate, err = parseDate(key, value)
		case fieldEndDate:
			c.EndDate, err = parseDate(key, value)
		case fieldNoticeDays:
			if value != nil {
				c.NoticeDays, err = intField(key, value)
			}
		case fieldActive:
			if value != nil {
				active, ok := value.(bool)
				if !ok {
					err = newValidationError(InvalidField, key)
				}
				c.Active = active
			}
		case fieldMessage:
			if value != nil {
				message, ok := value.(string)
				if !ok {
					err = newValidationError(InvalidField, key)
				}
				c.Message = message
			}
		case fieldSubDivision:
			if value != nil {
				c.SubDivision, err = intField(key, value)
			}
		case fieldParticipants:
			c.Participants, err = sanitizeParticipants(value)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := checkStruct(c); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseDate parses a DD-MM-YYYY or DD/MM/YYYY date into UTC midnight
func ParseDate(s string) (time.Time, error) {
	if !dateRe.MatchString(s) {
		return time.Time{}, fmt.Errorf("date %q does not match DD-MM-YYYY or DD/MM/YYYY", s)
	}

	parts := dateSplitRe.Split(s, -1)
	// day, month, year -> year, month, day
	ymd := make([]int, 0, 3)
	for i := len(parts) - 1; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q: %w", s, err)
		}
		ymd = append(ymd, n)
	}

	t := time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, time.UTC)
	if t.Day() != ymd[2] || int(t.Month()) != ymd[1] {
		return time.Time{}, fmt.Errorf("date %q does not exist", s)
	}
	return t, nil
}

// SlugBase lowercases the title and replaces spaces with underscores
func SlugBase(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}

func normalizeTitle(value interface{}) (string, string, error) {
	title, ok := value.(string)
	if !ok || !titleRe.MatchString(title) {
		return "", "", newValidationError(MalformedTitle, fieldTitle)
	}
	return strings.ToLower(title), SlugBase(title), nil
}

func parseDate(field string, value interface{}) (time.Time, error) {
	s, ok := value.(string)
	if !ok {
		return time.Time{}, newValidationError(MalformedDate, field)
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, newValidationError(MalformedDate, field)
	}
	return t, nil
}

// sanitizeParticipants builds each participant from the allowed keys only
func sanitizeParticipants(value interface{}) ([]model.Participant, error) {
	items, ok := value.([]interface{})
	if !ok || len(items) == 0 {
		return nil, newValidationError(InvalidParticipants, fieldParticipants)
	}

	participants := make([]model.Participant, 0, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, newValidationError(InvalidParticipants, fieldParticipants)
		}
		prefix := fmt.Sprintf("%s[%d].", fieldParticipants, i)

		name, ok := entry[fieldParticipantName].(string)
		if !ok {
			return nil, newValidationError(InvalidField, prefix+fieldParticipantName)
		}
		contact, ok := contactString(entry[fieldParticipantContact])
		if !ok {
			return nil, newValidationError(InvalidField, prefix+fieldParticipantContact)
		}
		position, ok := positionField(entry[fieldParticipantPos])
		if !ok {
			return nil, newValidationError(InvalidField, prefix+fieldParticipantPos)
		}

		participants = append(participants, model.Participant{
			Name:          name,
			ContactNumber: contact,
			Position:      position,
		})
	}
	return participants, nil
}

// contactString accepts phone numbers sent either as strings or as JSON numbers
func contactString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		if v != math.Trunc(v) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// positionField accepts integral JSON numbers, integer strings and ordinals like "primero"
func positionField(value interface{}) (model.Position, bool) {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return model.Position{}, false
		}
		if n, err := strconv.Atoi(trimmed); err == nil {
			return model.IntPosition(n), true
		}
		return model.OrdinalPosition(trimmed), true
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil {
			return model.IntPosition(n), true
		}
		return model.Position{}, false
	default:
		n, err := intField(fieldParticipantPos, value)
		if err != nil {
			return model.Position{}, false
		}
		return model.IntPosition(n), true
	}
}

// intField accepts integral JSON numbers and integer strings
func intField(field string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt32 && v <= math.MaxInt32 {
			return int(v), nil
		}
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil {
			return n, nil
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, nil
		}
	}
	return 0, newValidationError(InvalidField, field)
}

func checkStruct(c *model.Chain) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		ns := fieldErrs[0].Namespace()
		// drop the leading struct name
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		return newValidationError(InvalidField, ns)
	}
	return err
}
