package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cppla/hasker/errs"
	"github.com/cppla/hasker/utils"
)

const (
	MaxTitleLength     = 50
	MaxTagLength       = 50
	MaxTagsPerQuestion = 3
	MaxAnswerLength    = 1000
	MinUsernameLength  = 3
	MaxUsernameLength  = 64
	MinPasswordLength  = 6
)

// ParseTags splits a comma-separated tag list, trimming entries and dropping
// empty and repeated ones.
func ParseTags(raw string) ([]string, error) {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	names = utils.UniqueStrings(names)
	if len(names) > MaxTagsPerQuestion {
		return nil, errs.Validation(fmt.Sprintf("at most %d tags are allowed", MaxTagsPerQuestion))
	}
	for _, name := range names {
		if utf8.RuneCountInString(name) > MaxTagLength {
			return nil, errs.Validation(fmt.Sprintf("tag %q is longer than %d characters", name, MaxTagLength))
		}
	}
	return names, nil
}

func validateTitle(title string) error {
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		return errs.Validation("title cannot be empty")
	case n > MaxTitleLength:
		return errs.Validation(fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	}
	return nil
}

func validateAnswerBody(body string) error {
	switch n := utf8.RuneCountInString(body); {
	case n == 0:
		return errs.Validation("answer cannot be empty")
	case n > MaxAnswerLength:
		return errs.Validation(fmt.Sprintf("answer must be at most %d characters", MaxAnswerLength))
	}
	return nil
}

func validateEmail(email string) error {
	if email != "" && !strings.Contains(email, "@") {
		return errs.Validation("invalid email address")
	}
	return nil
}
