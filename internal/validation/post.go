package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength   = 255
	MaxContentLength = 10000
)

// ValidatePostTitle requires a non-blank title of at most MaxTitleLength characters.
func ValidatePostTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLength)
	}
	return nil
}

// ValidatePostContent requires non-blank content of at most MaxContentLength characters.
func ValidatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return fmt.Errorf("content must not exceed %d characters", MaxContentLength)
	}
	return nil
}

// ValidatePostFields checks whichever of title and content are supplied.
// Nil pointers are skipped so partial updates validate only what changes.
func ValidatePostFields(title, content *string) map[string]string {
	fields := map[string]string{}
	if title != nil {
		if err := ValidatePostTitle(*title); err != nil {
			fields["title"] = err.Error()
		}
	}
	if content != nil {
		if err := ValidatePostContent(*content); err != nil {
			fields["content"] = err.Error()
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
