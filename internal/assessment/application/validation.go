package application

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

var commandValidator = newCommandValidator()

func newCommandValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldMessages holds the wording for the failures clients see most.
var fieldMessages = map[string]string{
	"title.required":         "Title is required",
	"title.max":              fmt.Sprintf("Title cannot be more than %d characters", domain.MaxInterviewTitleRunes),
	"description.required":   "Description is required",
	"questions.required":     "Interview must have at least one question",
	"questions.min":          "Interview must have at least one question",
	"score.required":         "Score is required",
	"score.min":              fmt.Sprintf("Score must be at least %d", domain.MinScore),
	"score.max":              fmt.Sprintf("Score cannot exceed %d", domain.MaxScore),
	"comments.required":      "Comments are required",
	"videoResponse.required": "Video response is required",
	"interview.required":     "Interview is required",
	"question.required":      "Question is required",
	"questionIndex.required": "Question index is required",
	"questionIndex.min":      "Question index cannot be negative",
	"videoUrl.required":      "Video URL is required",
	"mediaId.required":       "Media id is required",
	"duration.gt":            "Duration must be greater than 0",
	"size.gt":                "Size must be greater than 0",
	"status.oneof":           "Status must be one of processing, ready, error",
}

// validateCommand runs struct validation and returns a validation error
// listing every failing field, or nil.
func validateCommand(cmd any) error {
	err := commandValidator.Struct(cmd)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.InternalError("validate command", err)
	}
	details := make([]string, 0, len(fieldErrs))
	seen := make(map[string]struct{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := describeFieldError(fe)
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		details = append(details, msg)
	}
	return domain.ValidationError(details...)
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	if msg, ok := fieldMessages[field+"."+fe.Tag()]; ok {
		return msg
	}
	if strings.HasPrefix(field, "questions[") {
		return "Questions cannot be empty"
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func (c *CreateInterviewCommand) normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Questions = trimAll(c.Questions)
}

func (c *SaveVideoCommand) normalize() {
	c.InterviewID = strings.TrimSpace(c.InterviewID)
	c.Question = strings.TrimSpace(c.Question)
	c.VideoURL = strings.TrimSpace(c.VideoURL)
	c.MediaID = strings.TrimSpace(c.MediaID)
	c.Status = strings.TrimSpace(c.Status)
}

func (c *CreateEvaluationCommand) normalize() {
	c.VideoResponseID = strings.TrimSpace(c.VideoResponseID)
	c.Comments = strings.TrimSpace(c.Comments)
}

func (c *UpdateEvaluationCommand) normalize() {
	c.Comments = strings.TrimSpace(c.Comments)
}
