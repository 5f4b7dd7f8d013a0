package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

const msgInvalidBody = "Invalid request body"

// typeMismatchMessages names request fields whose JSON type was wrong.
var typeMismatchMessages = map[string]string{
	"score":         fmt.Sprintf("Score is required and must be an integer between %d and %d", domain.MinScore, domain.MaxScore),
	"questionIndex": "Question index must be a non-negative integer",
	"duration":      "Duration must be a number greater than 0",
	"size":          "Size must be an integer greater than 0",
	"questions":     "Questions must be a list of strings",
	"title":         "Title must be a string",
	"description":   "Description must be a string",
	"comments":      "Comments must be a string",
	"videoResponse": "Video response must be a string",
	"interview":     "Interview must be a string",
	"question":      "Question must be a string",
	"videoUrl":      "Video URL must be a string",
	"mediaId":       "Media id must be a string",
	"status":        "Status must be one of processing, ready, error",
}

// DecodeJSON reads a bounded JSON body into dst. Malformed bodies are validation errors;
// a value of the wrong type is reported against its field.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBody)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		if msg, ok := typeMismatchMessages[typeErr.Field]; ok {
			return domain.ValidationError(msg)
		}
		return domain.ValidationError(fmt.Sprintf("Field %s has an invalid type", typeErr.Field))
	}
	return domain.ValidationError(msgInvalidBody)
}
