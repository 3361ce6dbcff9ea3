package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"paydesk/internal/platform/ids"
	"paydesk/internal/transport/http/api"
)

func DecodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// FailDecode reports a body that could not be read or decoded. Oversized
// bodies get 413; everything else is a validation error naming the field
// when the decoder knows it.
func FailDecode(w http.ResponseWriter, requestID string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
		return
	}
	field := "body"
	reason := "must be a valid JSON object"
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field = typeErr.Field
		reason = "has the wrong type"
	}
	if errors.Is(err, ids.ErrInvalidID) {
		reason = "ids must be positive integers"
	}
	FailValidation(w, requestID, []ValidationIssue{{Field: field, Reason: reason}})
}
