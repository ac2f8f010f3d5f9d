package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnreachable is reported when no HTTP response came back at all.
var ErrUnreachable = errors.New("Impossible de se connecter au serveur. Vérifiez que le backend est démarré.")

// Messages shown for constraint violations reported by the backend.
const (
	MsgDuplicateEmail  = "Cette adresse email est déjà utilisée par un autre étudiant."
	MsgDuplicateISBN   = "Ce numéro ISBN existe déjà dans la base de données."
	MsgReferencedLoans = "Impossible de supprimer : des emprunts sont associés à cet élément."
	MsgReferenced      = "Opération impossible : des données liées existent."
)

// APIError is a failed call. Status 0 means the server could not be reached.
// Message is already translated for display; Raw keeps what the server sent.
type APIError struct {
	Status  int
	Code    string
	Message string
	Raw     string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnreachable && e.Status == 0
}

func unreachable(cause error) *APIError {
	return &APIError{Message: ErrUnreachable.Error(), Err: cause}
}

// errorBody is the backend error payload.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func statusError(status int, code, raw string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: TranslateError(raw),
		Raw:     raw,
	}
}

func unstructuredError(status int, text string) *APIError {
	return &APIError{
		Status:  status,
		Message: fmt.Sprintf("Erreur %d: %s", status, text),
		Raw:     text,
	}
}

// TranslateError turns database constraint messages into readable French.
// Anything it does not recognise is returned unchanged.
func TranslateError(message string) string {
	lower := strings.ToLower(message)
	duplicate := strings.Contains(lower, "duplicate") || strings.Contains(lower, "unique")

	switch {
	case strings.Contains(lower, "etudiant_email_key") || (duplicate && strings.Contains(lower, "email")):
		return MsgDuplicateEmail
	case strings.Contains(lower, "livre_pkey") || (duplicate && strings.Contains(lower, "isbn")):
		return MsgDuplicateISBN
	case strings.Contains(lower, "foreign key"):
		if strings.Contains(lower, "emprunt") {
			return MsgReferencedLoans
		}
		return MsgReferenced
	}
	return message
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
