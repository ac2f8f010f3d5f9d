package library

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MinPublicationYear is the oldest accepted publication year.
const MinPublicationYear = 1000

// MaxPublicationYear is the year after now: books announced for next year may be catalogued.
func MaxPublicationYear(now time.Time) int {
	return now.Year() + 1
}

type nowKey struct{}

// validationTime is the reference time check was given, or the wall clock.
func validationTime(ctx context.Context) time.Time {
	if now, ok := ctx.Value(nowKey{}).(time.Time); ok {
		return now
	}
	return time.Now()
}

var validate = newValidator()

var fieldLabels = map[string]string{
	"nom":               "nom",
	"prenom":            "prénom",
	"email":             "email",
	"isbn":              "ISBN",
	"titre":             "titre",
	"editeur":           "éditeur",
	"annee_publication": "année",
	"exemplaires_dispo": "exemplaires",
	"etudiant_id":       "étudiant",
	"livre_id":          "livre",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidationCtx("pubyear", func(ctx context.Context, fl validator.FieldLevel) bool {
		year := int(fl.Field().Int())
		return year >= MinPublicationYear && year <= MaxPublicationYear(validationTime(ctx))
	})
	return v
}

// FieldError is one rejected form field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"type"`
	Message string `json:"message"`
}

// ValidationError is returned when input is rejected before it reaches storage.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type StudentInput struct {
	Nom    string `json:"nom" validate:"required"`
	Prenom string `json:"prenom" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

func (in *StudentInput) normalize() {
	in.Nom = strings.TrimSpace(in.Nom)
	in.Prenom = strings.TrimSpace(in.Prenom)
	in.Email = strings.TrimSpace(in.Email)
}

// ValidateStudent trims the input in place and checks every field.
func ValidateStudent(in *StudentInput) error {
	in.normalize()
	return check(time.Now(), in)
}

type BookInput struct {
	ISBN             string `json:"isbn" validate:"required"`
	Titre            string `json:"titre" validate:"required"`
	Editeur          string `json:"editeur" validate:"required"`
	AnneePublication *int   `json:"annee_publication" validate:"omitempty,pubyear"`
	ExemplairesDispo *int   `json:"exemplaires_dispo" validate:"omitempty,gte=0"`
}

func (in *BookInput) normalize() {
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Titre = strings.TrimSpace(in.Titre)
	in.Editeur = strings.TrimSpace(in.Editeur)
}

// ValidateBook trims the input in place and checks every field against the wall clock.
func ValidateBook(in *BookInput) error {
	return DefaultPolicy().ValidateBook(in)
}

// ValidateBook checks the publication year against the policy clock.
func (p Policy) ValidateBook(in *BookInput) error {
	in.normalize()
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	return check(now, in)
}

type LoanInput struct {
	EtudiantID uint   `json:"etudiant_id" validate:"required"`
	ISBN       string `json:"livre_id" validate:"required"`
}

// ValidateLoan rejects a loan request with no student or no book selected.
func ValidateLoan(in *LoanInput) error {
	in.ISBN = strings.TrimSpace(in.ISBN)
	return check(time.Now(), in)
}

func check(now time.Time, in any) error {
	err := validate.StructCtx(context.WithValue(context.Background(), nowKey{}, now), in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe, now),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError, now time.Time) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Le champ '%s' est obligatoire", label)
	case "email":
		return "Format email invalide"
	case "pubyear":
		return fmt.Sprintf("L'année doit être entre %d et %d", MinPublicationYear, MaxPublicationYear(now))
	case "gte":
		return fmt.Sprintf("'%s' doit être positif ou nul", label)
	default:
		return fmt.Sprintf("Valeur invalide pour '%s'", label)
	}
}
