package views

import (
	"fmt"
	"strconv"
)

type IntentKind int

const (
	IntentDelete IntentKind = iota
	IntentReturn
)

func (k IntentKind) String() string {
	if k == IntentReturn {
		return "return"
	}
	return "delete"
}

type Entity string

const (
	EntityStudent Entity = "student"
	EntityBook    Entity = "book"
	EntityLoan    Entity = "loan"
)

// Intent is a destructive action waiting for the user's answer.
// TargetID is the student or loan id, or the book ISBN.
// Label names the target in the prompt.
type Intent struct {
	Kind     IntentKind
	Entity   Entity
	TargetID string
	Label    string
}

func DeleteStudent(id uint, fullName string) Intent {
	return Intent{Kind: IntentDelete, Entity: EntityStudent, TargetID: formatID(id), Label: fullName}
}

func DeleteBook(isbn, title string) Intent {
	return Intent{Kind: IntentDelete, Entity: EntityBook, TargetID: isbn, Label: title}
}

func DeleteLoan(id uint, title string) Intent {
	return Intent{Kind: IntentDelete, Entity: EntityLoan, TargetID: formatID(id), Label: title}
}

func ReturnLoan(id uint, title string) Intent {
	return Intent{Kind: IntentReturn, Entity: EntityLoan, TargetID: formatID(id), Label: title}
}

// Prompt is the question shown in the confirmation dialog.
func (i Intent) Prompt() string {
	switch {
	case i.Kind == IntentReturn:
		return fmt.Sprintf("Confirmer le retour du livre \"%s\" ?", i.Label)
	case i.Entity == EntityStudent:
		return fmt.Sprintf("Voulez-vous vraiment supprimer l'étudiant %s ?", i.Label)
	case i.Entity == EntityBook:
		return fmt.Sprintf("Voulez-vous vraiment supprimer le livre \"%s\" ?", i.Label)
	default:
		return fmt.Sprintf("Voulez-vous vraiment supprimer l'emprunt du livre \"%s\" ?", i.Label)
	}
}

// ID parses TargetID for entities keyed by a number.
func (i Intent) ID() (uint, error) {
	id, err := strconv.ParseUint(i.TargetID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q: %w", i.Entity, i.TargetID, err)
	}
	return uint(id), nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
