package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

type StudentsScreen struct {
	page

	api      StudentsAPI
	List     State[[]entities.Student]
	Query    string
	Form     Form[library.StudentInput]
	EditedID uint
}

func NewStudentsScreen(api StudentsAPI) *StudentsScreen {
	return &StudentsScreen{page: newPage(), api: api}
}

// Load fetches the list, filtered by Query when one is set.
func (s *StudentsScreen) Load(ctx context.Context) {
	s.List = s.List.Loading()

	var (
		students []entities.Student
		err      error
	)
	if q := strings.TrimSpace(s.Query); q != "" {
		students, err = s.api.SearchStudents(ctx, q)
	} else {
		students, err = s.api.ListStudents(ctx)
	}
	if err != nil {
		s.List = s.List.Failed(err.Error())
		return
	}
	s.List = s.List.Loaded(students)
}

func (s *StudentsScreen) Search(ctx context.Context, q string) error {
	if err := s.interactive(); err != nil {
		return err
	}
	s.Query = q
	s.Load(ctx)
	return nil
}

func (s *StudentsScreen) OpenCreate() error {
	if err := s.interactive(); err != nil {
		return err
	}
	s.EditedID = 0
	s.Form.show(library.StudentInput{})
	return nil
}

func (s *StudentsScreen) OpenEdit(student entities.Student) error {
	if err := s.interactive(); err != nil {
		return err
	}
	s.EditedID = student.ID
	s.Form.show(library.StudentInput{Nom: student.Nom, Prenom: student.Prenom, Email: student.Email})
	return nil
}

func (s *StudentsScreen) Editing() bool {
	return s.EditedID != 0
}

func (s *StudentsScreen) CloseForm() {
	s.EditedID = 0
	s.Form.close()
}

// Submit saves the open form. Errors stay in the form; on success the form
// closes and the list is fetched again.
func (s *StudentsScreen) Submit(ctx context.Context) error {
	if err := s.interactive(); err != nil {
		return err
	}
	if !s.Form.Open {
		return nil
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()
	s.Form.Error = Alert{}

	var (
		err     error
		message string
	)
	if s.Editing() {
		_, err = s.api.UpdateStudent(ctx, s.EditedID, s.Form.Input)
		message = "Étudiant modifié avec succès"
	} else {
		_, err = s.api.CreateStudent(ctx, s.Form.Input)
		message = "Étudiant ajouté avec succès"
	}
	if err != nil {
		s.Form.Error = ModalError(err.Error(), s.now())
		return err
	}

	s.CloseForm()
	s.succeed(message)
	s.Load(ctx)
	return nil
}

func (s *StudentsScreen) RequestDelete(student entities.Student) error {
	return s.ask(DeleteStudent(student.ID, student.FullName()))
}

// Confirm runs the pending intent, if any. Failures go to the page error banner.
func (s *StudentsScreen) Confirm(ctx context.Context) error {
	intent, ok := s.Gate.Confirm()
	if !ok {
		return nil
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	err := s.apply(ctx, intent)
	if err != nil {
		s.fail(err)
		return err
	}
	s.succeed("Étudiant supprimé avec succès")
	s.Load(ctx)
	return nil
}

func (s *StudentsScreen) apply(ctx context.Context, intent Intent) error {
	if intent.Kind != IntentDelete || intent.Entity != EntityStudent {
		return fmt.Errorf("unsupported action %s on %s", intent.Kind, intent.Entity)
	}
	id, err := intent.ID()
	if err != nil {
		return err
	}
	return s.api.DeleteStudent(ctx, id)
}

func (s *StudentsScreen) Cancel() {
	s.Gate.Cancel()
}
