package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

type StudentsController struct {
	store StudentStore
	loans LoanStore
	audit AuditRecorder
}

func NewStudentsController(store StudentStore, loans LoanStore, recorder AuditRecorder) *StudentsController {
	return &StudentsController{store: store, loans: loans, audit: recorderOrNoop(recorder)}
}

// List returns every student
// GET /api/etudiants
func (sc *StudentsController) List(c *gin.Context) {
	students, err := sc.store.List()
	if err != nil {
		respondInternalError(c, err, "list students")
		return
	}
	c.JSON(http.StatusOK, students)
}

// Search matches surname, first name or email
// GET /api/etudiants/search?q=
func (sc *StudentsController) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		sc.List(c)
		return
	}
	students, err := sc.store.Search(q)
	if err != nil {
		respondInternalError(c, err, "search students")
		return
	}
	c.JSON(http.StatusOK, students)
}

// GET /api/etudiants/:id
func (sc *StudentsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	student, err := sc.store.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "get student")
		return
	}
	c.JSON(http.StatusOK, student)
}

// Loans returns the student's loan history
// GET /api/etudiants/:id/emprunts
func (sc *StudentsController) Loans(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := sc.store.GetByID(id); err != nil {
		respondStoreError(c, err, "get student")
		return
	}
	loans, err := sc.loans.ListByStudent(id)
	if err != nil {
		respondInternalError(c, err, "list student loans")
		return
	}
	c.JSON(http.StatusOK, loans)
}

// POST /api/etudiants
func (sc *StudentsController) Create(c *gin.Context) {
	var in library.StudentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := library.ValidateStudent(&in); err != nil {
		respondStoreError(c, err, "validate student")
		return
	}

	student := &entities.Student{Nom: in.Nom, Prenom: in.Prenom, Email: in.Email}
	if err := sc.store.Create(student); err != nil {
		respondStoreError(c, err, "create student")
		return
	}

	sc.audit.LogChange(entities.AuditEventCreate, "student", strconv.FormatUint(uint64(student.ID), 10),
		"Created student: "+student.FullName(), nil)
	respondCreated(c, student)
}

// PUT /api/etudiants/:id
func (sc *StudentsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var in library.StudentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := library.ValidateStudent(&in); err != nil {
		respondStoreError(c, err, "validate student")
		return
	}

	student, err := sc.store.Update(id, in.Nom, in.Prenom, in.Email)
	if err != nil {
		respondStoreError(c, err, "update student")
		return
	}

	sc.audit.LogChange(entities.AuditEventUpdate, "student", c.Param("id"), "Updated student: "+student.FullName(), nil)
	c.JSON(http.StatusOK, student)
}

// DELETE /api/etudiants/:id
func (sc *StudentsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sc.store.Delete(id); err != nil {
		respondStoreError(c, err, "delete student")
		return
	}

	sc.audit.LogChange(entities.AuditEventDelete, "student", c.Param("id"), "Deleted student", nil)
	respondSuccess(c, "Étudiant supprimé")
}
