package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

type LoansController struct {
	store LoanStore
	audit AuditRecorder
}

func NewLoansController(store LoanStore, recorder AuditRecorder) *LoansController {
	return &LoansController{store: store, audit: recorderOrNoop(recorder)}
}

func (lc *LoansController) list(c *gin.Context, filter library.LoanFilter) {
	loans, err := lc.store.List(filter)
	if err != nil {
		respondInternalError(c, err, "list loans")
		return
	}
	c.JSON(http.StatusOK, loans)
}

// GET /api/emprunts
func (lc *LoansController) List(c *gin.Context) { lc.list(c, library.FilterAll) }

// GET /api/emprunts/en-cours
func (lc *LoansController) ListOutstanding(c *gin.Context) { lc.list(c, library.FilterOutstanding) }

// GET /api/emprunts/en-retard
func (lc *LoansController) ListOverdue(c *gin.Context) { lc.list(c, library.FilterOverdue) }

// GET /api/emprunts/:id
func (lc *LoansController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	loan, err := lc.store.Get(id)
	if err != nil {
		respondStoreError(c, err, "get loan")
		return
	}
	c.JSON(http.StatusOK, loan)
}

// createLoanRequest accepts both the French keys and the student_id/book_isbn pair.
type createLoanRequest struct {
	EtudiantID uint   `json:"etudiant_id"`
	LivreID    string `json:"livre_id"`
	StudentID  uint   `json:"student_id"`
	BookISBN   string `json:"book_isbn"`
}

func (r createLoanRequest) input() library.LoanInput {
	in := library.LoanInput{EtudiantID: r.EtudiantID, ISBN: r.LivreID}
	if in.EtudiantID == 0 {
		in.EtudiantID = r.StudentID
	}
	if in.ISBN == "" {
		in.ISBN = r.BookISBN
	}
	return in
}

// POST /api/emprunts
func (lc *LoansController) Create(c *gin.Context) {
	var req createLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	in := req.input()
	if err := library.ValidateLoan(&in); err != nil {
		respondStoreError(c, err, "validate loan")
		return
	}

	loan, err := lc.store.Create(in.EtudiantID, in.ISBN)
	if err != nil {
		respondStoreError(c, err, "create loan")
		return
	}
	lc.audit.LogLoan(strconv.FormatUint(uint64(loan.ID), 10), loan.EtudiantID, loan.ISBN)

	view, err := lc.store.Get(loan.ID)
	if err != nil {
		respondCreated(c, loan)
		return
	}
	respondCreated(c, view)
}

// Return closes the loan and reports lateness and fine
// POST /api/emprunts/:id/retourner
func (lc *LoansController) Return(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	receipt, err := lc.store.Return(id)
	if err != nil {
		respondStoreError(c, err, "return loan")
		return
	}
	lc.audit.LogReturn(c.Param("id"), receipt)
	c.JSON(http.StatusOK, receipt)
}

// Delete removes the loan record without touching available copies
// DELETE /api/emprunts/:id
func (lc *LoansController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := lc.store.Delete(id); err != nil {
		respondStoreError(c, err, "delete loan")
		return
	}
	lc.audit.LogChange(entities.AuditEventDelete, "loan", c.Param("id"), "Deleted loan record", nil)
	respondSuccess(c, "Emprunt supprimé")
}
