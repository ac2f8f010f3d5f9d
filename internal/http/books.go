package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

// defaultCopies is used when a book is created without a copy count.
const defaultCopies = 1

type BooksController struct {
	store BookStore
	audit AuditRecorder
}

func NewBooksController(store BookStore, recorder AuditRecorder) *BooksController {
	return &BooksController{store: store, audit: recorderOrNoop(recorder)}
}

// List returns the catalog, or only books with copies left when ?disponibles=true
// GET /api/livres
func (bc *BooksController) List(c *gin.Context) {
	var (
		result []entities.Book
		err    error
	)
	if c.Query("disponibles") == "true" {
		result, err = bc.store.ListAvailable()
	} else {
		result, err = bc.store.List()
	}
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/livres/search?q=
func (bc *BooksController) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		bc.List(c)
		return
	}
	result, err := bc.store.Search(q)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/livres/:isbn
func (bc *BooksController) Get(c *gin.Context) {
	book, err := bc.store.GetByISBN(c.Param("isbn"))
	if err != nil {
		respondStoreError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// bookRequest accepts "auteur" as an alias of "editeur".
type bookRequest struct {
	library.BookInput
	Auteur string `json:"auteur"`
}

func (r *bookRequest) input() *library.BookInput {
	if strings.TrimSpace(r.Editeur) == "" {
		r.Editeur = r.Auteur
	}
	return &r.BookInput
}

// POST /api/livres
func (bc *BooksController) Create(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	in := req.input()
	if err := library.ValidateBook(in); err != nil {
		respondStoreError(c, err, "validate book")
		return
	}

	copies := defaultCopies
	if in.ExemplairesDispo != nil {
		copies = *in.ExemplairesDispo
	}
	book := &entities.Book{
		ISBN:             in.ISBN,
		Titre:            in.Titre,
		Editeur:          in.Editeur,
		AnneePublication: in.AnneePublication,
		ExemplairesDispo: copies,
	}
	if err := bc.store.Create(book); err != nil {
		respondStoreError(c, err, "create book")
		return
	}

	bc.audit.LogChange(entities.AuditEventCreate, "book", book.ISBN, "Created book: "+book.Titre, nil)
	respondCreated(c, book)
}

// Update changes a book. The ISBN in the path identifies it; an ISBN in the body is ignored.
// PUT /api/livres/:isbn
func (bc *BooksController) Update(c *gin.Context) {
	isbn := c.Param("isbn")

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	in := req.input()
	in.ISBN = isbn
	if err := library.ValidateBook(in); err != nil {
		respondStoreError(c, err, "validate book")
		return
	}

	book, err := bc.store.Update(isbn, books.BookUpdate{
		Titre:            in.Titre,
		Editeur:          in.Editeur,
		AnneePublication: in.AnneePublication,
		ExemplairesDispo: in.ExemplairesDispo,
	})
	if err != nil {
		respondStoreError(c, err, "update book")
		return
	}

	bc.audit.LogChange(entities.AuditEventUpdate, "book", isbn, "Updated book: "+book.Titre, nil)
	c.JSON(http.StatusOK, book)
}

// DELETE /api/livres/:isbn
func (bc *BooksController) Delete(c *gin.Context) {
	isbn := c.Param("isbn")
	if err := bc.store.Delete(isbn); err != nil {
		respondStoreError(c, err, "delete book")
		return
	}

	bc.audit.LogChange(entities.AuditEventDelete, "book", isbn, "Deleted book", nil)
	respondSuccess(c, "Livre supprimé")
}
