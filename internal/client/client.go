// Package client talks to the library REST API. Every call validates its
// input first, so a rejected form never reaches the network.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

const (
	DefaultTimeout = 10 * time.Second
	userAgent      = "LibraryManager/1.0"
)

// Client is not retried on failure; every error is final for that call.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:8000/api).
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return unreachable(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return statusError(status, body.Code, body.Error)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		text = http.StatusText(status)
	}
	return unstructuredError(status, text)
}

func idPath(prefix string, id uint) string {
	return prefix + "/" + strconv.FormatUint(uint64(id), 10)
}

func searchPath(prefix, q string) string {
	return prefix + "/search?" + url.Values{"q": {q}}.Encode()
}

// --- Students ---

func (c *Client) ListStudents(ctx context.Context) ([]entities.Student, error) {
	var out []entities.Student
	if err := c.do(ctx, http.MethodGet, "/etudiants", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchStudents(ctx context.Context, q string) ([]entities.Student, error) {
	var out []entities.Student
	if err := c.do(ctx, http.MethodGet, searchPath("/etudiants", q), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetStudent(ctx context.Context, id uint) (*entities.Student, error) {
	var out entities.Student
	if err := c.do(ctx, http.MethodGet, idPath("/etudiants", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateStudent(ctx context.Context, in library.StudentInput) (*entities.Student, error) {
	if err := library.ValidateStudent(&in); err != nil {
		return nil, err
	}
	var out entities.Student
	if err := c.do(ctx, http.MethodPost, "/etudiants", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id uint, in library.StudentInput) (*entities.Student, error) {
	if err := library.ValidateStudent(&in); err != nil {
		return nil, err
	}
	var out entities.Student
	if err := c.do(ctx, http.MethodPut, idPath("/etudiants", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteStudent(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/etudiants", id), nil, nil)
}

// StudentLoans returns every loan of one student, newest first.
func (c *Client) StudentLoans(ctx context.Context, id uint) ([]entities.LoanView, error) {
	var out []entities.LoanView
	if err := c.do(ctx, http.MethodGet, idPath("/etudiants", id)+"/emprunts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Books ---

func (c *Client) ListBooks(ctx context.Context) ([]entities.Book, error) {
	var out []entities.Book
	if err := c.do(ctx, http.MethodGet, "/livres", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAvailableBooks returns only books with at least one copy left,
// which is what the loan form offers.
func (c *Client) ListAvailableBooks(ctx context.Context) ([]entities.Book, error) {
	var out []entities.Book
	if err := c.do(ctx, http.MethodGet, "/livres?disponibles=true", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchBooks(ctx context.Context, q string) ([]entities.Book, error) {
	var out []entities.Book
	if err := c.do(ctx, http.MethodGet, searchPath("/livres", q), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func bookPath(isbn string) string {
	return "/livres/" + url.PathEscape(isbn)
}

func (c *Client) GetBook(ctx context.Context, isbn string) (*entities.Book, error) {
	var out entities.Book
	if err := c.do(ctx, http.MethodGet, bookPath(isbn), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBook(ctx context.Context, in library.BookInput) (*entities.Book, error) {
	if err := library.ValidateBook(&in); err != nil {
		return nil, err
	}
	var out entities.Book
	if err := c.do(ctx, http.MethodPost, "/livres", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBook edits the book identified by isbn. The ISBN itself cannot change.
func (c *Client) UpdateBook(ctx context.Context, isbn string, in library.BookInput) (*entities.Book, error) {
	in.ISBN = isbn
	if err := library.ValidateBook(&in); err != nil {
		return nil, err
	}
	var out entities.Book
	if err := c.do(ctx, http.MethodPut, bookPath(in.ISBN), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBook(ctx context.Context, isbn string) error {
	if strings.TrimSpace(isbn) == "" {
		return errors.New("isbn is required")
	}
	return c.do(ctx, http.MethodDelete, bookPath(isbn), nil, nil)
}

// --- Loans ---

var loanPaths = map[library.LoanFilter]string{
	library.FilterAll:         "/emprunts",
	library.FilterOutstanding: "/emprunts/en-cours",
	library.FilterOverdue:     "/emprunts/en-retard",
}

// ListLoans runs the backend query behind filter. Each filter is its own request.
func (c *Client) ListLoans(ctx context.Context, filter library.LoanFilter) ([]entities.LoanView, error) {
	path, ok := loanPaths[filter]
	if !ok {
		return nil, fmt.Errorf("unknown loan filter %q", filter)
	}
	var out []entities.LoanView
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetLoan(ctx context.Context, id uint) (*entities.LoanView, error) {
	var out entities.LoanView
	if err := c.do(ctx, http.MethodGet, idPath("/emprunts", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateLoan(ctx context.Context, studentID uint, isbn string) (*entities.LoanView, error) {
	in := library.LoanInput{EtudiantID: studentID, ISBN: isbn}
	if err := library.ValidateLoan(&in); err != nil {
		return nil, err
	}
	var out entities.LoanView
	if err := c.do(ctx, http.MethodPost, "/emprunts", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReturnLoan(ctx context.Context, id uint) (*entities.ReturnReceipt, error) {
	var out entities.ReturnReceipt
	if err := c.do(ctx, http.MethodPost, idPath("/emprunts", id)+"/retourner", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLoan(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/emprunts", id), nil, nil)
}

// --- Stats ---

func (c *Client) StatsOverview(ctx context.Context) (*entities.StatsOverview, error) {
	var out entities.StatsOverview
	if err := c.do(ctx, http.MethodGet, "/stats/overview", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TopStudents(ctx context.Context) ([]entities.TopStudent, error) {
	var out []entities.TopStudent
	if err := c.do(ctx, http.MethodGet, "/stats/top-etudiants", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TopBooks(ctx context.Context) ([]entities.TopBook, error) {
	var out []entities.TopBook
	if err := c.do(ctx, http.MethodGet, "/stats/top-livres", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
