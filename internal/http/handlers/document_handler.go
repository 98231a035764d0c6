// Document HTTP handlers.
//
//   - GET  /users/{userId}/documents                 (weak ETag, 304 on If-None-Match)
//   - POST /users/{userId}/documents
//   - GET  /users/{userId}/documents/search?q=&limit=
//   - GET  /users/{userId}/documents/{documentId}
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/services"
)

const maxQueryRunes = 500

// CreateDocumentRequest is the payload of a new document. Content may be
// markdown; tables and headings are flattened for search.
type CreateDocumentRequest struct {
	Title        string  `json:"title" example:"Blood panel 2024-03"`
	Content      string  `json:"content" example:"# Results\n| Marker | Value |\n|---|---|\n| LDL | 2.9 |"`
	FilePath     *string `json:"file_path" example:"uploads/panel-2024-03.pdf"`
	DocumentType *string `json:"document_type" example:"medical"`
}

// DocumentsResponse wraps a document listing.
type DocumentsResponse struct {
	Documents []domain.Document `json:"documents"`
}

// DocumentResponse wraps one document.
type DocumentResponse struct {
	Document *domain.Document `json:"document"`
}

// SearchResponse wraps ranked search hits, at most one per document.
type SearchResponse struct {
	Query   string                 `json:"query"`
	Results []services.DocumentHit `json:"results"`
}

// ListDocuments godoc
// @ID          listDocuments
// @Summary     List documents
// @Tags        Documents
// @Produce     json
// @Param       userId         path    int     true   "User ID"
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {object}  handlers.DocumentsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Router      /users/{userId}/documents [get]
func (h *Handlers) ListDocuments(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	ctx := c.Request.Context()

	if st, err := h.svc.Documents.Stats(ctx, uid); err == nil && notModified(c, "documents", uid, st) {
		return
	}

	docs, err := h.svc.Documents.List(ctx, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DocumentsResponse{Documents: docs})
}

// CreateDocument godoc
// @ID          createDocument
// @Summary     Store a document
// @Tags        Documents
// @Accept      json
// @Produce     json
// @Param       userId  path      int                             true  "User ID"
// @Param       body    body      handlers.CreateDocumentRequest  true  "Document"
// @Success     201     {object}  handlers.DocumentResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404     {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/documents [post]
func (h *Handlers) CreateDocument(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	var req CreateDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.svc.Documents.Create(c.Request.Context(), uid, services.DocumentInput{
		Title:        req.Title,
		Content:      req.Content,
		FilePath:     req.FilePath,
		DocumentType: req.DocumentType,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, DocumentResponse{Document: d})
}

// GetDocument godoc
// @ID          getDocument
// @Summary     Get one document
// @Tags        Documents
// @Produce     json
// @Param       userId      path  int  true  "User ID"
// @Param       documentId  path  int  true  "Document ID"
// @Success     200  {object}  handlers.DocumentResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Document not found"
// @Router      /users/{userId}/documents/{documentId} [get]
func (h *Handlers) GetDocument(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	docID, valid := pathID(c, "documentId")
	if !valid {
		return
	}
	d, err := h.svc.Documents.Get(c.Request.Context(), uid, docID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DocumentResponse{Document: d})
}

// SearchDocuments godoc
// @ID          searchDocuments
// @Summary     Search a user's documents
// @Description Ranks passages by token overlap with q and returns the best passage per document.
// @Tags        Documents
// @Produce     json
// @Param       userId  path   int     true   "User ID"
// @Param       q       query  string  true   "Free-text query"  example(cholesterol)
// @Param       limit   query  int     false  "Max documents"  minimum(1) maximum(50) default(10)
// @Success     200  {object}  handlers.SearchResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or too long query"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/documents/search [get]
func (h *Handlers) SearchDocuments(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q is required")
		return
	}
	if len([]rune(q)) > maxQueryRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q is too long")
		return
	}
	hits, err := h.svc.Documents.Search(c.Request.Context(), uid, q, queryLimit(c))
	if err != nil {
		failErr(c, err)
		return
	}
	if hits == nil {
		hits = []services.DocumentHit{}
	}
	ok(c, http.StatusOK, SearchResponse{Query: q, Results: hits})
}
