package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"benchtrack/internal/config"
	"benchtrack/internal/domain"
	"benchtrack/internal/service"
)

// LibraryHandler handles library API requests
type LibraryHandler struct {
	svc        *service.LibraryService
	transfer   *service.TransferService
	material   *service.MaterialService
	categories *config.CategoryStore
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(svc *service.LibraryService, transfer *service.TransferService, material *service.MaterialService, categories *config.CategoryStore) *LibraryHandler {
	return &LibraryHandler{
		svc:        svc,
		transfer:   transfer,
		material:   material,
		categories: categories,
	}
}

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ==================== Accounts ====================

// ListAccounts returns all accounts with their article aggregates
func (h *LibraryHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	order := domain.AccountOrder(r.URL.Query().Get("order"))

	accounts, err := h.svc.ListAccounts(r.Context(), order)
	if err != nil {
		log.Printf("Failed to list accounts: %v", err)
		h.writeError(w, "Failed to list accounts", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, accounts, http.StatusOK)
}

// CreateAccount creates a new account
func (h *LibraryHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Category    string `json:"category"`
		Description string `json:"description"`
		AvatarURL   string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.svc.CreateAccount(r.Context(), req.Name, req.Category, req.Description, req.AvatarURL)
	if err != nil {
		h.writeDomainError(w, "Failed to create account", err)
		return
	}

	h.writeJSON(w, map[string]int64{"id": id}, http.StatusCreated)
}

// GetAccount returns a single account
func (h *LibraryHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	account, err := h.svc.GetAccount(r.Context(), id)
	if err != nil {
		log.Printf("Failed to get account: %v", err)
		h.writeError(w, "Failed to get account", err.Error(), http.StatusInternalServerError)
		return
	}
	if account == nil {
		h.writeError(w, "Not found", fmt.Sprintf("account %d not found", id), http.StatusNotFound)
		return
	}

	h.writeJSON(w, account, http.StatusOK)
}

// UpdateAccount applies a field patch to an account
func (h *LibraryHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var patch domain.AccountPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateAccount(r.Context(), id, patch); err != nil {
		h.writeDomainError(w, "Failed to update account", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAccount removes an account and its articles
func (h *LibraryHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteAccount(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete account", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchAccounts matches a keyword against names and descriptions
func (h *LibraryHandler) SearchAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	accounts, err := h.svc.SearchAccounts(r.Context(), q.Get("q"), q.Get("category"))
	if err != nil {
		log.Printf("Failed to search accounts: %v", err)
		h.writeError(w, "Failed to search accounts", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, accounts, http.StatusOK)
}

// AccountCategories returns the distinct account categories
func (h *LibraryHandler) AccountCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.AccountCategories(r.Context())
	if err != nil {
		log.Printf("Failed to list categories: %v", err)
		h.writeError(w, "Failed to list categories", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, categories, http.StatusOK)
}

// AccountStats returns article aggregates for one account
func (h *LibraryHandler) AccountStats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.AccountStats(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get account stats", err)
		return
	}

	h.writeJSON(w, stats, http.StatusOK)
}

// ListAccountArticles returns the articles of one account
func (h *LibraryHandler) ListAccountArticles(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := domain.ListOptions{
		Limit:   queryInt(q.Get("limit"), 0),
		Offset:  queryInt(q.Get("offset"), 0),
		OrderBy: domain.ArticleOrder(q.Get("order")),
	}

	articles, err := h.svc.ListArticles(r.Context(), id, opts)
	if err != nil {
		log.Printf("Failed to list articles: %v", err)
		h.writeError(w, "Failed to list articles", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, articles, http.StatusOK)
}

// ==================== Articles ====================

// CreateArticle creates a new article
func (h *LibraryHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req domain.NewArticle
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.svc.CreateArticle(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, "Failed to create article", err)
		return
	}

	h.writeJSON(w, map[string]int64{"id": id}, http.StatusCreated)
}

// CreateArticles inserts a batch of articles
func (h *LibraryHandler) CreateArticles(w http.ResponseWriter, r *http.Request) {
	var req []domain.NewArticle
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	added, failed, err := h.svc.CreateArticles(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, "Failed to add articles", err)
		return
	}

	h.writeJSON(w, map[string]int{"added": added, "failed": failed}, http.StatusCreated)
}

// GetArticle returns a single article
func (h *LibraryHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	article, err := h.svc.GetArticle(r.Context(), id)
	if err != nil {
		log.Printf("Failed to get article: %v", err)
		h.writeError(w, "Failed to get article", err.Error(), http.StatusInternalServerError)
		return
	}
	if article == nil {
		h.writeError(w, "Not found", fmt.Sprintf("article %d not found", id), http.StatusNotFound)
		return
	}

	h.writeJSON(w, article, http.StatusOK)
}

// UpdateArticle applies a field patch to an article
func (h *LibraryHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var patch domain.ArticlePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateArticle(r.Context(), id, patch); err != nil {
		h.writeDomainError(w, "Failed to update article", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteArticle removes one article
func (h *LibraryHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteArticle(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete article", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteArticles removes a batch of articles by id
func (h *LibraryHandler) DeleteArticles(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.svc.DeleteArticles(r.Context(), req.IDs)
	if err != nil {
		h.writeDomainError(w, "Failed to delete articles", err)
		return
	}

	h.writeJSON(w, map[string]int{"deleted": deleted}, http.StatusOK)
}

// SearchArticles returns articles matching the query filters
func (h *LibraryHandler) SearchArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ArticleFilter{
		Keyword:   q.Get("q"),
		AccountID: int64(queryInt(q.Get("account_id"), 0)),
		DateFrom:  q.Get("date_from"),
		DateTo:    q.Get("date_to"),
		Tags:      q.Get("tags"),
	}

	articles, err := h.svc.SearchArticles(r.Context(), filter)
	if err != nil {
		log.Printf("Failed to search articles: %v", err)
		h.writeError(w, "Failed to search articles", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, articles, http.StatusOK)
}

// RecentArticles returns articles published within the trailing window
func (h *LibraryHandler) RecentArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days := queryInt(q.Get("days"), 7)
	limit := queryInt(q.Get("limit"), 50)

	articles, err := h.svc.RecentArticles(r.Context(), days, limit)
	if err != nil {
		log.Printf("Failed to list recent articles: %v", err)
		h.writeError(w, "Failed to list recent articles", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, articles, http.StatusOK)
}

// Totals returns the account and article counts
func (h *LibraryHandler) Totals(w http.ResponseWriter, r *http.Request) {
	accounts, articles, err := h.svc.Totals(r.Context())
	if err != nil {
		log.Printf("Failed to get totals: %v", err)
		h.writeError(w, "Failed to get totals", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]int{"accounts": accounts, "articles": articles}, http.StatusOK)
}

// ==================== Transfer ====================

var exportContentTypes = map[string]string{
	"json":     "application/json",
	"excel":    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"xlsx":     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"markdown": "text/markdown; charset=utf-8",
	"md":       "text/markdown; charset=utf-8",
}

// Export streams the full store in the requested format
func (h *LibraryHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.PathValue("format")))

	exporter, err := service.ExporterFor(format)
	if err != nil {
		h.writeError(w, "Unknown export format", err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", exportContentTypes[format])
	if err := h.transfer.Export(r.Context(), exporter, w); err != nil {
		log.Printf("Failed to export %s: %v", format, err)
		// Headers may already be gone; nothing more to do.
		return
	}
}

// Import merges an uploaded dataset into the store
func (h *LibraryHandler) Import(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	skip := r.URL.Query().Get("skip_duplicates") != "false"

	report, err := h.transfer.Import(r.Context(), format, r.Body, skip)
	if err != nil {
		if errors.Is(err, service.ErrUnknownFormat) {
			h.writeError(w, "Unknown import format", err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Failed to import %s: %v", format, err)
		h.writeError(w, "Failed to import", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, report, http.StatusOK)
}

// ==================== Material library ====================

// MaterialArticles lists the material library, filtered by category or
// collection-time window
func (h *LibraryHandler) MaterialArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		articles []domain.Article
		err      error
	)
	if window := q.Get("window"); window != "" {
		articles, err = h.material.ArticlesSince(r.Context(), service.TimeWindow(window))
	} else {
		articles, err = h.material.Articles(r.Context(), q.Get("category"))
	}
	if err != nil {
		log.Printf("Failed to list material articles: %v", err)
		h.writeError(w, "Failed to list material articles", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, articles, http.StatusOK)
}

// Collect copies an article into the material library
func (h *LibraryHandler) Collect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ArticleID int64  `json:"article_id"`
		Category  string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.material.Collect(r.Context(), req.ArticleID, req.Category)
	if err != nil {
		h.writeDomainError(w, "Failed to collect article", err)
		return
	}

	h.writeJSON(w, map[string]int64{"id": id}, http.StatusCreated)
}

// MaterialCategories returns the category labels with article counts
func (h *LibraryHandler) MaterialCategories(w http.ResponseWriter, r *http.Request) {
	labels := h.categories.List()

	counts, err := h.material.CategoryCounts(r.Context(), labels)
	if err != nil {
		log.Printf("Failed to count material categories: %v", err)
		h.writeError(w, "Failed to count categories", err.Error(), http.StatusInternalServerError)
		return
	}

	type categoryInfo struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	out := make([]categoryInfo, 0, len(labels))
	for _, name := range labels {
		out = append(out, categoryInfo{Name: name, Count: counts[name]})
	}

	h.writeJSON(w, out, http.StatusOK)
}

// AddMaterialCategory appends a category label
func (h *LibraryHandler) AddMaterialCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.categories.Add(req.Name); err != nil {
		h.writeDomainError(w, "Failed to add category", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// RenameMaterialCategory replaces a category label
func (h *LibraryHandler) RenameMaterialCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Old string `json:"old"`
		New string `json:"new"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.categories.Rename(req.Old, req.New); err != nil {
		h.writeDomainError(w, "Failed to rename category", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveMaterialCategory drops a category label
func (h *LibraryHandler) RemoveMaterialCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		h.writeError(w, "Invalid category", "category name is required", http.StatusBadRequest)
		return
	}

	if err := h.categories.Remove(name); err != nil {
		h.writeDomainError(w, "Failed to remove category", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ==================== Helpers ====================

func (h *LibraryHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, "Invalid ID", "numeric ID is required", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func queryInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// writeDomainError maps the repository error contract onto HTTP status
// codes before falling back to a 500.
func (h *LibraryHandler) writeDomainError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, msg, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrDuplicate):
		h.writeError(w, msg, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrReservedAccount):
		h.writeError(w, msg, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrEmptyField),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrNoFields),
		errors.Is(err, domain.ErrEmptyBatch):
		h.writeError(w, msg, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("%s: %v", msg, err)
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

func (h *LibraryHandler) writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *LibraryHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
