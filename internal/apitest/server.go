// Package apitest provides an in-memory marketplace API server for tests.
//
// The server implements the REST contract the client package consumes: CRUD,
// status transitions, batch moderation, pagination, and stats. It records
// every request so tests can assert on refetch behavior, and it can run in
// auth-required mode to exercise the 401 paths.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marketctl/marketctl/pkg/marketplace"
)

// Server is an in-memory marketplace backend.
type Server struct {
	mu         sync.RWMutex
	services   map[string]marketplace.Service
	categories map[string]marketplace.Category
	profiles   map[string]marketplace.ProviderProfile
	order      []string // service insertion order

	requireAuth bool
	authToken   string

	requests []string

	failStatus  int
	failMessage string
	failCount   int

	approvedToday int
	rejectedToday int

	httpServer *httptest.Server
}

// New creates a server with empty collections.
func New() *Server {
	s := &Server{
		services:   make(map[string]marketplace.Service),
		categories: make(map[string]marketplace.Category),
		profiles:   make(map[string]marketplace.ProviderProfile),
	}
	s.httpServer = httptest.NewServer(s.handler())
	return s
}

// URL returns the base URL tests point a client at.
func (s *Server) URL() string { return s.httpServer.URL }

// Close shuts down the underlying test server.
func (s *Server) Close() { s.httpServer.Close() }

// RequireAuth makes every endpoint demand the given bearer token.
func (s *Server) RequireAuth(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireAuth = true
	s.authToken = token
}

// FailNext forces the next n requests to fail with the given status and message.
func (s *Server) FailNext(n, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCount = n
	s.failStatus = status
	s.failMessage = message
}

// Requests returns the "METHOD /path" log of every request handled so far.
func (s *Server) Requests() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// ResetRequests clears the request log.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// SeedService inserts a service, generating an ID when absent.
func (s *Server) SeedService(svc marketplace.Service) marketplace.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == "" {
		svc.ID = "svc_" + uuid.NewString()[:8]
	}
	now := time.Now()
	if svc.CreatedAt.IsZero() {
		svc.CreatedAt = now
	}
	svc.UpdatedAt = now
	if svc.Status == "" {
		svc.Status = marketplace.StatusPending
	}
	s.services[svc.ID] = svc
	s.order = append(s.order, svc.ID)
	return svc
}

// SeedCategory inserts a category, generating an ID when absent.
func (s *Server) SeedCategory(cat marketplace.Category) marketplace.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cat.ID == "" {
		cat.ID = "cat_" + uuid.NewString()[:8]
	}
	s.categories[cat.ID] = cat
	return cat
}

// SeedProfile inserts a profile, generating an ID when absent.
func (s *Server) SeedProfile(p marketplace.ProviderProfile) marketplace.ProviderProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = "prf_" + uuid.NewString()[:8]
	}
	s.profiles[p.ID] = p
	return p
}

// Service returns the current state of one service.
func (s *Server) Service(id string) (marketplace.Service, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[id]
	return svc, ok
}

// ServiceCount returns the number of stored services.
func (s *Server) ServiceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.services)
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /admin/stats", s.handleStats)

	mux.HandleFunc("GET /services", s.handleListServices)
	mux.HandleFunc("POST /services", s.handleCreateService)
	mux.HandleFunc("GET /services/{id}", s.handleGetService)
	mux.HandleFunc("PUT /services/{id}", s.handleUpdateService)
	mux.HandleFunc("DELETE /services/{id}", s.handleDeleteService)
	mux.HandleFunc("POST /services/{id}/{action}", s.handleServiceTransition)
	mux.HandleFunc("POST /services/batch/{action}", s.handleServiceBatch)

	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("POST /categories", s.handleCreateCategory)
	mux.HandleFunc("GET /categories/{id}", s.handleGetCategory)
	mux.HandleFunc("PUT /categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /categories/{id}", s.handleDeleteCategory)
	mux.HandleFunc("POST /categories/{id}/{action}", s.handleCategoryToggle)

	mux.HandleFunc("GET /profiles", s.handleListProfiles)
	mux.HandleFunc("GET /profiles/{id}", s.handleGetProfile)
	mux.HandleFunc("PUT /profiles/{id}", s.handleUpdateProfile)
	mux.HandleFunc("POST /profiles/{id}/verify", s.handleProfileVerify)

	return s.intercept(mux)
}

// intercept records requests and applies auth / forced-failure modes before
// the real handlers run.
func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)

		if s.failCount > 0 {
			s.failCount--
			status, msg := s.failStatus, s.failMessage
			s.mu.Unlock()
			writeError(w, status, msg)
			return
		}

		if s.requireAuth {
			want := "Bearer " + s.authToken
			if r.Header.Get("Authorization") != want {
				s.mu.Unlock()
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
		}
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	stats := marketplace.ModerationStats{GeneratedAt: time.Now()}
	for _, svc := range s.services {
		switch svc.Status {
		case marketplace.StatusPending:
			stats.PendingServices++
		case marketplace.StatusFlagged:
			stats.FlaggedServices++
		}
	}
	stats.ApprovedToday = s.approvedToday
	stats.RejectedToday = s.rejectedToday
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	all := make([]marketplace.Service, 0, len(s.services))
	for _, id := range s.order {
		if svc, ok := s.services[id]; ok {
			all = append(all, svc)
		}
	}
	s.mu.RUnlock()

	q := r.URL.Query()
	if status := q.Get("status"); status != "" {
		filtered := all[:0:0]
		for _, svc := range all {
			if string(svc.Status) == status {
				filtered = append(filtered, svc)
			}
		}
		all = filtered
	}
	if search := strings.ToLower(q.Get("search")); search != "" {
		filtered := all[:0:0]
		for _, svc := range all {
			if strings.Contains(strings.ToLower(svc.Title), search) {
				filtered = append(filtered, svc)
			}
		}
		all = filtered
	}
	if category := q.Get("category"); category != "" {
		filtered := all[:0:0]
		for _, svc := range all {
			if svc.CategoryID == category {
				filtered = append(filtered, svc)
			}
		}
		all = filtered
	}

	summary := &marketplace.CollectionSummary{Total: len(all)}
	for _, svc := range all {
		switch svc.Status {
		case marketplace.StatusPending:
			summary.Pending++
		case marketplace.StatusApproved:
			summary.Approved++
		case marketplace.StatusRejected:
			summary.Rejected++
		case marketplace.StatusFlagged:
			summary.Flagged++
		case marketplace.StatusArchived:
			summary.Archived++
		}
	}

	page, pagination := paginate(all, q)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       page,
		"summary":    summary,
		"pagination": pagination,
	})
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var draft struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		CategoryID  string  `json:"categoryId"`
		Price       float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if draft.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	svc := s.SeedService(marketplace.Service{
		Title:       draft.Title,
		Description: draft.Description,
		CategoryID:  draft.CategoryID,
		Price:       draft.Price,
		Status:      marketplace.StatusPending,
		SubmittedBy: marketplace.RefID("usr_test"),
	})
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": svc})
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	svc, ok := s.services[r.PathValue("id")]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "service not found: "+r.PathValue("id"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": svc})
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	var draft struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		CategoryID  string  `json:"categoryId"`
		Price       float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	svc, ok := s.services[r.PathValue("id")]
	if ok {
		svc.Title = draft.Title
		svc.Description = draft.Description
		svc.CategoryID = draft.CategoryID
		svc.Price = draft.Price
		svc.UpdatedAt = time.Now()
		s.services[svc.ID] = svc
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "service not found: "+r.PathValue("id"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": svc})
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	svc, ok := s.services[r.PathValue("id")]
	if ok {
		svc.Status = marketplace.StatusArchived
		svc.UpdatedAt = time.Now()
		s.services[svc.ID] = svc
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "service not found: "+r.PathValue("id"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleServiceTransition(w http.ResponseWriter, r *http.Request) {
	id, action := r.PathValue("id"), r.PathValue("action")

	s.mu.Lock()
	svc, ok := s.services[id]
	if ok {
		switch action {
		case "approve":
			svc.Status = marketplace.StatusApproved
			s.approvedToday++
		case "reject":
			svc.Status = marketplace.StatusRejected
			s.rejectedToday++
		case "restore":
			svc.Status = marketplace.StatusPending
		case "flag":
			svc.Status = marketplace.StatusFlagged
		case "popular":
			var payload struct {
				Popular bool `json:"popular"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			svc.Popular = payload.Popular
		default:
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "unknown action: "+action)
			return
		}
		svc.UpdatedAt = time.Now()
		s.services[id] = svc
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "service not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": svc})
}

func (s *Server) handleServiceBatch(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")
	var payload struct {
		IDs    []string `json:"ids"`
		Reason string   `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := struct {
		Requested int                 `json:"requested"`
		Succeeded []string            `json:"succeeded"`
		Failed    []map[string]string `json:"failed,omitempty"`
	}{Requested: len(payload.IDs), Succeeded: []string{}}

	s.mu.Lock()
	for _, id := range payload.IDs {
		svc, ok := s.services[id]
		if !ok {
			result.Failed = append(result.Failed, map[string]string{
				"id": id, "message": "service not found: " + id,
			})
			continue
		}
		switch action {
		case "approve":
			svc.Status = marketplace.StatusApproved
			s.approvedToday++
		case "reject":
			svc.Status = marketplace.StatusRejected
			s.rejectedToday++
		case "delete":
			svc.Status = marketplace.StatusArchived
		default:
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "unknown batch action: "+action)
			return
		}
		svc.UpdatedAt = time.Now()
		s.services[id] = svc
		result.Succeeded = append(result.Succeeded, id)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	all := make([]marketplace.Category, 0, len(s.categories))
	for _, cat := range s.categories {
		all = append(all, cat)
	}
	s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	page, pagination := paginate(all, r.URL.Query())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       page,
		"pagination": pagination,
	})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var draft struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil || draft.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	cat := s.SeedCategory(marketplace.Category{Name: draft.Name, Slug: draft.Slug, Active: true})
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": cat})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	cat, ok := s.categories[r.PathValue("id")]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "category not found: "+r.PathValue("id"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": cat})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var draft struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	cat, ok := s.categories[r.PathValue("id")]
	if ok {
		cat.Name = draft.Name
		cat.Slug = draft.Slug
		cat.UpdatedAt = time.Now()
		s.categories[cat.ID] = cat
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "category not found: "+r.PathValue("id"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": cat})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	_, ok := s.categories[id]
	inUse := false
	for _, svc := range s.services {
		if svc.CategoryID == id {
			inUse = true
			break
		}
	}
	if ok && !inUse {
		delete(s.categories, id)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "category not found: "+id)
		return
	}
	if inUse {
		writeError(w, http.StatusConflict, "category has services: "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategoryToggle(w http.ResponseWriter, r *http.Request) {
	id, action := r.PathValue("id"), r.PathValue("action")
	var payload map[string]bool
	_ = json.NewDecoder(r.Body).Decode(&payload)

	s.mu.Lock()
	cat, ok := s.categories[id]
	if ok {
		switch action {
		case "active":
			cat.Active = payload["active"]
		case "popular":
			cat.Popular = payload["popular"]
		default:
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "unknown action: "+action)
			return
		}
		s.categories[id] = cat
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "category not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": cat})
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	all := make([]marketplace.ProviderProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		all = append(all, p)
	}
	s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	page, pagination := paginate(all, r.URL.Query())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       page,
		"pagination": pagination,
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	p, ok := s.profiles[r.PathValue("id")]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "profile not found: "+r.PathValue("id"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": p})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var draft struct {
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	p, ok := s.profiles[r.PathValue("id")]
	if ok {
		p.DisplayTag = draft.DisplayName
		p.Bio = draft.Bio
		p.UpdatedAt = time.Now()
		s.profiles[p.ID] = p
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "profile not found: "+r.PathValue("id"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": p})
}

func (s *Server) handleProfileVerify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var payload struct {
		Verified bool `json:"verified"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	s.mu.Lock()
	p, ok := s.profiles[id]
	if ok {
		p.Verified = payload.Verified
		s.profiles[id] = p
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "profile not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": p})
}

// paginate slices items per page/limit params and computes the pagination
// envelope the way the real backend does.
func paginate[T any](items []T, q map[string][]string) ([]T, marketplace.Pagination) {
	page, limit := 1, 20
	if v, ok := q["page"]; ok && len(v) > 0 {
		if n, err := strconv.Atoi(v[0]); err == nil && n > 0 {
			page = n
		}
	}
	if v, ok := q["limit"]; ok && len(v) > 0 {
		if n, err := strconv.Atoi(v[0]); err == nil && n > 0 {
			limit = n
		}
	}

	total := len(items)
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return items[start:end], marketplace.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   fmt.Sprintf("http_%d", status),
		"message": message,
	})
}
