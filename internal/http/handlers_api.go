package http

import (
	"net/http"

	"engagement/internal/core"
)

type (
	selectionResponse struct {
		Platforms  []string `json:"platforms"`
		PostTypes  []string `json:"post_types"`
		Sentiments []string `json:"sentiments"`
	}

	summaryResponse struct {
		Selection selectionResponse `json:"selection"`
		Summary   core.Summary      `json:"summary"`
	}

	postsResponse struct {
		Selection selectionResponse `json:"selection"`
		Total     int               `json:"total"`
		Offset    int               `json:"offset"`
		Limit     int               `json:"limit"`
		Posts     []core.Post       `json:"posts"`
	}
)

func newSelectionResponse(sel core.Selection) selectionResponse {
	return selectionResponse{
		Platforms:  sel.Platforms.Sorted(),
		PostTypes:  sel.PostTypes.Sorted(),
		Sentiments: sel.Sentiments.Sorted(),
	}
}

// apiSnapshot resolves the dataset and selection shared by the JSON endpoints.
func (s *Server) apiSnapshot(w http.ResponseWriter, r *http.Request) (*snapshot, core.Selection, bool) {
	snap, ok := s.current()
	if !ok {
		writeJSONError(w, r, http.StatusServiceUnavailable, "dataset not loaded")
		return nil, core.Selection{}, false
	}
	sel, err := ParseSelection(r.URL.Query(), snap.options)
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, err.Error())
		return nil, core.Selection{}, false
	}
	return snap, sel, true
}

// handleOptions lists the distinct filter values in first-seen order.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current()
	if !ok {
		writeJSONError(w, r, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}
	writeJSON(w, r, http.StatusOK, snap.options)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := s.apiSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, summaryResponse{
		Selection: newSelectionResponse(sel),
		Summary:   s.summary(r.Context(), snap, sel),
	})
}

// handlePosts lists the filtered rows in dataset order, one page at a time.
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := s.apiSnapshot(w, r)
	if !ok {
		return
	}
	page, err := ParsePage(r.URL.Query())
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	posts := snap.data.Filter(sel).Posts()
	writeJSON(w, r, http.StatusOK, postsResponse{
		Selection: newSelectionResponse(sel),
		Total:     len(posts),
		Offset:    page.Offset,
		Limit:     page.Limit,
		Posts:     page.Apply(posts),
	})
}
