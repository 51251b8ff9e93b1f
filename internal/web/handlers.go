package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"purity/internal/apperr"
	"purity/internal/favorites"
	"purity/internal/help"
	"purity/internal/model"
	"purity/internal/procedure"
	"purity/internal/reports"
)

type errorResponse struct {
	Error  string      `json:"error"`
	Kind   apperr.Kind `json:"kind,omitempty"`
	Fields []string    `json:"fields,omitempty"`
}

type procedureResponse struct {
	Food       model.FoodItem      `json:"food"`
	Adulterant model.Adulterant    `json:"adulterant"`
	Test       model.TestProcedure `json:"test"`
	Generated  bool                `json:"generated"`
	Favorite   bool                `json:"favorite"`
	Markdown   string              `json:"markdown"`
	ShareText  string              `json:"shareText"`
	FileName   string              `json:"fileName"`
}

type toggleRequest struct {
	FoodName       string               `json:"foodName"`
	AdulterantName string               `json:"adulterantName"`
	Test           *model.TestProcedure `json:"test"`
}

type toggleResponse struct {
	ID       string `json:"id"`
	Change   string `json:"change"`
	Favorite bool   `json:"favorite"`
}

type reportsResponse struct {
	Mode    reports.Mode   `json:"mode"`
	Label   string         `json:"label"`
	Reports []model.Report `json:"reports"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Catalog.Foods())
}

func (s *Server) handleFood(w http.ResponseWriter, r *http.Request) {
	food, ok := s.app.Catalog.Food(chi.URLParam(r, "foodID"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown food"})
		return
	}
	writeJSON(w, http.StatusOK, food)
}

func (s *Server) handleProcedure(w http.ResponseWriter, r *http.Request) {
	foodName := strings.TrimSpace(r.URL.Query().Get("food"))
	adulterantName := strings.TrimSpace(r.URL.Query().Get("adulterant"))
	var missing []string
	if foodName == "" {
		missing = append(missing, "food")
	}
	if adulterantName == "" {
		missing = append(missing, "adulterant")
	}
	if len(missing) > 0 {
		s.writeError(w, apperr.Validation(missing...))
		return
	}

	food, adulterant, res := s.app.Procedure(r.Context(), foodName, adulterantName)
	if res.Status != procedure.Resolved || res.Test == nil {
		err := res.Err
		if err == nil {
			err = apperr.GenerationFailed(nil)
		}
		s.writeError(w, err)
		return
	}

	test := *res.Test
	writeJSON(w, http.StatusOK, procedureResponse{
		Food:       food,
		Adulterant: adulterant,
		Test:       test,
		Generated:  adulterant.Test == nil,
		Favorite:   s.app.Favorites.IsFavorite(&food, &adulterant),
		Markdown:   procedure.Markdown(food.Name, adulterant.Name, test),
		ShareText:  procedure.ShareText(food.Name, adulterant.Name, test),
		FileName:   procedure.FileName(food.Name),
	})
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Favorites.List())
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	var missing []string
	if strings.TrimSpace(req.FoodName) == "" {
		missing = append(missing, "foodName")
	}
	if strings.TrimSpace(req.AdulterantName) == "" {
		missing = append(missing, "adulterantName")
	}
	if req.Test == nil {
		missing = append(missing, "test")
	}
	if len(missing) > 0 {
		s.writeError(w, apperr.Validation(missing...))
		return
	}

	food := model.FoodItem{Name: strings.TrimSpace(req.FoodName)}
	adulterant := model.Adulterant{Name: strings.TrimSpace(req.AdulterantName)}
	change := s.app.Favorites.Toggle(r.Context(), &food, &adulterant, req.Test)
	writeJSON(w, http.StatusOK, toggleResponse{
		ID:       model.FavoriteKey(food.Name, adulterant.Name),
		Change:   change.String(),
		Favorite: change == favorites.Added,
	})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if !s.app.Favorites.Remove(r.Context(), chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown favorite"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.Reports.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if list == nil {
		list = []model.Report{}
	}
	mode := s.app.Reports.Mode()
	writeJSON(w, http.StatusOK, reportsResponse{Mode: mode, Label: mode.Label(), Reports: list})
}

func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	var d reports.Draft
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReportBody)).Decode(&d); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "report is too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	saved, err := s.app.SubmitReport(r.Context(), d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(help.Markdown()))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": model.Version})
}

// statusFor maps an error kind onto an HTTP status.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidationFailed:
		return http.StatusBadRequest
	case apperr.KindStoreUnprovisioned:
		return http.StatusServiceUnavailable
	case apperr.KindStoreUnreachable, apperr.KindGenerationFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}
	resp := errorResponse{Error: apperr.UserMessage(err), Kind: apperr.KindOf(err)}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		resp.Fields = ae.Fields
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

