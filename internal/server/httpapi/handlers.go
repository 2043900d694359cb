package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/grocerylist/internal/model"
	"github.com/and161185/grocerylist/internal/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type listRequest struct {
	Name string `json:"name"`
}

// --- Auth ---

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logFor(r).Info("user registered", zap.Int64("user_id", u.ID))
	writeJSON(w, http.StatusCreated, messageBody{Message: service.MsgRegistered})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tokens, u, err := s.auth.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logFor(r).Info("user logged in", zap.Int64("user_id", u.ID))
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.Me(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// --- Lists ---

func (s *Server) getLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.lists.Lists(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.lists.Create(r.Context(), userID(r), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) renameList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req listRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.lists.Rename(r.Context(), userID(r), id, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.lists.Delete(r.Context(), userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Items ---

func (s *Server) getItems(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "listId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.items.Items(r.Context(), userID(r), listID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req model.NewItem
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	it, err := s.items.Create(r.Context(), userID(r), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req model.ItemUpdate
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	it, err := s.items.Update(r.Context(), userID(r), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.items.Delete(r.Context(), userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createItems(w http.ResponseWriter, r *http.Request) {
	var req model.BatchNewItems
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.items.CreateBatch(r.Context(), userID(r), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, items)
}

func (s *Server) deleteItems(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	if err := decode(w, r, &ids); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.items.DeleteBatch(r.Context(), userID(r), ids); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: service.MsgItemsDeleted})
}
