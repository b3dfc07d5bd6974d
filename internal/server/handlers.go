package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/plotgrid/pkg/editor"
	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/layout"
)

// State is the editor state the widget renders from.
type State struct {
	Items      []layout.Item      `json:"items"`
	View       string             `json:"view"`
	Selected   string             `json:"selected"`
	Container  geom.Size          `json:"container"`
	Placements []editor.Placement `json:"placements"`
	Status     string             `json:"status"`
}

// state snapshots the editor. The caller holds s.mu.
func (s *Server) state() State {
	var selected string
	if it, ok := s.ed.Selected(); ok {
		selected = it.ID
	}
	return State{
		Items:      s.ed.Items(),
		View:       s.ed.View(),
		Selected:   selected,
		Container:  s.ed.Container(),
		Placements: s.ed.Layout(),
		Status:     s.ed.Status(),
	}
}

// resolve finds the item named by the {id} path parameter. The caller
// holds s.mu.
func (s *Server) resolve(r *http.Request) (string, error) {
	return s.ed.Resolve(chi.URLParam(r, "id"))
}

// requireContainer fails pixel events sent before a measurement. The
// caller holds s.mu.
func (s *Server) requireContainer() error {
	if s.ed.Container().Empty() {
		return errors.New(errors.ErrCodeNotMeasured, "container has not been measured; PUT /api/v1/container first")
	}
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleContainer(w http.ResponseWriter, r *http.Request) {
	var req geom.Size
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.W < 0 || req.H < 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "container size must not be negative"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ed.Measure(req.W, req.H)
	s.writeJSON(w, http.StatusOK, s.state())
}

type viewRequest struct {
	View string `json:"view"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ed.SetView(r.Context(), req.View)
	s.writeJSON(w, http.StatusOK, s.state())
}

type selectionRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == "" {
		s.ed.Deselect()
	} else {
		id, err := s.ed.Resolve(req.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.ed.Select(id)
	}
	s.writeJSON(w, http.StatusOK, s.state())
}

type keyRequest struct {
	Key string `json:"key"`
}

type keyResponse struct {
	Handled bool  `json:"handled"`
	State   State `json:"state"`
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	handled := s.ed.HandleKey(r.Context(), req.Key)
	s.writeJSON(w, http.StatusOK, keyResponse{Handled: handled, State: s.state()})
}

type copyResponse struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
}

// handleCopy copies the generated code to the clipboard of the machine the
// server runs on. A clipboard failure is reported in the body, as the
// editor reports it in its status line.
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.ed.Copy()
	s.writeJSON(w, http.StatusOK, copyResponse{OK: err == nil, Status: s.ed.Status()})
}

func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))

	s.mu.Lock()
	defer s.mu.Unlock()

	switch format {
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s.ed.Output()))
	case "json":
		data, err := s.ed.OutputJSON()
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render json"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case "png":
		if err := s.requireContainer(); err != nil {
			s.writeError(w, r, err)
			return
		}
		var buf bytes.Buffer
		if err := s.ed.Preview(&buf); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want text, json or png)", format))
	}
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, s.ed.Items())
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.ed.AddItem(r.Context())
	s.writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.resolve(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	it, _ := s.ed.Get(id)
	s.writeJSON(w, http.StatusOK, it)
}

// patchRequest is a partial item update. Absent fields are unchanged.
type patchRequest struct {
	X             *float64 `json:"x"`
	Y             *float64 `json:"y"`
	Width         *float64 `json:"width"`
	Height        *float64 `json:"height"`
	Color         *string  `json:"color"`
	Type          *string  `json:"type"`
	ChannelNumber *string  `json:"channelNumber"`
}

func (p patchRequest) patch() (layout.Patch, error) {
	out := layout.Patch{
		X:             p.X,
		Y:             p.Y,
		Width:         p.Width,
		Height:        p.Height,
		Color:         p.Color,
		ChannelNumber: p.ChannelNumber,
	}
	if p.Type != nil {
		t, err := layout.ParseChartType(*p.Type)
		if err != nil {
			return layout.Patch{}, err
		}
		out.Type = &t
	}
	if out.Empty() {
		return layout.Patch{}, errors.New(errors.ErrCodeInvalidInput, "patch changes no field")
	}
	return out, nil
}

func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := req.patch()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.resolve(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ed.Update(r.Context(), id, p)
	it, _ := s.ed.Get(id)
	s.writeJSON(w, http.StatusOK, it)
}

type fieldRequest struct {
	Value string `json:"value"`
}

// handleEditField applies a form edit: numeric fields take the leading
// number of the text.
func (s *Server) handleEditField(w http.ResponseWriter, r *http.Request) {
	field, err := editor.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req fieldRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	value := req.Value
	if field == editor.FieldType {
		t, err := layout.ParseChartType(value)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		value = string(t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.resolve(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ed.EditField(r.Context(), id, field, value)
	it, _ := s.ed.Get(id)
	s.writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.resolve(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ed.Delete(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

type resizeRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req geom.Point
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.resolve(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.requireContainer(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ed.DragStop(r.Context(), id, req)
	s.writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.resolve(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.requireContainer(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ed.ResizeStop(r.Context(), id, geom.Point{X: req.X, Y: req.Y}, geom.Size{W: req.Width, H: req.Height})
	s.writeJSON(w, http.StatusOK, s.state())
}
