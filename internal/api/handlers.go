package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/boardcut/internal/engine"
	"github.com/piwi3910/boardcut/internal/model"
)

// PieceRequest is one piece in a request body.
type PieceRequest struct {
	Height int    `json:"height"`
	Width  int    `json:"width"`
	Label  string `json:"label,omitempty"`
}

// SolveRequest is the body of /api/solve and /api/compare.
type SolveRequest struct {
	Strategy string         `json:"strategy"`
	Pieces   []PieceRequest `json:"pieces"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSolve(c *gin.Context) {
	rerr := reqError{reqID: c.GetString(requestIDKey)}

	req, settings, pieces, ok := s.bind(c, rerr)
	if !ok {
		return
	}

	sol, err := engine.New(settings).Optimize(pieces)
	if err != nil {
		s.fail(c, rerr.wrap(err, "solve"), statusFor(err))
		return
	}

	s.log.WithFields(logrus.Fields{
		"request_id": rerr.reqID,
		"strategy":   sol.Strategy,
		"requested":  req.Strategy,
		"pieces":     len(pieces),
		"boards":     sol.BoardCount(),
		"cost":       sol.TotalCost.String(),
		"elapsed":    sol.Stats.Elapsed,
	}).Debug("solved")

	c.JSON(http.StatusOK, sol)
}

func (s *Server) handleCompare(c *gin.Context) {
	rerr := reqError{reqID: c.GetString(requestIDKey)}

	_, settings, pieces, ok := s.bind(c, rerr)
	if !ok {
		return
	}

	results, err := engine.CompareStrategies(settings, pieces)
	if err != nil {
		s.fail(c, rerr.wrap(err, "compare"), statusFor(err))
		return
	}
	c.JSON(http.StatusOK, results)
}

// bind decodes the body and resolves the request's settings and pieces.
// On failure it has already written the response.
func (s *Server) bind(c *gin.Context, rerr reqError) (SolveRequest, model.Settings, []model.Piece, bool) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, rerr.wrap(err, "malformed request body"), http.StatusBadRequest)
		return req, model.Settings{}, nil, false
	}

	settings := s.settings
	if req.Strategy != "" {
		strategy, ok := model.ParseStrategy(req.Strategy)
		if !ok {
			s.fail(c, rerr.wrap(engine.ErrUnknownStrategy, req.Strategy), http.StatusBadRequest)
			return req, settings, nil, false
		}
		settings.Strategy = strategy
	}

	if settings.MaxPieces > 0 && len(req.Pieces) > settings.MaxPieces {
		s.fail(c, rerr.text(fmt.Sprintf("too many pieces: %d exceeds the limit of %d", len(req.Pieces), settings.MaxPieces)), http.StatusUnprocessableEntity)
		return req, settings, nil, false
	}

	pieces := make([]model.Piece, len(req.Pieces))
	for i, p := range req.Pieces {
		pieces[i] = model.NewPiece(i, p.Height, p.Width)
		pieces[i].Label = p.Label
	}
	if err := settings.CheckPieces(pieces); err != nil {
		s.fail(c, rerr.wrap(err, "invalid piece"), http.StatusBadRequest)
		return req, settings, nil, false
	}
	return req, settings, pieces, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrTooManyPieces):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrUnknownStrategy),
		errors.Is(err, model.ErrInvalidPiece),
		errors.Is(err, model.ErrPieceTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail logs the full error chain and sends the client the request ID with
// a message that leaves out the ID prefix.
func (s *Server) fail(c *gin.Context, err error, status int) {
	var re reqError
	msg := err.Error()
	if errors.As(err, &re) {
		msg = re.err.Error()
	}

	entry := s.log.WithField("request_id", re.reqID)
	if status >= 500 {
		entry.Errorf("%+v", pkgerrors.Cause(err))
	} else {
		entry.Debugf("%v", err)
	}

	c.AbortWithStatusJSON(status, errorResponse{Error: msg, RequestID: re.reqID})
}
