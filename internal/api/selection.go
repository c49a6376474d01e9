package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/david/bid-finder/internal/models"
)

type selectionResponse struct {
	Selected bool        `json:"selected"`
	Bid      *models.Bid `json:"bid"`
}

func (s *Server) handleGetSelection(c echo.Context) error {
	bid, ok := s.Selection.Selected()
	if !ok {
		return c.JSON(http.StatusOK, selectionResponse{})
	}
	return c.JSON(http.StatusOK, selectionResponse{Selected: true, Bid: &bid})
}

func (s *Server) handlePutSelection(c echo.Context) error {
	var bid models.Bid
	if err := c.Bind(&bid); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if bid.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Bid title is required"})
	}
	if bid.Trades == nil {
		bid.Trades = []string{}
	}
	s.Selection.Select(bid)
	return c.JSON(http.StatusOK, selectionResponse{Selected: true, Bid: &bid})
}

func (s *Server) handleClearSelection(c echo.Context) error {
	s.Selection.Clear()
	return c.NoContent(http.StatusNoContent)
}

type mapQuery struct {
	Query string `json:"query"`
}

func (s *Server) handleGetMapQuery(c echo.Context) error {
	return c.JSON(http.StatusOK, mapQuery{Query: s.Selection.MapQuery()})
}

func (s *Server) handlePutMapQuery(c echo.Context) error {
	var req mapQuery
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	s.Selection.SetMapQuery(req.Query)
	return c.JSON(http.StatusOK, req)
}

func (s *Server) handleListRuns(c echo.Context) error {
	if s.Runs == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Search history is not enabled"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	runs, err := s.Runs.RecentSearches(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, runs)
}
