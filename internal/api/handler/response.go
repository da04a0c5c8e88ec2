package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

// messageResponse is the envelope of every reply that carries no data.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func success(c echo.Context, code int, msg string) error {
	return c.JSON(code, messageResponse{Success: true, Message: msg})
}

// reply renders the envelope plus the given top-level fields.
func reply(c echo.Context, code int, fields echo.Map) error {
	out := echo.Map{"success": true}
	for k, v := range fields {
		out[k] = v
	}
	return c.JSON(code, out)
}

// listFields names the keys a listing endpoint uses for its page and counts.
type listFields struct {
	items    string
	total    string
	filtered string
}

func replyList[T any](c echo.Context, res query.Result[T], f listFields) error {
	return reply(c, http.StatusOK, echo.Map{
		f.items:         res.Items,
		f.total:         res.Total,
		f.filtered:      res.Filtered,
		"resultPerPage": res.PageSize,
		"page":          res.Page,
	})
}

// params exposes the query string to the query builder.
func params(c echo.Context) query.Params {
	return c.QueryParams()
}

// splitList accepts either a JSON array or a comma separated list.
func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var out []string
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return out
		}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
