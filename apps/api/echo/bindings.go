package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alumniconnect/alumniconnect/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// Pagination binds the `page` and `pageSize` query params; zero values
// mean "no pagination" and callers return the full list.
type Pagination struct {
	Page     int
	PageSize int
}

func (p *Pagination) Bind(ctx echo.Context) {
	p.Page = positiveIntParam(ctx, "page")
	p.PageSize = positiveIntParam(ctx, "pageSize")
}

func (p *Pagination) Enabled() bool { return p.Page > 0 && p.PageSize > 0 }

// positiveIntParam parses a non-negative int query param; malformed or
// negative values are treated as absent.
func positiveIntParam(ctx echo.Context, name string) int {
	val, err := strconv.Atoi(ctx.QueryParam(name))
	if err != nil || val < 0 {
		return 0
	}
	return val
}
