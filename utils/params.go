package utils

import (
	"net/http"
	"strconv"
)

type QueryOptions struct {
	Page      int
	Limit     int
	Category  string
	Brand     string
	Condition string
	Search    string
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return QueryOptions{
		Page:      page,
		Limit:     limit,
		Category:  q.Get("category"),
		Brand:     q.Get("brand"),
		Condition: q.Get("condition"),
		Search:    q.Get("q"),
	}
}
