// Package pagination parses page/pageSize query parameters and builds the
// paginated list envelope.
package pagination

import (
	"math"
	"net/url"
	"strconv"

	dErrors "bloodconnect/pkg/domain-errors"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// maxPage keeps (page-1)*MaxPageSize within int.
const maxPage = math.MaxInt / MaxPageSize

// Params is a validated page request.
type Params struct {
	Page     int
	PageSize int
}

// Offset is the number of rows to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Parse reads page and pageSize from the query string. Missing values take the
// defaults; pageSize above MaxPageSize is capped. Non-numeric or non-positive
// values are rejected, as is a page whose offset would overflow int.
func Parse(q url.Values) (Params, error) {
	p := Params{Page: DefaultPage, PageSize: DefaultPageSize}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Params{}, dErrors.New(dErrors.CodeValidation, "page must be a positive integer")
		}
		if n > maxPage {
			return Params{}, dErrors.New(dErrors.CodeValidation, "page is too large")
		}
		p.Page = n
	}
	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Params{}, dErrors.New(dErrors.CodeValidation, "pageSize must be a positive integer")
		}
		p.PageSize = min(n, MaxPageSize)
	}
	return p, nil
}

// Response is the JSON envelope for paginated lists.
type Response[T any] struct {
	Data            []T  `json:"data"`
	Page            int  `json:"page"`
	PageSize        int  `json:"pageSize"`
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewResponse builds the envelope; totalPages rounds up.
func NewResponse[T any](data []T, p Params, total int) Response[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (total + p.PageSize - 1) / p.PageSize
	}
	return Response[T]{
		Data:            data,
		Page:            p.Page,
		PageSize:        p.PageSize,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasNextPage:     p.Page < totalPages,
		HasPreviousPage: p.Page > 1,
	}
}

// Map converts each element of a page, keeping the envelope.
func Map[T, U any](in Response[T], fn func(T) U) Response[U] {
	out := make([]U, len(in.Data))
	for i, v := range in.Data {
		out[i] = fn(v)
	}
	return Response[U]{
		Data:            out,
		Page:            in.Page,
		PageSize:        in.PageSize,
		TotalCount:      in.TotalCount,
		TotalPages:      in.TotalPages,
		HasNextPage:     in.HasNextPage,
		HasPreviousPage: in.HasPreviousPage,
	}
}
