// Package filter narrows search results with expr-lang expressions such as
//
//	year >= 2000 && hasPoster && contains(overview, "gotham")
//
// Each movie is exposed through the variables id, title, overview, year,
// released and hasPoster, plus a few case-insensitive string helpers.
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/reelsearch/render"
	"github.com/s0up4200/reelsearch/tmdb"
)

// Filter is a compiled filter expression
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles a filter expression. Expressions must evaluate to a boolean.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnv(tmdb.MovieSummary{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     err.Error(),
			Err:        err,
		}
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Expression returns the original filter expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against a movie
func (f *Filter) Match(movie tmdb.MovieSummary) (bool, error) {
	out, err := expr.Run(f.program, newEnv(movie))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MovieTitle: movie.Title,
			Err:        err,
		}
	}
	matched, _ := out.(bool)
	return matched, nil
}

// Apply returns the movies matching the filter, keeping their order
func (f *Filter) Apply(movies []tmdb.MovieSummary) ([]tmdb.MovieSummary, error) {
	matched := make([]tmdb.MovieSummary, 0, len(movies))
	for _, movie := range movies {
		ok, err := f.Match(movie)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, movie)
		}
	}
	return matched, nil
}

// newEnv exposes a movie and the helper functions to an expression
func newEnv(movie tmdb.MovieSummary) map[string]any {
	year, released := render.ParseYear(movie.ReleaseDate)

	return map[string]any{
		// Movie data
		"id":        movie.ID,
		"title":     movie.Title,
		"overview":  movie.Overview,
		"year":      year,
		"released":  released,
		"hasPoster": movie.HasPoster(),

		// String helpers
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}
