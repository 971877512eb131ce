package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"
)

// ValidationError describes the first problem found in an imported catalog.
type ValidationError struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *ValidationError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

const schemaTemplate = `
#Product: {
	id:            string & !=""
	name:          string & !=""
	category:      %s
	categoryName?: string
	price:         number & >=0
	unit?:         string
	stockStatus:   %q | %q
	image?:        string
	description?:  string
	createdAt?:    string
	...
}

#Catalog: [...#Product]
`

var schemaSource = sync.OnceValue(func() string {
	keys := make([]string, len(categories))
	for i, c := range categories {
		keys[i] = strconv.Quote(c.Key)
	}
	return fmt.Sprintf(schemaTemplate, strings.Join(keys, " | "), InStock, OutOfStock)
})

// Validate checks a JSON product list against the catalog schema. name is
// used in error positions and may be a file path.
func Validate(name string, raw []byte) error {
	cctx := cuecontext.New()

	schema := cctx.CompileString(schemaSource(), cue.Filename("catalog.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}

	expr, err := cuejson.Extract(name, raw)
	if err != nil {
		return formatCUEError(err)
	}
	data := cctx.BuildExpr(expr)
	if err := data.Err(); err != nil {
		return formatCUEError(err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Catalog")).Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError keeps the first CUE error with its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	first := errs[0]
	ve := &ValidationError{
		Path:    strings.Join(first.Path(), "."),
		Message: first.Error(),
	}
	if positions := errors.Positions(first); len(positions) > 0 {
		ve.Pos = positions[0]
	}
	return ve
}
