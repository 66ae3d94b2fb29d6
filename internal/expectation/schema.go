package expectation

import "github.com/hashicorp/hcl/v2"

// targetBlock is a `target` block of an expectations file.
type targetBlock struct {
	Name     string         `hcl:"name,label" validate:"required"`
	Flag     string         `hcl:"flag" validate:"required,excludesall= ="`
	Expected hcl.Expression `hcl:"expected,optional" validate:"-"`
	Requires []string       `hcl:"requires,optional" validate:"dive,required"`
}

// fileRoot decodes all top-level blocks of an expectations file. Any other
// block or attribute is a decode error.
type fileRoot struct {
	Targets []*targetBlock `hcl:"target,block" validate:"dive"`
}
