// Package compiler turns CUE rule files into a validated RuleSet and a role
// acting order.
package compiler

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/werewolf/internal/rules"
	"github.com/roach88/werewolf/internal/tag"
)

// Config is a compiled game configuration.
type Config struct {
	// RuleSet is the validated ruleset.
	RuleSet *rules.RuleSet

	// RuleNames holds the CUE label of each rule, parallel to
	// RuleSet.Rules().
	RuleNames []string

	// RoleOrder maps role names to their acting priority (0 acts first).
	// Empty when the file declares no role_order.
	RoleOrder map[string]int
}

// NameOf returns the CUE label r was declared under, or "" if r is not part
// of this configuration.
func (c *Config) NameOf(r *rules.Rule) string {
	if i := slices.Index(c.RuleSet.Rules(), r); i >= 0 {
		return c.RuleNames[i]
	}
	return ""
}

// CompileString compiles CUE source. filename is used in error positions.
func CompileString(src, filename string, opts ...rules.Option) (*Config, error) {
	ctx := cuecontext.New()
	return Compile(ctx.CompileString(src, cue.Filename(filename)), opts...)
}

// CompileFile compiles a single CUE file.
func CompileFile(path string, opts ...rules.Option) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	ctx := cuecontext.New()
	return Compile(ctx.CompileBytes(data, cue.Filename(path)), opts...)
}

// LoadDir loads the CUE package in dir and compiles it.
func LoadDir(dir string, opts ...rules.Option) (*Config, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("rules directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError("load", inst.Err)
	}

	ctx := cuecontext.New()
	return Compile(ctx.BuildInstance(inst), opts...)
}

// Load compiles path as a directory package or a single file, whichever it
// is.
func Load(path string, opts ...rules.Option) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("rules path: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path, opts...)
	}
	return CompileFile(path, opts...)
}

// Compile turns a CUE value of the form
//
//	rules: {
//		werewolf_kill: {from: ["killed_by_werewolves"], to: ["Killed"], explicit: true}
//	}
//	role_order: ["guardian", "werewolf", "witch"]
//
// into a Config. Rules keep their declaration order; explicit defaults to
// false. Rule invariants are checked by rules.New and reported as a
// *CompileError wrapping the *rules.RuleError.
func Compile(v cue.Value, opts ...rules.Option) (*Config, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, &CompileError{
			Field:   "rules",
			Message: "rules is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := rulesVal.Fields()
	if err != nil {
		return nil, formatCUEError("rules", err)
	}

	cfg := &Config{RoleOrder: map[string]int{}}
	var parsed []*rules.Rule
	var positions []token.Pos
	for iter.Next() {
		name := iter.Label()
		r, err := parseRule("rules."+name, iter.Value())
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, r)
		positions = append(positions, iter.Value().Pos())
		cfg.RuleNames = append(cfg.RuleNames, name)
	}

	rs, err := rules.New(parsed, opts...)
	if err != nil {
		return nil, ruleSetError(err, rulesVal.Pos(), parsed, positions, cfg.RuleNames)
	}
	cfg.RuleSet = rs

	orderVal := v.LookupPath(cue.ParsePath("role_order"))
	if orderVal.Exists() {
		if cfg.RoleOrder, err = parseRoleOrder(orderVal); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func parseRule(field string, v cue.Value) (*rules.Rule, error) {
	fromVal := v.LookupPath(cue.ParsePath("from"))
	if !fromVal.Exists() {
		return nil, &CompileError{Field: field + ".from", Message: "from is required", Pos: v.Pos()}
	}
	from, err := parseTags(field+".from", fromVal)
	if err != nil {
		return nil, err
	}

	toVal := v.LookupPath(cue.ParsePath("to"))
	if !toVal.Exists() {
		return nil, &CompileError{Field: field + ".to", Message: "to is required", Pos: v.Pos()}
	}
	to, err := parseTags(field+".to", toVal)
	if err != nil {
		return nil, err
	}

	explicit := false
	if explicitVal := v.LookupPath(cue.ParsePath("explicit")); explicitVal.Exists() {
		if explicit, err = explicitVal.Bool(); err != nil {
			return nil, formatCUEError(field+".explicit", err)
		}
	}

	r, err := rules.NewRule(from, to, explicit)
	if err != nil {
		return nil, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos(), Err: err}
	}
	return r, nil
}

func parseTags(field string, v cue.Value) (*tag.TagSet, error) {
	if v.Kind() != cue.ListKind {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("must be a list of tag identifiers, got %s", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(field, err)
	}

	var ids []string
	for iter.Next() {
		elem := iter.Value()
		id, err := elem.String()
		if err != nil {
			return nil, &CompileError{Field: field, Message: "tag identifiers must be strings", Pos: elem.Pos(), Err: err}
		}
		if id == "" {
			return nil, &CompileError{Field: field, Message: "tag identifier must not be empty", Pos: elem.Pos()}
		}
		ids = append(ids, id)
	}
	return tag.FromIDs(ids...), nil
}

func parseRoleOrder(v cue.Value) (map[string]int, error) {
	if v.Kind() != cue.ListKind {
		return nil, &CompileError{Field: "role_order", Message: "must be a list of role names", Pos: v.Pos()}
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError("role_order", err)
	}

	order := map[string]int{}
	for i := 0; iter.Next(); i++ {
		elem := iter.Value()
		name, err := elem.String()
		if err != nil {
			return nil, &CompileError{Field: "role_order", Message: "role names must be strings", Pos: elem.Pos(), Err: err}
		}
		if _, dup := order[name]; dup {
			return nil, &CompileError{
				Field:   "role_order",
				Message: fmt.Sprintf("role %q listed more than once", name),
				Pos:     elem.Pos(),
			}
		}
		order[name] = i
	}
	return order, nil
}

// ruleSetError points a rules.New failure at the last offending rule (the
// later duplicate, for collisions) when it can be identified.
func ruleSetError(err error, fallback token.Pos, parsed []*rules.Rule, positions []token.Pos, names []string) error {
	ce := &CompileError{Field: "rules", Message: err.Error(), Pos: fallback, Err: err}

	var re *rules.RuleError
	if !errors.As(err, &re) || len(re.Rules) == 0 {
		return ce
	}
	want := re.Rules[len(re.Rules)-1]
	for i := len(parsed) - 1; i >= 0; i-- {
		if parsed[i].String() == want {
			ce.Field = "rules." + names[i]
			ce.Pos = positions[i]
			break
		}
	}
	return ce
}
