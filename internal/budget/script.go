package budget

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/neogenz/pulpe-sub001/internal/editable"
	"github.com/neogenz/pulpe-sub001/internal/id"
	"github.com/neogenz/pulpe-sub001/internal/model"
)

var (
	ErrUnknownOp  = errors.New("unknown operation")
	ErrNoTarget   = errors.New("missing target")
	ErrRowMissing = errors.New("row not found")
	ErrLastRow    = errors.New("cannot remove the last active row")
	ErrEmptyPatch = errors.New("update changes nothing")
	ErrDuplicate  = errors.New("duplicate ref")
)

// Op is a script operation.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
)

// Step is one edit of a Script. Ref names an added row so later steps can
// target it; Target is a ref, a persisted line id or a "local:<n>" id.
type Step struct {
	Op        Op     `yaml:"op"`
	Ref       string `yaml:"ref,omitempty"`
	Target    string `yaml:"target,omitempty"`
	LinePatch `yaml:",inline"`
}

// Script is an ordered list of edits to a budget's lines.
type Script []Step

// LoadScript reads a script YAML file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	return s, nil
}

// Apply runs the steps against c in order and stops at the first failing
// step. Steps already applied stay applied.
func (s Script) Apply(c *editable.Collection[LineForm, model.Line]) error {
	refs := make(map[string]id.ID)
	for i, st := range s {
		if err := st.apply(c, refs); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}
	return nil
}

func (st Step) apply(c *editable.Collection[LineForm, model.Line], refs map[string]id.ID) error {
	switch st.Op {
	case OpAdd:
		ref := strings.TrimSpace(st.Ref)
		if _, taken := refs[ref]; ref != "" && taken {
			return fmt.Errorf("%w %q", ErrDuplicate, ref)
		}
		eid := c.Add(st.Form())
		if ref != "" {
			refs[ref] = eid
		}
		return nil

	case OpUpdate:
		if st.Empty() {
			return ErrEmptyPatch
		}
		eid, err := resolve(st.Target, refs)
		if err != nil {
			return err
		}
		if !c.Update(eid, st.Patch()) {
			return fmt.Errorf("%w: %s", ErrRowMissing, eid)
		}
		return nil

	case OpRemove:
		eid, err := resolve(st.Target, refs)
		if err != nil {
			return err
		}
		if c.Remove(eid) {
			return nil
		}
		if e, ok := c.Get(eid); ok && !e.IsDeleted {
			return ErrLastRow
		}
		return fmt.Errorf("%w: %s", ErrRowMissing, eid)
	}
	return fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
}

func resolve(target string, refs map[string]id.ID) (id.ID, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return id.ID{}, ErrNoTarget
	}
	if eid, ok := refs[target]; ok {
		return eid, nil
	}
	return id.Parse(target)
}
