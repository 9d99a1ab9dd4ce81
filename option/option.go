// Package option validates and resolves the generic name/value options attached to
// a server, a user mapping and a table into kvtable.TableOptions.
package option

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zhiqiangxu/kvtable"
)

// Context is the kind of object an option is attached to
type Context uint8

const (
	// ContextServer for options of the foreign server
	ContextServer Context = iota
	// ContextUserMapping for options of the user mapping
	ContextUserMapping
	// ContextTable for options of the foreign table
	ContextTable
)

func (c Context) String() string {
	switch c {
	case ContextServer:
		return "server"
	case ContextUserMapping:
		return "user mapping"
	case ContextTable:
		return "table"
	}
	return fmt.Sprintf("Context(%d)", c)
}

// Name of a recognized option
type Name string

const (
	// Address of the store
	Address Name = "address"
	// Port of the store
	Port Name = "port"
	// Password sent with AUTH
	Password Name = "password"
	// Database index sent with SELECT
	Database Name = "database"
	// TableKeyPrefix restricts keys to a prefix
	TableKeyPrefix Name = "tablekeyprefix"
	// TableKeySet restricts keys to the members of a set
	TableKeySet Name = "tablekeyset"
	// TableType is the shape of the values
	TableType Name = "tabletype"
)

// schema lists the recognized options of each context, in hint order
var schema = map[Context][]Name{
	ContextServer:      {Address, Port},
	ContextUserMapping: {Password},
	ContextTable:       {Database, TableKeyPrefix, TableKeySet, TableType},
}

const (
	// DefaultAddress when address is not given
	DefaultAddress = "127.0.0.1"
	// DefaultPort when port is not given
	DefaultPort = 6379
)

// Def is one name/value option
type Def struct {
	Name  string
	Value string
}

// Valid reports whether name is a recognized option in ctx
func Valid(name string, ctx Context) bool {
	for _, n := range schema[ctx] {
		if string(n) == name {
			return true
		}
	}
	return false
}

// ValidNames returns the recognized options in ctx
func ValidNames(ctx Context) (names []string) {
	for _, n := range schema[ctx] {
		names = append(names, string(n))
	}
	return
}

// ProblemCode classifies a validation problem
type ProblemCode uint8

const (
	// InvalidName when the option is not recognized in the context
	InvalidName ProblemCode = iota
	// Redundant when the option is given twice
	Redundant
	// Conflicting when tablekeyprefix and tablekeyset are both given
	Conflicting
	// InvalidValue when the value cannot be parsed
	InvalidValue
)

// Problem is one rejected option
type Problem struct {
	Code   ProblemCode
	Option string
	Value  string
	Hint   string
}

func (p Problem) String() string {
	switch p.Code {
	case InvalidName:
		return fmt.Sprintf("invalid option %q (valid options in this context are: %s)", p.Option, p.Hint)
	case Redundant:
		return fmt.Sprintf("conflicting or redundant options: %s (%s)", p.Option, p.Value)
	case Conflicting:
		return fmt.Sprintf("conflicting options: %s and %s (%s)", p.Hint, p.Option, p.Value)
	default:
		return fmt.Sprintf("invalid value for %s (%s): %s", p.Option, p.Value, p.Hint)
	}
}

// ValidationError carries every problem found by Validate
type ValidationError struct {
	Context  Context
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("%s options: %s", e.Context, strings.Join(msgs, "; "))
}

// Validate checks defs against the options recognized in ctx.
// It returns nil or a *ValidationError listing every problem.
func Validate(ctx Context, defs []Def) error {
	_, err := parse(ctx, defs)
	return err
}

type parsed struct {
	values map[Name]string
	port   int
	db     int
	shape  kvtable.TableShape
}

func parse(ctx Context, defs []Def) (p parsed, err error) {
	p.values = make(map[Name]string)
	var problems []Problem

	for _, def := range defs {
		if !Valid(def.Name, ctx) {
			problems = append(problems, Problem{
				Code:   InvalidName,
				Option: def.Name,
				Hint:   hint(ctx),
			})
			continue
		}

		name := Name(def.Name)
		if _, ok := p.values[name]; ok {
			problems = append(problems, Problem{Code: Redundant, Option: def.Name, Value: def.Value})
			continue
		}

		switch name {
		case TableKeyPrefix, TableKeySet:
			other := TableKeySet
			if name == TableKeySet {
				other = TableKeyPrefix
			}
			if v, ok := p.values[other]; ok {
				problems = append(problems, Problem{
					Code:   Conflicting,
					Option: def.Name,
					Value:  def.Value,
					Hint:   fmt.Sprintf("%s (%s)", other, v),
				})
				continue
			}
		case Port:
			port, perr := strconv.Atoi(def.Value)
			if perr != nil || port <= 0 || port > 65535 {
				problems = append(problems, Problem{Code: InvalidValue, Option: def.Name, Value: def.Value, Hint: "must be a port number"})
				continue
			}
			p.port = port
		case Database:
			db, perr := strconv.Atoi(def.Value)
			if perr != nil || db < 0 {
				problems = append(problems, Problem{Code: InvalidValue, Option: def.Name, Value: def.Value, Hint: "must be a non negative integer"})
				continue
			}
			p.db = db
		case TableType:
			shape, perr := kvtable.ParseTableShape(def.Value)
			if perr != nil {
				problems = append(problems, Problem{Code: InvalidValue, Option: def.Name, Value: def.Value, Hint: "must be scalar, hash, list, set or zset"})
				continue
			}
			p.shape = shape
		}

		p.values[name] = def.Value
	}

	if len(problems) > 0 {
		err = &ValidationError{Context: ctx, Problems: problems}
	}
	return
}

func hint(ctx Context) string {
	names := ValidNames(ctx)
	if len(names) == 0 {
		return "<none>"
	}
	return strings.Join(names, ", ")
}

// Resolve validates the options of each object and merges them into TableOptions,
// filling in defaults for what is missing.
func Resolve(table, server, mapping []Def) (opts kvtable.TableOptions, err error) {
	t, err := parse(ContextTable, table)
	if err != nil {
		return
	}
	s, err := parse(ContextServer, server)
	if err != nil {
		return
	}
	m, err := parse(ContextUserMapping, mapping)
	if err != nil {
		return
	}

	opts.Server.Address = s.values[Address]
	if opts.Server.Address == "" {
		opts.Server.Address = DefaultAddress
	}
	opts.Server.Port = s.port
	if opts.Server.Port == 0 {
		opts.Server.Port = DefaultPort
	}
	opts.Server.Password = m.values[Password]
	opts.Server.Database = t.db

	opts.Shape = t.shape
	if v, ok := t.values[TableKeySet]; ok {
		opts.Constraint = kvtable.MemberSet(v)
	} else if v, ok := t.values[TableKeyPrefix]; ok {
		opts.Constraint = kvtable.KeyPrefix(v)
	}
	return
}
