// internal/assistant/execute-query/guard.go
package executequery

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"google.golang.org/protobuf/reflect/protoreflect"

	"cert-tracker/internal/assistant/schema"
)

// allowedFunctions is the set of callable names, lower case as the parser
// reports them. SQL-syntax forms such as EXTRACT or TRIM arrive as their
// pg_catalog function names.
var allowedFunctions = setOf(
	"count", "sum", "avg", "min", "max", "string_agg", "array_agg",
	"bool_and", "bool_or", "every", "percentile_cont", "percentile_disc", "mode",
	"row_number", "rank", "dense_rank", "ntile", "lag", "lead",
	"first_value", "last_value",
	"lower", "upper", "initcap", "btrim", "ltrim", "rtrim",
	"length", "char_length", "substring", "substr", "position", "strpos",
	"concat", "concat_ws", "replace", "split_part", "left", "right",
	"lpad", "rpad", "reverse", "overlay", "similar_to_escape",
	"round", "trunc", "ceil", "ceiling", "floor", "abs", "mod", "power",
	"extract", "date_part", "date_trunc", "age", "now", "timezone",
	"to_date", "to_char", "to_number", "to_timestamp",
)

var allowedTypes = setOf(
	"int", "int2", "int4", "int8", "integer", "smallint", "bigint",
	"numeric", "decimal", "real", "float", "float4", "float8",
	"text", "varchar", "char", "bpchar", "character", "bool", "boolean",
	"date", "time", "timetz", "timestamp", "timestamptz", "interval",
)

var allowedValueFunctions = map[pg_query.SQLValueFunctionOp]bool{
	pg_query.SQLValueFunctionOp_SVFOP_CURRENT_DATE:        true,
	pg_query.SQLValueFunctionOp_SVFOP_CURRENT_TIME:        true,
	pg_query.SQLValueFunctionOp_SVFOP_CURRENT_TIME_N:      true,
	pg_query.SQLValueFunctionOp_SVFOP_CURRENT_TIMESTAMP:   true,
	pg_query.SQLValueFunctionOp_SVFOP_CURRENT_TIMESTAMP_N: true,
	pg_query.SQLValueFunctionOp_SVFOP_LOCALTIME:           true,
	pg_query.SQLValueFunctionOp_SVFOP_LOCALTIME_N:         true,
	pg_query.SQLValueFunctionOp_SVFOP_LOCALTIMESTAMP:      true,
	pg_query.SQLValueFunctionOp_SVFOP_LOCALTIMESTAMP_N:    true,
}

// guard enforces the allow-list on a generated statement. It returns the
// statement with trailing semicolons removed.
type guard struct {
	schema schema.Schema
}

func newGuard(s schema.Schema) *guard {
	return &guard{schema: s}
}

func (g *guard) check(statement string) (string, error) {
	trimmed := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(statement), "; \t\r\n"))
	if trimmed == "" {
		return "", fmt.Errorf("empty statement")
	}

	tree, err := pg_query.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse statement: %w", err)
	}
	switch {
	case len(tree.Stmts) == 0:
		return "", fmt.Errorf("empty statement")
	case len(tree.Stmts) > 1:
		return "", fmt.Errorf("multiple statements")
	}

	root := tree.Stmts[0].GetStmt()
	if root.GetSelectStmt() == nil {
		return "", fmt.Errorf("statement must be a single SELECT")
	}

	s := &scope{
		relations: make(map[string]bool),
		columns:   make(map[string]bool),
	}
	collectNames(root.ProtoReflect(), s)

	if err := g.walk(root.ProtoReflect(), s, map[string]bool{}); err != nil {
		return "", err
	}
	return trimmed, nil
}

// scope holds the names a statement introduces: table aliases and CTE names
// usable as qualifiers, output and alias column names usable as columns.
type scope struct {
	relations map[string]bool
	columns   map[string]bool
}

func collectNames(m protoreflect.Message, s *scope) {
	switch n := m.Interface().(type) {
	case *pg_query.Alias:
		s.relations[strings.ToLower(n.GetAliasname())] = true
		for _, c := range n.GetColnames() {
			s.columns[strings.ToLower(c.GetString_().GetSval())] = true
		}
	case *pg_query.CommonTableExpr:
		s.relations[strings.ToLower(n.GetCtename())] = true
		for _, c := range n.GetAliascolnames() {
			s.columns[strings.ToLower(c.GetString_().GetSval())] = true
		}
	case *pg_query.ResTarget:
		if n.GetName() != "" {
			s.columns[strings.ToLower(n.GetName())] = true
		}
	}
	children(m, func(child protoreflect.Message) error {
		collectNames(child, s)
		return nil
	})
}

// walk checks every node under m. ctes holds the CTE names visible at this
// point; a CTE body only sees the CTEs declared before it.
func (g *guard) walk(m protoreflect.Message, s *scope, ctes map[string]bool) error {
	switch n := m.Interface().(type) {
	case *pg_query.SelectStmt:
		if n.GetIntoClause() != nil {
			return fmt.Errorf("SELECT INTO is not allowed")
		}
		if len(n.GetLockingClause()) > 0 {
			return fmt.Errorf("locking clauses are not allowed")
		}
		if with := n.GetWithClause(); with != nil {
			visible := copySet(ctes)
			for _, node := range with.GetCtes() {
				cte := node.GetCommonTableExpr()
				name := strings.ToLower(cte.GetCtename())
				body := copySet(visible)
				if with.GetRecursive() {
					body[name] = true
				}
				if err := g.walk(cte.GetCtequery().ProtoReflect(), s, body); err != nil {
					return err
				}
				visible[name] = true
			}
			ctes = visible
		}
		return childrenExcept(m, "with_clause", func(child protoreflect.Message) error {
			return g.walk(child, s, ctes)
		})

	case *pg_query.RangeVar:
		if err := g.checkRangeVar(n, ctes); err != nil {
			return err
		}
	case *pg_query.ColumnRef:
		if err := g.checkColumnRef(n, s); err != nil {
			return err
		}
	case *pg_query.FuncCall:
		if err := checkFuncCall(n); err != nil {
			return err
		}
	case *pg_query.TypeName:
		if err := checkTypeName(n); err != nil {
			return err
		}
	case *pg_query.SQLValueFunction:
		if !allowedValueFunctions[n.GetOp()] {
			return fmt.Errorf("value function %s is not allowed", n.GetOp())
		}
	case *pg_query.ParamRef:
		return fmt.Errorf("parameters are not allowed")
	case *pg_query.RangeFunction, *pg_query.RangeTableFunc, *pg_query.RangeTableSample:
		return fmt.Errorf("only %s may appear in FROM", g.schema.Table)
	}

	return children(m, func(child protoreflect.Message) error {
		return g.walk(child, s, ctes)
	})
}

func (g *guard) checkRangeVar(rv *pg_query.RangeVar, ctes map[string]bool) error {
	name := rv.GetRelname()
	if rv.GetCatalogname() != "" {
		return fmt.Errorf("table %s.%s is not allowed", rv.GetCatalogname(), name)
	}
	switch schemaName := rv.GetSchemaname(); {
	case schemaName == "":
		if ctes[strings.ToLower(name)] || g.schema.IsTable(name) {
			return nil
		}
	case strings.EqualFold(schemaName, "public"):
		if g.schema.IsTable(name) {
			return nil
		}
	default:
		return fmt.Errorf("table %s.%s is not allowed", schemaName, name)
	}
	return fmt.Errorf("table %s is not allowed", name)
}

func (g *guard) checkColumnRef(ref *pg_query.ColumnRef, s *scope) error {
	var parts []string
	for _, f := range ref.GetFields() {
		switch {
		case f.GetAStar() != nil:
			parts = append(parts, "*")
		case f.GetString_() != nil:
			parts = append(parts, f.GetString_().GetSval())
		default:
			return fmt.Errorf("unsupported column reference")
		}
	}

	if len(parts) == 0 {
		return fmt.Errorf("unsupported column reference")
	}

	column := parts[len(parts)-1]
	switch len(parts) {
	case 1:
	case 2:
		if !g.isRelation(parts[0], s) {
			return fmt.Errorf("unknown qualifier %s", parts[0])
		}
	case 3:
		if !strings.EqualFold(parts[0], "public") || !g.schema.IsTable(parts[1]) {
			return fmt.Errorf("unknown qualifier %s.%s", parts[0], parts[1])
		}
	default:
		return fmt.Errorf("unsupported column reference %s", strings.Join(parts, "."))
	}

	if column == "*" || g.schema.HasColumn(column) || s.columns[strings.ToLower(column)] {
		return nil
	}
	return fmt.Errorf("unknown column %s", column)
}

func (g *guard) isRelation(name string, s *scope) bool {
	return g.schema.IsTable(name) || s.relations[strings.ToLower(name)]
}

func checkFuncCall(fn *pg_query.FuncCall) error {
	names := stringList(fn.GetFuncname())
	if len(names) == 0 {
		return fmt.Errorf("unsupported function call")
	}
	name := strings.ToLower(names[len(names)-1])
	if len(names) > 2 || (len(names) == 2 && !strings.EqualFold(names[0], "pg_catalog")) {
		return fmt.Errorf("function %s is not allowed", strings.Join(names, "."))
	}
	if !allowedFunctions[name] {
		return fmt.Errorf("function %s is not allowed", name)
	}
	return nil
}

func checkTypeName(tn *pg_query.TypeName) error {
	names := stringList(tn.GetNames())
	if len(names) == 0 {
		return fmt.Errorf("unsupported type")
	}
	name := strings.ToLower(names[len(names)-1])
	if len(names) > 2 || (len(names) == 2 && !strings.EqualFold(names[0], "pg_catalog")) || !allowedTypes[name] {
		return fmt.Errorf("type %s is not allowed", strings.Join(names, "."))
	}
	return nil
}

func stringList(nodes []*pg_query.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := n.GetString_(); s != nil {
			out = append(out, s.GetSval())
		}
	}
	return out
}

// children calls fn for each populated message field of m, in declaration
// order, stopping at the first error.
func children(m protoreflect.Message, fn func(protoreflect.Message) error) error {
	return childrenExcept(m, "", fn)
}

func childrenExcept(m protoreflect.Message, skip protoreflect.Name, fn func(protoreflect.Message) error) error {
	var err error
	m.Range(func(fd protoreflect.FieldDescriptor, v protoreflect.Value) bool {
		if fd.Kind() != protoreflect.MessageKind || fd.IsMap() || fd.Name() == skip {
			return true
		}
		if fd.IsList() {
			list := v.List()
			for i := 0; i < list.Len() && err == nil; i++ {
				err = fn(list.Get(i).Message())
			}
		} else {
			err = fn(v.Message())
		}
		return err == nil
	})
	return err
}

func copySet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func setOf(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
