// Package tmpl implements the directive template language used by gentmpl to
// render source code from a definitions model.
//
// # Syntax
//
// A template is literal text with two kinds of tags:
//
//	{{ expr }}                      interpolation
//	{% for x in a.b %} ... {% endfor %}
//	{% if expr %} ... {% elif expr %} ... {% else %} ... {% endif %}
//
// A "-" written directly inside a delimiter trims the adjacent literal text:
// "{%-" and "{{-" strip the spaces and tabs that precede the tag and then one
// line break, and "-%}" and "-}}" do the same for the text that follows.
//
// # Expressions
//
// Expressions are dotted paths (ast.nodes), string, number, boolean and nil
// literals, the comparisons == and !=, and the connectives not, and, or with
// parentheses. There is no arithmetic, indexing or function call. Expression
// source is parsed with [github.com/expr-lang/expr/parser] and restricted to
// this subset.
//
// # Evaluation
//
// A template renders against a [Value], normally a mapping whose keys are the
// global names. Each loop iteration binds its variable in a new innermost
// scope. Paths select mapping keys only; reaching a sequence or scalar before
// the last segment is [ErrUndefinedPath].
//
// Null renders as nothing, scalars as their literal text, and sequences and
// mappings as compact JSON. In conditions, null, false, zero and empty
// strings, sequences and mappings are false.
//
// # Example
//
//	t, err := tmpl.Parse(`{% for n in names %}{{ n }} {% endfor %}`)
//	if err != nil {
//		return err
//	}
//
//	out, err := t.Render(ctx, tmpl.Map(map[string]tmpl.Value{
//		"names": tmpl.Seq(tmpl.String("a"), tmpl.String("b")),
//	}))
//	// out == "a b "
//
// A parsed [Template] is immutable and may be rendered concurrently. [Cache]
// shares parsed templates between callers.
package tmpl
