// Package purity classifies functions as side-effect-free by scanning their
// own source text for a denylist of effectful constructs.
//
// The scan is a heuristic, not a proof. It over-approximates on the impure
// side (a denylisted token inside a comment or string still counts) and can
// under-approximate when an effect hides behind an identifier the denylist
// does not know. A Pure verdict therefore means "probably safe to memoize",
// never "proven pure". Callers who know better should say so explicitly
// instead of trusting the scan.
package purity

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"runtime"
	"strings"
)

// Verdict is the outcome of a purity inspection.
type Verdict int

const (
	// Unknown means the function's source could not be recovered, e.g. a
	// stripped deployment or generated code. Treat as not memoization-safe.
	Unknown Verdict = iota
	// Pure means no denylisted construct was found in the definition.
	Pure
	// Impure means at least one denylisted construct appears in the
	// definition text.
	Impure
)

func (v Verdict) String() string {
	switch v {
	case Pure:
		return "pure"
	case Impure:
		return "impure"
	default:
		return "unknown"
	}
}

// denylist holds textual markers of side effects and non-determinism:
// logging and printing, randomness, wall-clock reads, timers, network,
// file system and persistent storage access.
var denylist = []string{
	"fmt.Print",
	"log.",
	"println(",
	"print(",
	"rand.",
	"time.Now",
	"time.Since",
	"time.Sleep",
	"time.After",
	"time.Tick",
	"time.NewTimer",
	"time.NewTicker",
	"http.",
	"net.Dial",
	"os.",
	"ioutil.",
	"sql.",
	"syscall.",
}

// InspectFunc resolves fn's code pointer and inspects its definition.
// A non-function argument yields Unknown.
func InspectFunc(fn any) Verdict {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return Unknown
	}
	return Inspect(v.Pointer())
}

// Inspect recovers the source text of the function at pc and scans it
// against the denylist. The enclosing function is located by parsing the
// defining file and picking the innermost function declaration or literal
// spanning the function's first line.
func Inspect(pc uintptr) Verdict {
	f := runtime.FuncForPC(pc)
	if f == nil {
		return Unknown
	}
	file, line := f.FileLine(pc)
	src, err := os.ReadFile(file)
	if err != nil {
		return Unknown
	}

	body := enclosingFuncSource(file, src, line)
	if body == "" {
		return Unknown
	}

	for _, marker := range denylist {
		if strings.Contains(body, marker) {
			return Impure
		}
	}
	return Pure
}

// enclosingFuncSource returns the text of the innermost FuncDecl or FuncLit
// in src whose span covers line, or "" when none does.
func enclosingFuncSource(filename string, src []byte, line int) string {
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return ""
	}

	var best ast.Node
	ast.Inspect(parsed, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FuncDecl, *ast.FuncLit:
		default:
			return true
		}
		from := fset.Position(n.Pos()).Line
		to := fset.Position(n.End()).Line
		if from > line || to < line {
			return true
		}
		if best == nil || n.Pos() >= best.Pos() && n.End() <= best.End() {
			best = n
		}
		return true
	})
	if best == nil {
		return ""
	}

	lo := fset.Position(best.Pos()).Offset
	hi := fset.Position(best.End()).Offset
	if lo < 0 || hi > len(src) || lo >= hi {
		return ""
	}
	return string(src[lo:hi])
}
