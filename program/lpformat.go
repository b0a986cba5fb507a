package program

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteLP writes the program in CPLEX LP format so that it can be handed to an external solver.
// Variable and constraint names are sanitised, e.g. `new_charge_cap[3]` becomes `new_charge_cap_3`.
func (p *Program) WriteLP(w io.Writer) error {
	bw := bufio.NewWriter(w)

	name := func(v VarID) string {
		return lpName(p.VariableKey(v))
	}

	fmt.Fprintf(bw, "\\ program %s\n", p.ID)
	bw.WriteString("Minimize\n")
	obj := p.objective
	if obj.Constant() != 0 {
		// LP format has no objective constant, record it as a comment so the reported objective can be corrected
		fmt.Fprintf(bw, "\\ objective constant %g\n", obj.Constant())
	}
	objTerms := obj.Sub(Const(obj.Constant()))
	if objTerms.IsConstant() {
		bw.WriteString(" obj: 0\n")
	} else {
		fmt.Fprintf(bw, " obj: %s\n", objTerms.Format(name))
	}

	bw.WriteString("Subject To\n")
	for _, c := range p.constraints {
		if c.Expr.IsConstant() {
			// LP readers reject rows without variables, keep the check visible as a comment
			fmt.Fprintf(bw, "\\ %s: 0 %s %g\n", lpName(c.Key), c.Sense, c.RHS)
			continue
		}
		fmt.Fprintf(bw, " %s: %s %s %g\n", lpName(c.Key), c.Expr.Format(name), c.Sense, c.RHS)
	}

	bw.WriteString("Bounds\n")
	for id := range p.varKeys {
		fmt.Fprintf(bw, " %s >= 0\n", name(VarID(id)))
	}
	bw.WriteString("End\n")

	return bw.Flush()
}

func lpName(k Key) string {
	replacer := strings.NewReplacer("[", "_", "]", "", " ", "_")
	return replacer.Replace(k.String())
}
