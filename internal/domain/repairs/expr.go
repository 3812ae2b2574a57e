package repairs

import (
	"sync"

	"github.com/google/cel-go/cel"

	"repairdesk/internal/core/apperror"
)

// exprVariable is the name repairs are bound to inside an expression.
const exprVariable = "repair"

var (
	exprEnvOnce sync.Once
	exprEnv     *cel.Env
	exprEnvErr  error
)

func expressionEnv() (*cel.Env, error) {
	exprEnvOnce.Do(func() {
		exprEnv, exprEnvErr = cel.NewEnv(
			cel.Variable(exprVariable, cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return exprEnv, exprEnvErr
}

// Expression is a compiled boolean CEL predicate over a repair, for example
//
//	repair.cost > 1000.0 && repair.status == "completed"
//
// Fields: id, clientId, clientName, technicianId, technicianName, assigned,
// deviceType, deviceModel, serialNumber, problem, status, priority,
// priorityRank, estimatedCost, finalCost, cost, estimatedDays, createdAt,
// completedAt. Amounts are doubles; missing optional values are null.
type Expression struct {
	source  string
	program cel.Program
}

// CompileExpression parses and type-checks src.
func CompileExpression(src string) (*Expression, error) {
	env, err := expressionEnv()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	ast, iss := env.Compile(src)
	if iss != nil && iss.Err() != nil {
		return nil, apperror.NewInvalidInput("expr", src).
			WithDetail("reason", iss.Err().Error())
	}
	// Fields of the repair map are dyn; bare field access is checked at
	// evaluation time by Matches.
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, apperror.NewInvalidInput("expr", src).
			WithDetail("reason", "expression must evaluate to bool")
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, apperror.NewInvalidInput("expr", src).
			WithDetail("reason", err.Error())
	}
	return &Expression{source: src, program: prg}, nil
}

// String returns the expression source.
func (e *Expression) String() string {
	return e.source
}

// Matches evaluates the expression. Evaluation errors (missing keys,
// mismatched types) exclude the repair.
func (e *Expression) Matches(r Repair) bool {
	out, _, err := e.program.Eval(map[string]any{exprVariable: exprFields(r)})
	if err != nil {
		return false
	}
	v, ok := out.Value().(bool)
	return ok && v
}

func exprFields(r Repair) map[string]any {
	fields := map[string]any{
		"id":             r.ID.String(),
		"clientId":       r.ClientID.String(),
		"clientName":     r.ClientName,
		"technicianId":   nil,
		"technicianName": nil,
		"assigned":       r.Assigned(),
		"deviceType":     r.DeviceType,
		"deviceModel":    r.DeviceModel,
		"serialNumber":   r.SerialNumber,
		"problem":        r.Problem,
		"status":         string(r.Status),
		"priority":       string(r.Priority),
		"priorityRank":   int64(r.Priority.Rank()),
		"estimatedCost":  r.EstimatedCost.InexactFloat64(),
		"finalCost":      nil,
		"cost":           r.Cost().InexactFloat64(),
		"estimatedDays":  int64(r.EstimatedDays),
		"createdAt":      r.CreatedAt,
		"completedAt":    nil,
	}
	if r.Assigned() {
		fields["technicianId"] = r.TechnicianID.String()
	}
	if r.TechnicianName != nil {
		fields["technicianName"] = *r.TechnicianName
	}
	if r.FinalCost != nil {
		fields["finalCost"] = r.FinalCost.InexactFloat64()
	}
	if r.CompletedAt != nil {
		fields["completedAt"] = *r.CompletedAt
	}
	return fields
}
