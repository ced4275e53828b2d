package handler

// Action is a SQL action a handler may perform against a table.
type Action string

const (
	ActionSelect Action = "SELECT"
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// AllActions is the default action set recorded for a database dependency.
// The analyzer does not infer which actions a handler actually uses; it
// assumes the full set.
var AllActions = []Action{ActionSelect, ActionInsert, ActionUpdate, ActionDelete}

// DatabaseDep is a database table the handler depends on.
type DatabaseDep struct {
	Table   string   `json:"table"`
	Actions []Action `json:"actions"`
}

// ExternalDep is a non-database external system the handler depends on.
type ExternalDep struct {
	Kind      string   `json:"kind"` // "api" or "queue"
	Name      string   `json:"name"`
	Endpoints []string `json:"endpoints,omitempty"`
}

// Dependencies groups the collaborators injected through the handler's
// constructor.
type Dependencies struct {
	Services  []string      `json:"services"`
	Databases []DatabaseDep `json:"databases"`
	External  []ExternalDep `json:"external"`
}

// Descriptor is the handler analyzer's output for one class declaration.
// MethodName holds the last method encountered; multi-method classes lose
// all but the final name (see the regression tests before changing this).
type Descriptor struct {
	HandlerName  string       `json:"handlerName"`
	MethodName   string       `json:"methodName"`
	Dependencies Dependencies `json:"dependencies"`
}

// CallKind categorizes an external method call.
type CallKind string

const (
	CallDatabase CallKind = "database"
	CallAPI      CallKind = "api"
	CallQueue    CallKind = "queue"
	CallService  CallKind = "service"
	CallUtility  CallKind = "utility"
	CallUnknown  CallKind = "unknown"
)

// MethodCall is one classified call inside a method body. Internal calls
// carry only the action; external calls also carry the target and kind.
type MethodCall struct {
	External bool     `json:"external"`
	Kind     CallKind `json:"kind,omitempty"`
	Target   string   `json:"target,omitempty"`
	Action   string   `json:"action"`
}

// Metrics are the complexity measurements for one method body.
type Metrics struct {
	CyclomaticComplexity int `json:"cyclomaticComplexity"`
	StatementCount       int `json:"statementCount"`
	MaxNestingDepth      int `json:"maxNestingDepth"`
}
