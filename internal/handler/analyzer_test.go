package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeatlas/internal/ast"
)

func param(name, typeName string) *ast.Node {
	return &ast.Node{Kind: ast.KindParameter, Name: name, Type: typeName}
}

func ctor(params ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindConstructorDecl, Name: "constructor", Children: params}
}

func method(name string, children ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindMethodDecl, Name: name, Children: children}
}

func class(name string, children ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindClassDecl, Name: name, Children: children}
}

func sourceFile(children ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindSourceFile, Children: children}
}

func callTo(text string) *ast.Node {
	return &ast.Node{Kind: ast.KindCallExpr, Children: []*ast.Node{
		{Kind: ast.KindPropertyAccess, Text: text},
	}}
}

func block(children ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindBlock, Children: children}
}

func stmt(children ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindStatement, Children: children}
}

func TestAnalyzeNoClass(t *testing.T) {
	root := sourceFile(&ast.Node{Kind: ast.KindFunctionDecl, Name: "main"})
	assert.Nil(t, Analyze(root))
	assert.Nil(t, Analyze(nil))
}

func TestAnalyzeDependencies(t *testing.T) {
	root := sourceFile(class("OrderHandler",
		ctor(
			param("emailService", "EmailService"),
			param("orders", "OrderDatabase"),
			param("payments", "PaymentClient"),
			param("events", "EventQueue"),
			param("count", "number"),
		),
		method("handleOrder"),
	))

	desc := Analyze(root)
	require.NotNil(t, desc)
	assert.Equal(t, "OrderHandler", desc.HandlerName)

	assert.Equal(t, []string{"EmailService"}, desc.Dependencies.Services)

	require.Len(t, desc.Dependencies.Databases, 1)
	assert.Equal(t, "order", desc.Dependencies.Databases[0].Table)
	assert.Equal(t, AllActions, desc.Dependencies.Databases[0].Actions)

	require.Len(t, desc.Dependencies.External, 2)
	assert.Equal(t, "api", desc.Dependencies.External[0].Kind)
	assert.Equal(t, "PaymentClient", desc.Dependencies.External[0].Name)
	assert.Equal(t, "queue", desc.Dependencies.External[1].Kind)
	assert.Equal(t, "EventQueue", desc.Dependencies.External[1].Name)
}

func TestAnalyzeStopsAtFirstClass(t *testing.T) {
	root := sourceFile(
		class("FirstHandler", method("handleFirst")),
		class("SecondHandler", method("handleSecond")),
	)

	desc := Analyze(root)
	require.NotNil(t, desc)
	assert.Equal(t, "FirstHandler", desc.HandlerName)
	assert.Equal(t, "handleFirst", desc.MethodName)
}

func TestAnalyzeFindsNestedClass(t *testing.T) {
	wrapper := &ast.Node{
		Kind:     ast.KindStatement,
		Children: []*ast.Node{class("InnerHandler")},
	}
	desc := Analyze(sourceFile(wrapper))
	require.NotNil(t, desc)
	assert.Equal(t, "InnerHandler", desc.HandlerName)
}

func TestAnalyzeLastMethodWins(t *testing.T) {
	root := sourceFile(class("MultiHandler",
		method("processOrder"),
		method("validateOrder"),
		method("sendReceipt"),
	))

	desc := Analyze(root)
	require.NotNil(t, desc)
	assert.Equal(t, "sendReceipt", desc.MethodName, "only the last method is retained")
}

func TestAnalyzeNoConstructor(t *testing.T) {
	desc := Analyze(sourceFile(class("BareHandler")))
	require.NotNil(t, desc)
	assert.Empty(t, desc.Dependencies.Services)
	assert.Empty(t, desc.Dependencies.Databases)
	assert.Empty(t, desc.Dependencies.External)
}

func TestMethodType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"processPayment", "processor"},
		{"handleOrder", "action"},
		{"sendReceipt", "action"},
		{"validateInput", "validator"},
		{"getStatus", "helper"},
		{"checkLimits", "helper"},
		{"computeTotal", "helper"}, // default
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MethodType(method(tt.name))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccessModifier(t *testing.T) {
	tests := []struct {
		mods []string
		want string
	}{
		{[]string{"private"}, "private"},
		{[]string{"protected"}, "protected"},
		{[]string{"public"}, "public"},
		{[]string{"static", "private"}, "private"},
		{[]string{"async"}, "public"},
		{nil, "public"},
	}

	for _, tt := range tests {
		m := method("run")
		m.Modifiers = tt.mods
		assert.Equal(t, tt.want, AccessModifier(m), "modifiers %v", tt.mods)
	}
}

func TestMethodCallsClassification(t *testing.T) {
	m := method("processOrder", block(
		stmt(callTo("this.userRepository.save")),
		stmt(callTo("stripeGateway.charge")),
		stmt(callTo("formatter.apply")),
		stmt(callTo("this.normalize")),
	))

	calls := MethodCalls(m)
	require.Len(t, calls, 4)

	assert.True(t, calls[0].External)
	assert.Equal(t, CallDatabase, calls[0].Kind)
	assert.Equal(t, "this.userRepository", calls[0].Target)
	assert.Equal(t, "save", calls[0].Action)

	assert.True(t, calls[1].External)
	assert.Equal(t, "charge", calls[1].Action)

	assert.False(t, calls[2].External, "formatter.apply is internal")
	assert.Equal(t, "apply", calls[2].Action)

	// Calls through the instance are external no matter what.
	assert.True(t, calls[3].External)
	assert.Equal(t, CallUnknown, calls[3].Kind)
}

func TestSelfCallCatchAll(t *testing.T) {
	assert.True(t, isExternalCall("this.anythingAtAll"))
	assert.True(t, isExternalCall("this"))
}

func TestCallTypePriority(t *testing.T) {
	// Matches both a database substring and a queue substring; database
	// is checked first.
	assert.Equal(t, CallDatabase, determineCallType("dbQueueClient"))

	tests := []struct {
		target string
		want   CallKind
	}{
		{"userRepository", CallDatabase},
		{"orderDao", CallDatabase},
		{"executeQuery", CallDatabase},
		{"axios", CallAPI},
		{"httpGateway", CallAPI},
		{"messageQueue", CallQueue},
		{"EventBus", CallQueue},
		{"paymentService", CallService},
		{"apiClient", CallService}, // "Client" matches before utility
		{"logger", CallUtility},
		{"notifier.webhook", CallUtility},
		{"mystery", CallUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, determineCallType(tt.target))
		})
	}
}

func TestIsExternalCall(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"this.helper", true},        // self catch-all
		{"userRepository", true},     // database indicator
		{"ordersDb", true},           // database indicator
		{"paymentApi", true},         // api indicator
		{"httpClient", true},         // api indicator
		{"stripeGateway", true},      // external service name
		{"formatter", false},
		{"validator", false},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, isExternalCall(tt.target))
		})
	}
}
