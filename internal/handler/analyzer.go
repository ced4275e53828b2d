// Package handler analyzes a single handler class: constructor-injected
// dependencies, per-call classification, method categories, and
// complexity metrics. It is independent of the structural graph extractor
// and operates on the same AST shape.
package handler

import (
	"strings"

	"codeatlas/internal/ast"
)

// Analyze locates the first class declaration in the tree and derives its
// dependency descriptor. Returns nil when the tree contains no class.
//
// Traversal stops at the first class: later classes in the same file are
// never analyzed. The descriptor's MethodName is overwritten by each
// method visited, so only the last one is retained. Both behaviors are
// kept for compatibility with existing consumers.
func Analyze(root *ast.Node) *Descriptor {
	class := ast.FindFirst(root, ast.KindClassDecl)
	if class == nil {
		return nil
	}

	desc := &Descriptor{
		HandlerName: class.Name,
		Dependencies: Dependencies{
			Services:  []string{},
			Databases: []DatabaseDep{},
			External:  []ExternalDep{},
		},
	}

	if ctor := ast.FindFirst(class, ast.KindConstructorDecl); ctor != nil {
		for _, param := range ast.ChildrenOfKind(ctor, ast.KindParameter) {
			addDependency(&desc.Dependencies, param)
		}
	}

	for _, method := range ast.ChildrenOfKind(class, ast.KindMethodDecl) {
		desc.MethodName = method.Name
	}

	return desc
}

// addDependency classifies one constructor parameter by its declared type
// name. Untyped parameters contribute nothing.
func addDependency(deps *Dependencies, param *ast.Node) {
	typeName := param.Type
	if typeName == "" {
		return
	}
	switch {
	case strings.HasSuffix(typeName, "Service"):
		deps.Services = append(deps.Services, typeName)
	case strings.Contains(typeName, "Database"):
		table := strings.ToLower(strings.ReplaceAll(typeName, "Database", ""))
		if table == "" {
			table = param.Name
		}
		deps.Databases = append(deps.Databases, DatabaseDep{
			Table:   table,
			Actions: AllActions,
		})
	case strings.Contains(typeName, "Queue"):
		deps.External = append(deps.External, ExternalDep{Kind: "queue", Name: typeName})
	case strings.HasSuffix(typeName, "Client") || strings.Contains(typeName, "Api"):
		deps.External = append(deps.External, ExternalDep{Kind: "api", Name: typeName})
	}
}

// MethodType derives a method's behavioral category from its name. Rules
// are checked in declaration order; unmatched names default to "helper".
func MethodType(method *ast.Node) string {
	for _, rule := range methodTypeRules {
		for _, prefix := range rule.prefixes {
			if strings.HasPrefix(method.Name, prefix) {
				return rule.category
			}
		}
	}
	return "helper"
}

// AccessModifier returns the method's access level, defaulting to public
// when no access modifier is present.
func AccessModifier(method *ast.Node) string {
	for _, m := range method.Modifiers {
		switch m {
		case "private", "protected", "public":
			return m
		}
	}
	return "public"
}

// MethodCalls classifies every property-access call inside a method body.
// Direct calls (bare identifiers) are not property accesses and are
// skipped entirely.
func MethodCalls(method *ast.Node) []MethodCall {
	var calls []MethodCall
	ast.Walk(method, func(n *ast.Node) bool {
		if n.Kind != ast.KindCallExpr || len(n.Children) == 0 {
			return true
		}
		callee := n.Children[0]
		if callee.Kind != ast.KindPropertyAccess {
			return true
		}
		target, action, ok := splitTargetAction(callee.Text)
		if !ok {
			return true
		}
		if isExternalCall(target) {
			calls = append(calls, MethodCall{
				External: true,
				Kind:     determineCallType(target),
				Target:   target,
				Action:   action,
			})
		} else {
			calls = append(calls, MethodCall{Action: action})
		}
		return true
	})
	return calls
}

// splitTargetAction splits a dotted callee into the receiving target and
// the invoked member: "this.repo.save" -> ("this.repo", "save").
func splitTargetAction(text string) (target, action string, ok bool) {
	dot := strings.LastIndexByte(text, '.')
	if dot <= 0 || dot == len(text)-1 {
		return "", "", false
	}
	return text[:dot], text[dot+1:], true
}
