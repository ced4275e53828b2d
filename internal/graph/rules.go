package graph

import "strings"

// DefaultIgnorePrefixes lists callee prefixes treated as external package
// calls. Matching is prefix-based, so "console" covers "console.log",
// "console.error" and so on. The set is overridable via Config.
var DefaultIgnorePrefixes = []string{
	"console",
	"logger",
	"log",
	"Math",
	"JSON",
	"Date",
	"Object",
	"Array",
	"String",
	"Number",
	"Boolean",
	"Promise",
	"Map",
	"Set",
	"WeakMap",
	"WeakSet",
	"Symbol",
	"RegExp",
	"Error",
	"Buffer",
	"fetch",
	"axios",
	"http",
	"https",
	"localStorage",
	"sessionStorage",
	"window",
	"document",
	"process",
	"require",
	"setTimeout",
	"setInterval",
	"clearTimeout",
	"clearInterval",
	"parseInt",
	"parseFloat",
}

// isExternalPackageCall reports whether a callee expression should be
// dropped from the graph. A call is external when it matches the ignore
// list by prefix, or when it looks like a module access: an all-lowercase
// leading segment followed by a dot ("fs.readFile"), a "$" prefix, or a
// "_" prefix. First-segment casing matters: "myService.process" is kept
// because the segment before the dot is not all lowercase.
func isExternalPackageCall(callee string, ignorePrefixes []string) bool {
	for _, prefix := range ignorePrefixes {
		if strings.HasPrefix(callee, prefix) {
			return true
		}
	}
	if strings.HasPrefix(callee, "$") || strings.HasPrefix(callee, "_") {
		return true
	}
	if dot := strings.IndexByte(callee, '.'); dot > 0 {
		return isAllLower(callee[:dot])
	}
	return false
}

func isAllLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return len(s) > 0
}
