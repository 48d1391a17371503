package lang

// Construct enumerates the language constructs deliberately excluded from
// the compiled subset. Each maps to exactly one diagnostic message.
type Construct int

const (
	ConstructNestedFunc Construct = iota
	ConstructClassDef
	ConstructWith
	ConstructTry
	ConstructRaise
	ConstructImport
	ConstructGlobal
	ConstructNonlocal
	ConstructDelete
	ConstructAsyncFunc
	ConstructLambda
	ConstructListLit
	ConstructSetLit
	ConstructDictLit
	ConstructComprehension
	ConstructGenerator
	ConstructAwait
	ConstructYield
	ConstructFString
	ConstructStarred
	ConstructSlice
	ConstructTypeAlias
	ConstructMatchMapping
	ConstructMatchStar
)

// Message returns the fixed "not supported" diagnostic for the construct.
func (c Construct) Message() string {
	switch c {
	case ConstructNestedFunc:
		return "nested function definitions are not supported"
	case ConstructClassDef:
		return "classes within functions are not supported"
	case ConstructWith:
		return "with statements are not supported"
	case ConstructTry:
		return "try statements are not supported"
	case ConstructRaise:
		return "raise statements are not supported"
	case ConstructImport:
		return "import statements are not supported"
	case ConstructGlobal:
		return "global statements are not supported"
	case ConstructNonlocal:
		return "nonlocal statements are not supported"
	case ConstructDelete:
		return "deleting variables is not supported"
	case ConstructAsyncFunc:
		return "async functions are not supported"
	case ConstructLambda:
		return "lambdas are not supported"
	case ConstructListLit:
		return "list literals are not supported"
	case ConstructSetLit:
		return "set literals are not supported"
	case ConstructDictLit:
		return "dict literals are not supported"
	case ConstructComprehension:
		return "comprehensions are not supported"
	case ConstructGenerator:
		return "generator expressions are not supported"
	case ConstructAwait:
		return "await expressions are not supported"
	case ConstructYield:
		return "yield expressions are not supported"
	case ConstructFString:
		return "f-strings are not supported"
	case ConstructStarred:
		return "starred expressions are not supported"
	case ConstructSlice:
		return "slices are not supported"
	case ConstructTypeAlias:
		return "type aliases are not supported"
	case ConstructMatchMapping:
		return "match mappings are not supported"
	case ConstructMatchStar:
		return "match stars are not supported"
	}
	return "unsupported syntax"
}
