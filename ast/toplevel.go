package ast

// Param is a single (name, declared type) pair in a function
// signature.
type Param struct {
	Name string
	Type DeclaredType
}

// TopLevelKind identifies which variant of TopLevel is populated.
type TopLevelKind int

const (
	// FunctionDefinition is a function with a body.
	FunctionDefinition TopLevelKind = iota

	// ExternalFunctionDeclaration is an `extern` signature with no body.
	ExternalFunctionDeclaration
)

// TopLevel is either a function definition or an external function
// declaration.
type TopLevel struct {
	Kind       TopLevelKind
	Name       string
	Params     []Param
	ReturnType DeclaredType
	Body       []*Statement // nil for ExternalFunctionDeclaration
}

// NewFunctionDefinition builds a function definition top-level item.
func NewFunctionDefinition(name string, params []Param, ret DeclaredType, body []*Statement) *TopLevel {
	return &TopLevel{Kind: FunctionDefinition, Name: name, Params: params, ReturnType: ret, Body: body}
}

// NewExternalFunctionDeclaration builds an `extern` signature with no body.
func NewExternalFunctionDeclaration(name string, params []Param, ret DeclaredType) *TopLevel {
	return &TopLevel{Kind: ExternalFunctionDeclaration, Name: name, Params: params, ReturnType: ret}
}

// Program is the parser's final output: an ordered list of top-level
// items.
type Program struct {
	TopLevels []*TopLevel
}
