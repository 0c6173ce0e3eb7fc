package env

import "os"

// ProxyVarNames are the proxy variables copied from the invoking process.
// Both spellings are carried since tools disagree on which one they read.
var ProxyVarNames = [...]string{
	"HTTP_PROXY",
	"HTTPS_PROXY",
	"NO_PROXY",
	"http_proxy",
	"https_proxy",
	"no_proxy",
}

// Var is a name/value pair for the inspector container environment
type Var struct {
	Name  string
	Value string
}

// LookupFunc reports the value of an environment variable, like os.LookupEnv
type LookupFunc func(key string) (string, bool)

// Resolver resolves the environment passed through to inspector jobs
type Resolver struct {
	lookup LookupFunc
}

// NewResolver creates a resolver reading from lookup. A nil lookup reads
// the process environment.
func NewResolver(lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Resolver{lookup: lookup}
}

// Proxy returns every proxy variable set in the environment, in the fixed
// order of ProxyVarNames. Set-but-empty variables are carried as well.
func (r *Resolver) Proxy() []Var {
	vars := make([]Var, 0, len(ProxyVarNames))
	for _, name := range ProxyVarNames {
		if value, ok := r.lookup(name); ok {
			vars = append(vars, Var{Name: name, Value: value})
		}
	}
	return vars
}

// Names returns the names of vars
func Names(vars []Var) []string {
	names := make([]string, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.Name)
	}
	return names
}
