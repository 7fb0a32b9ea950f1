package code

// Indices of the functions that every program has.
const (
	MainFunc = 0
	ReadFunc = 1
)

// Names of the functions that every program has.
const (
	MainName = "(main)"
	ReadName = "(read)"
)

// Program is the function table along with the variable and array name
// tables shared by all functions.
type Program struct {
	Funcs  []*Func
	Vars   Names
	Arrays Names

	named map[string]int
	execs map[string]int
}

// NewProgram returns a program with empty main and read functions.
func NewProgram() *Program {
	p := &Program{}
	p.Funcs = append(p.Funcs,
		&Func{Name: MainName},
		&Func{Name: ReadName})
	return p
}

// Main returns the top level function.
func (p *Program) Main() *Func { return p.Funcs[MainFunc] }

// FuncIndex returns the index of the named function, adding an undefined
// placeholder if it hasn't been seen before, so that calls may be compiled
// ahead of definitions.
func (p *Program) FuncIndex(name string) int {
	if i, ok := p.named[name]; ok {
		return i
	}
	if p.named == nil {
		p.named = make(map[string]int)
	}
	p.Funcs = append(p.Funcs, &Func{Name: name})
	i := len(p.Funcs) - 1
	p.named[name] = i
	return i
}

// Lookup returns the index of a named function, if it has been seen.
func (p *Program) Lookup(name string) (int, bool) {
	i, ok := p.named[name]
	return i, ok
}

// Define installs fn under its name, replacing any prior definition in place
// so that previously compiled calls see the new body.
func (p *Program) Define(fn *Func) int {
	i := p.FuncIndex(fn.Name)
	*p.Funcs[i] = *fn
	return i
}

// Exec returns the index of the function compiled from an executed string,
// if there is one.
func (p *Program) Exec(text string) (int, bool) {
	i, ok := p.execs[text]
	return i, ok
}

// AddExec adds the compiled form of an executed string.
func (p *Program) AddExec(text string, fn *Func) int {
	if p.execs == nil {
		p.execs = make(map[string]int)
	}
	p.Funcs = append(p.Funcs, fn)
	i := len(p.Funcs) - 1
	p.execs[text] = i
	return i
}

// Names is an interning table of identifiers.
type Names struct {
	strings []string
	index   map[string]int
}

// Len returns how many names have been interned.
func (ns Names) Len() int { return len(ns.strings) }

// Name returns the i-th name, or "" if there isn't one.
func (ns Names) Name(i int) string {
	if i >= 0 && i < len(ns.strings) {
		return ns.strings[i]
	}
	return ""
}

// Lookup returns the index of a name, if it has been interned.
func (ns Names) Lookup(s string) (int, bool) {
	i, ok := ns.index[s]
	return i, ok
}

// Intern returns the index of a name, adding it if needed.
func (ns *Names) Intern(s string) int {
	i, defined := ns.index[s]
	if !defined {
		if ns.index == nil {
			ns.index = make(map[string]int)
		}
		i = len(ns.strings)
		ns.strings = append(ns.strings, s)
		ns.index[s] = i
	}
	return i
}
