package report

import "strings"

// Kind enumerates the built-in reports. The zero value is Console.
type Kind int

const (
	Console Kind = iota
	Margin
	Plot
)

var kindNames = map[Kind]string{
	Console: "console",
	Margin:  "margin",
	Plot:    "plot",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Factory returns the constructor of the built-in report, or nil for an
// out-of-range kind.
func (k Kind) Factory() Factory {
	switch k {
	case Console:
		return NewConsoleReport
	case Margin:
		return NewMarginReport
	case Plot:
		return NewPlotReport
	}
	return nil
}

// Kinds lists the built-in reports in table order.
func Kinds() []Kind {
	return []Kind{Console, Margin, Plot}
}

// ParseKind resolves a report name, ignoring case.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "margin":
		return Margin, nil
	case "console":
		return Console, nil
	case "plot":
		return Plot, nil
	}
	return 0, &UnknownReportError{Name: name}
}

// Selector picks a report either by built-in kind or by caller-supplied
// factory. The zero Selector selects Console.
type Selector struct {
	kind    Kind
	name    string
	byName  bool
	factory Factory
	custom  bool
}

// Named selects a built-in report by name. The name is only checked when the
// selector is resolved.
func Named(name string) Selector {
	return Selector{name: name, byName: true}
}

func Of(kind Kind) Selector {
	return Selector{kind: kind}
}

// Custom selects a caller-supplied report, bypassing the name table.
func Custom(factory Factory) Selector {
	return Selector{factory: factory, custom: true}
}

func (s Selector) String() string {
	switch {
	case s.custom:
		return "custom"
	case s.byName:
		return s.name
	}
	return s.kind.String()
}

// Resolve returns the factory the selector stands for.
func (s Selector) Resolve() (Factory, error) {
	if s.custom {
		if s.factory == nil {
			return nil, ErrNilFactory
		}
		return s.factory, nil
	}

	kind := s.kind
	if s.byName {
		k, err := ParseKind(s.name)
		if err != nil {
			return nil, err
		}
		kind = k
	}

	factory := kind.Factory()
	if factory == nil {
		return nil, &UnknownReportError{Name: kind.String()}
	}
	return factory, nil
}
