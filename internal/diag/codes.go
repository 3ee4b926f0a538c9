package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// dataflow findings
	DfaUndefinedVariable      Code = 1001
	DfaMaybeUndefinedVariable Code = 1002
	DfaDeadCode               Code = 1003

	IOLoadFileError Code = 9001

	// frontend
	FrnDecode  Code = 9101
	FrnCommand Code = 9102

	IntAnalysisFailure Code = 9901
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	DfaUndefinedVariable:      "Undefined variable",
	DfaMaybeUndefinedVariable: "Possibly undefined variable",
	DfaDeadCode:               "Dead code",
	IOLoadFileError:           "I/O load file error",
	FrnDecode:                 "Syntax tree decoding failed",
	FrnCommand:                "Frontend command failed",
	IntAnalysisFailure:        "Analysis failure",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DFA%04d", ic)
	case ic >= 9000 && ic < 9100:
		return fmt.Sprintf("IOE%04d", ic)
	case ic >= 9100 && ic < 9200:
		return fmt.Sprintf("FRN%04d", ic)
	case ic >= 9900 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
