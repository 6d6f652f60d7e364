package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"quill/internal/diag"
	"quill/internal/source"
)

const diagnosticSource = "quill"

// toProtocolDiagnostics converts the bag of file into LSP diagnostics. Notes
// become related information pointing into the same document.
func toProtocolDiagnostics(uri protocol.DocumentUri, file *source.File, bag *diag.Bag) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, bag.Len())
	src := diagnosticSource
	for _, d := range bag.Items() {
		sev := severity(d.Severity)
		pd := protocol.Diagnostic{
			Range:    rangeForSpan(file, d.Primary),
			Severity: &sev,
			Code:     &protocol.IntegerOrString{Value: d.Code.ID()},
			Source:   &src,
			Message:  d.Message,
		}
		for _, n := range d.Notes {
			pd.RelatedInformation = append(pd.RelatedInformation, protocol.DiagnosticRelatedInformation{
				Location: protocol.Location{URI: uri, Range: rangeForSpan(file, n.Span)},
				Message:  n.Msg,
			})
		}
		out = append(out, pd)
	}
	return out
}

func severity(s diag.Severity) protocol.DiagnosticSeverity {
	if s == diag.SevWarning {
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityError
}
