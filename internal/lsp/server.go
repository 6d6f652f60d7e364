package lsp

import (
	"context"
	"path/filepath"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"quill/internal/driver"
	"quill/internal/project"
)

const lsName = "quill"

var log = commonlog.GetLogger("quill.lsp")

// Server publishes lexical and syntax diagnostics for open .ql buffers.
type Server struct {
	handler  protocol.Handler
	server   *server.Server
	docs     *documents
	manifest *project.Manifest
	version  string
}

// NewServer creates a server; manifest may be nil, then quill.toml is
// discovered from the workspace root on initialize.
func NewServer(version string, manifest *project.Manifest) *Server {
	s := &Server{
		docs:     newDocuments(),
		manifest: manifest,
		version:  version,
	}
	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}
	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

// RunStdio serves LSP over stdin/stdout until the client exits.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if s.manifest == nil {
		root := "."
		if params.RootURI != nil && *params.RootURI != "" {
			if p := uriToPath(*params.RootURI); p != "" {
				root = p
			}
		} else if params.RootPath != nil && *params.RootPath != "" {
			root = *params.RootPath
		}
		m, err := project.Discover(root)
		if err != nil {
			log.Warningf("manifest in %s: %v; using defaults", root, err)
			m = project.Default()
		}
		s.manifest = m
	}

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(true)},
	}
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	s.docs.open(doc.URI, doc.Version, doc.Text)
	s.publish(ctx, doc.URI)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	if !s.docs.apply(uri, params.TextDocument.Version, params.ContentChanges) {
		log.Warningf("change for unopened document %s", uri)
		return nil
	}
	s.publish(ctx, uri)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.docs.close(uri)
	// снимаем старые диагностики у клиента
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	if params.Text != nil {
		doc, ok := s.docs.snapshot(uri)
		if !ok {
			return nil
		}
		s.docs.open(uri, doc.version, *params.Text)
	}
	s.publish(ctx, uri)
	return nil
}

// publish parses the current buffer of uri and sends its diagnostics.
func (s *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri) {
	doc, ok := s.docs.snapshot(uri)
	if !ok {
		return
	}
	name := uriToPath(uri)
	if name == "" {
		name = uri
	}
	res, err := driver.ParseSource(context.Background(), filepath.ToSlash(name), doc.text, driver.Options{Manifest: s.manifest})
	if err != nil {
		log.Errorf("parse %s: %v", uri, err)
		return
	}
	version := protocol.UInteger(max(doc.version, 0))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: toProtocolDiagnostics(uri, res.File, res.Bag),
	})
	log.Debugf("published %d diagnostics for %s", res.Bag.Len(), uri)
}

func boolPtr(b bool) *bool { return &b }
