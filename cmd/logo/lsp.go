package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"os"
	"strconv"
)

const (
	lspErrInvalidParams  = -32602
	lspErrMethodNotFound = -32601
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspTextDocumentID struct {
	URI string `json:"uri"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument   lspTextDocumentID `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspDocumentParams struct {
	TextDocument lspTextDocumentID `json:"textDocument"`
}

type lspPositionParams struct {
	TextDocument lspTextDocumentID `json:"textDocument"`
	Position     lspPosition       `json:"position"`
}

type lspPublishDiagnosticsParams struct {
	URI         string          `json:"uri"`
	Diagnostics []lspDiagnostic `json:"diagnostics"`
}

type (
	lspNotificationHandler func(s *lspServer, params json.RawMessage) []lspOutboundMessage
	lspRequestHandler      func(s *lspServer, params json.RawMessage) (any, *lspResponseError)
)

var lspNotifications = map[string]lspNotificationHandler{
	"initialized":            func(*lspServer, json.RawMessage) []lspOutboundMessage { return nil },
	"exit":                   func(*lspServer, json.RawMessage) []lspOutboundMessage { return nil },
	"textDocument/didOpen":   (*lspServer).didOpen,
	"textDocument/didChange": (*lspServer).didChange,
	"textDocument/didClose":  (*lspServer).didClose,
}

var lspRequests = map[string]lspRequestHandler{
	"initialize":                  (*lspServer).initialize,
	"shutdown":                    func(*lspServer, json.RawMessage) (any, *lspResponseError) { return nil, nil },
	"textDocument/completion":     (*lspServer).completion,
	"textDocument/hover":          (*lspServer).hover,
	"textDocument/definition":     (*lspServer).definition,
	"textDocument/documentSymbol": (*lspServer).documentSymbol,
}

// lspServer speaks the language server protocol over a Content-Length
// framed stream, holding the latest text of every open document.
type lspServer struct {
	reader *textproto.Reader
	writer *bufio.Writer
	docs   map[string]*lspDocument
}

func newLSPServer(r io.Reader, w io.Writer) *lspServer {
	return &lspServer{
		reader: textproto.NewReader(bufio.NewReader(r)),
		writer: bufio.NewWriter(w),
		docs:   make(map[string]*lspDocument),
	}
}

func runLSP() error {
	return newLSPServer(os.Stdin, os.Stdout).serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}
		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}
		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	if handle, ok := lspNotifications[incoming.Method]; ok {
		return handle(s, incoming.Params)
	}
	if incoming.ID == nil {
		return nil
	}

	reply := lspOutboundMessage{JSONRPC: "2.0", ID: incoming.ID}
	handle, ok := lspRequests[incoming.Method]
	if !ok {
		reply.Error = &lspResponseError{Code: lspErrMethodNotFound, Message: "method not found"}
		return []lspOutboundMessage{reply}
	}
	reply.Result, reply.Error = handle(s, incoming.Params)
	return []lspOutboundMessage{reply}
}

func (s *lspServer) initialize(json.RawMessage) (any, *lspResponseError) {
	return map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync":       1,
			"hoverProvider":          true,
			"definitionProvider":     true,
			"documentSymbolProvider": true,
			"completionProvider": map[string]any{
				"resolveProvider": false,
			},
		},
		"serverInfo": map[string]any{"name": "logo-lsp"},
	}, nil
}

func (s *lspServer) didOpen(raw json.RawMessage) []lspOutboundMessage {
	var params lspDidOpenParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil
	}
	return s.store(params.TextDocument.URI, params.TextDocument.Text)
}

func (s *lspServer) didChange(raw json.RawMessage) []lspOutboundMessage {
	var params lspDidChangeParams
	if err := json.Unmarshal(raw, &params); err != nil || len(params.ContentChanges) == 0 {
		return nil
	}
	latest := params.ContentChanges[len(params.ContentChanges)-1].Text
	return s.store(params.TextDocument.URI, latest)
}

func (s *lspServer) didClose(raw json.RawMessage) []lspOutboundMessage {
	var params lspDocumentParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil
	}
	delete(s.docs, params.TextDocument.URI)
	return []lspOutboundMessage{publishDiagnostics(params.TextDocument.URI, []lspDiagnostic{})}
}

func (s *lspServer) store(uri, text string) []lspOutboundMessage {
	doc := newLSPDocument(text)
	s.docs[uri] = doc
	return []lspOutboundMessage{publishDiagnostics(uri, doc.diagnostics())}
}

func publishDiagnostics(uri string, diags []lspDiagnostic) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params:  lspPublishDiagnosticsParams{URI: uri, Diagnostics: diags},
	}
}

func (s *lspServer) document(uri string) *lspDocument {
	if doc, ok := s.docs[uri]; ok {
		return doc
	}
	return newLSPDocument("")
}

func (s *lspServer) completion(raw json.RawMessage) (any, *lspResponseError) {
	var params lspDocumentParams
	_ = json.Unmarshal(raw, &params)
	return map[string]any{
		"isIncomplete": false,
		"items":        s.document(params.TextDocument.URI).completionItems(),
	}, nil
}

func (s *lspServer) hover(raw json.RawMessage) (any, *lspResponseError) {
	var params lspPositionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &lspResponseError{Code: lspErrInvalidParams, Message: "invalid hover params"}
	}
	hover, ok := s.document(params.TextDocument.URI).hover(params.Position)
	if !ok {
		return nil, nil
	}
	return hover, nil
}

func (s *lspServer) definition(raw json.RawMessage) (any, *lspResponseError) {
	var params lspPositionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &lspResponseError{Code: lspErrInvalidParams, Message: "invalid definition params"}
	}
	rng, ok := s.document(params.TextDocument.URI).definition(params.Position)
	if !ok {
		return nil, nil
	}
	return lspLocation{URI: params.TextDocument.URI, Range: rng}, nil
}

func (s *lspServer) documentSymbol(raw json.RawMessage) (any, *lspResponseError) {
	var params lspDocumentParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &lspResponseError{Code: lspErrInvalidParams, Message: "invalid documentSymbol params"}
	}
	return s.document(params.TextDocument.URI).symbols(), nil
}

func (s *lspServer) readPayload() ([]byte, error) {
	header, err := s.reader.ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	raw := header.Get("Content-Length")
	if raw == "" {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid Content-Length %q", raw)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(s.reader.R, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
