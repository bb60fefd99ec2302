package api

import (
	"fmt"

	"github.com/tokenstrip/tokenstrip/internal/config"
	"github.com/tokenstrip/tokenstrip/internal/helpers"
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/js_parser"
	"github.com/tokenstrip/tokenstrip/internal/js_printer"
	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/internal/shadow"
	"github.com/tokenstrip/tokenstrip/internal/transform"
)

type parsedFile struct {
	source logger.Source
	tokens []js_ast.Token
	scopes []js_ast.Scope
}

func newSource(code string, filePath string) logger.Source {
	prettyPath := filePath
	if prettyPath == "" {
		prettyPath = "<stdin>"
	}
	return logger.Source{PrettyPath: prettyPath, Contents: code}
}

func errorPrefix(filePath string) string {
	if filePath == "" {
		return ""
	}
	return fmt.Sprintf("Error transforming %s: ", filePath)
}

func convertMessages(msgs []logger.Msg, prefix string) []Message {
	var errors []Message
	for _, msg := range msgs {
		if msg.Kind != logger.Error {
			continue
		}
		var location *Location
		if loc := msg.Location; loc != nil {
			location = &Location{
				File:     loc.File,
				Line:     loc.Line,
				Column:   loc.Column,
				Length:   loc.Length,
				LineText: loc.LineText,
			}
		}
		errors = append(errors, Message{Text: prefix + msg.Text, Location: location})
	}
	return errors
}

// Internal errors are bugs, not problems with the input. They are still
// reported as messages so that one bad file doesn't take down a whole batch.
func reportPanic(log logger.Log, source *logger.Source, r interface{}) {
	if err, ok := r.(js_printer.InternalError); ok {
		if err.Offset < 0 || int(err.Offset) > len(source.Contents) {
			source = nil
		}
		log.AddError(source, logger.Loc{Start: err.Offset}, fmt.Sprintf("Internal error: %s", err.Text))
		return
	}
	log.AddError(nil, logger.Loc{}, fmt.Sprintf("panic: %v\n%s", r, helpers.PrettyPrintedStack()))
}

func runTransform(log logger.Log, source logger.Source, options config.Options) (result transform.Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			reportPanic(log, &source, r)
			result = transform.Result{}
			ok = false
		}
	}()
	return transform.Transform(log, source, options)
}

func runParse(log logger.Log, source logger.Source, options js_parser.Options) (file js_parser.File, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			reportPanic(log, &source, r)
			file = js_parser.File{}
			ok = false
		}
	}()
	return js_parser.Parse(log, source, options)
}

// Options are validated before anything is lexed. A failure returns only
// the error messages.
func transformWithMessages(code string, options TransformOptions) (logger.Source, transform.Result, []Message) {
	prefix := errorPrefix(options.FilePath)
	log := logger.NewDeferLog()
	transformOptions := validateTransformOptions(log, options)
	if options.Timing {
		transformOptions.Timer = &helpers.Timer{}
	}
	source := newSource(code, options.FilePath)
	if log.HasErrors() {
		return source, transform.Result{}, convertMessages(log.Done(), prefix)
	}

	result, ok := runTransform(log, source, transformOptions)
	if !ok || log.HasErrors() {
		return source, transform.Result{}, convertMessages(log.Done(), prefix)
	}
	return source, result, nil
}

func transformImpl(code string, options TransformOptions) TransformResult {
	_, result, errors := transformWithMessages(code, options)
	if errors != nil {
		return TransformResult{Errors: errors}
	}
	transformResult := TransformResult{
		Code:      string(result.JS),
		SourceMap: result.SourceMap,
	}
	for _, phase := range result.Timer.Phases() {
		transformResult.Phases = append(transformResult.Phases, Phase{
			Name:     phase.Name,
			Depth:    phase.Depth,
			Duration: phase.Duration,
		})
	}
	return transformResult
}

func convertTokens(source logger.Source, tokens []js_ast.Token) []Token {
	result := make([]Token, len(tokens))
	for i, token := range tokens {
		t := Token{
			Kind:           token.Type.String(),
			Text:           source.Contents[token.Start:token.End],
			Start:          int(token.Start),
			End:            int(token.End),
			IdentifierRole: token.IdentifierRole.String(),
			ScopeDepth:     int(token.ScopeDepth),
			IsType:         token.IsType,
			ShadowsGlobal:  token.ShadowsGlobal,
			ContextID:      int(token.ContextID),
			RHSEndIndex:    int(token.RHSEndIndex),
		}
		if token.ContextualKeyword != js_lexer.ContextualNone {
			t.ContextualKeyword = token.ContextualKeyword.String()
		}
		result[i] = t
	}
	return result
}

func convertScopes(scopes []js_ast.Scope) []Scope {
	result := make([]Scope, len(scopes))
	for i, scope := range scopes {
		result[i] = Scope{
			StartTokenIndex: int(scope.StartTokenIndex),
			EndTokenIndex:   int(scope.EndTokenIndex),
			IsFunctionScope: scope.IsFunctionScope,
		}
	}
	return result
}

func tokenizeImpl(code string, options TokenizeOptions) TokenizeResult {
	log := logger.NewDeferLog()
	source := newSource(code, options.FilePath)
	file, ok := runParse(log, source, js_parser.Options{})
	if !ok {
		return TokenizeResult{Errors: convertMessages(log.Done(), errorPrefix(options.FilePath))}
	}
	return TokenizeResult{Tokens: convertTokens(source, file.Tokens)}
}

func parseScopesImpl(code string, options ParseOptions) ParseResult {
	prefix := errorPrefix(options.FilePath)
	log := logger.NewDeferLog()
	flags := validateTransforms(log, options.Transforms)
	if log.HasErrors() {
		return ParseResult{Errors: convertMessages(log.Done(), prefix)}
	}

	source := newSource(code, options.FilePath)
	file, ok := runParse(log, source, js_parser.Options{JSX: flags.jsx, TypeDialect: flags.dialect})
	if !ok {
		return ParseResult{Errors: convertMessages(log.Done(), prefix)}
	}
	return ParseResult{
		Tokens: convertTokens(source, file.Tokens),
		Scopes: convertScopes(file.Scopes),
		file:   &parsedFile{source: source, tokens: file.Tokens, scopes: file.Scopes},
	}
}

func computeShadowedGlobalsImpl(result *ParseResult, code string, globalNames map[string]bool) {
	if result.file == nil {
		return
	}
	file := result.file
	source := logger.Source{PrettyPath: file.source.PrettyPath, Contents: code}
	shadow.IdentifyShadowedGlobals(source, file.tokens, file.scopes, globalNames)
	for i := range result.Tokens {
		result.Tokens[i].ShadowsGlobal = file.tokens[i].ShadowsGlobal
	}
}

func formatMessagesImpl(msgs []Message, options FormatMessagesOptions) []string {
	stderrOptions := logger.StderrOptions{IncludeSource: options.IncludeSource}
	terminalInfo := logger.TerminalInfo{UseColorEscapes: options.Color}
	strings := make([]string, len(msgs))

	for i, msg := range msgs {
		internal := logger.Msg{Kind: logger.Error, Text: msg.Text}
		if loc := msg.Location; loc != nil {
			internal.Location = &logger.MsgLocation{
				File:     loc.File,
				Line:     loc.Line,
				Column:   loc.Column,
				Length:   loc.Length,
				LineText: loc.LineText,
			}
		}
		strings[i] = internal.String(stderrOptions, terminalInfo)
	}
	return strings
}
