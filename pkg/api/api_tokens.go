package api

import (
	"fmt"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/logger"
)

var rawTextEscaper = strings.NewReplacer("\n", "\\n", "\r", "\\r", "\t", "\\t")

// Offsets must be passed in increasing order
type lineColumnTracker struct {
	contents string
	offset   int
	line     int
	column   int
}

func (t *lineColumnTracker) advance(offset int) string {
	for t.offset < offset {
		if t.contents[t.offset] == '\n' {
			t.line++
			t.column = 0
		} else {
			t.column++
		}
		t.offset++
	}
	return fmt.Sprintf("%d:%d", t.line+1, t.column+1)
}

func tokenInfo(token *js_ast.Token) string {
	var info []string
	if token.ContextualKeyword != js_lexer.ContextualNone {
		info = append(info, "keyword="+token.ContextualKeyword.String())
	}
	if token.IdentifierRole != js_ast.RoleNone {
		info = append(info, "role="+token.IdentifierRole.String())
	}
	if token.ScopeDepth != 0 {
		info = append(info, fmt.Sprintf("depth=%d", token.ScopeDepth))
	}
	if token.IsType {
		info = append(info, "type")
	}
	if token.ShadowsGlobal {
		info = append(info, "shadowsGlobal")
	}
	if token.IsExpression {
		info = append(info, "expression")
	}
	if token.IsAsyncOperation {
		info = append(info, "async")
	}
	if token.IsOptionalChainStart {
		info = append(info, "chainStart")
	}
	if token.IsOptionalChainEnd {
		info = append(info, "chainEnd")
	}
	if token.NumNullishCoalesceStarts != 0 {
		info = append(info, fmt.Sprintf("nullishStarts=%d", token.NumNullishCoalesceStarts))
	}
	if token.NumNullishCoalesceEnds != 0 {
		info = append(info, fmt.Sprintf("nullishEnds=%d", token.NumNullishCoalesceEnds))
	}
	if token.ContextID != js_ast.NoIndex {
		info = append(info, fmt.Sprintf("context=%d", token.ContextID))
	}
	if token.RHSEndIndex != js_ast.NoIndex {
		info = append(info, fmt.Sprintf("rhsEnd=%d", token.RHSEndIndex))
	}
	if token.SubscriptStartIndex != js_ast.NoIndex {
		info = append(info, fmt.Sprintf("subscriptStart=%d", token.SubscriptStartIndex))
	}
	if token.NullishStartIndex != js_ast.NoIndex {
		info = append(info, fmt.Sprintf("nullishStart=%d", token.NullishStartIndex))
	}
	return strings.Join(info, " ")
}

func formatTokenTable(source logger.Source, tokens []js_ast.Token) string {
	rows := [][]string{{"Location", "Label", "Raw", "Info"}}
	tracker := lineColumnTracker{contents: source.Contents}
	for i := range tokens {
		token := &tokens[i]
		start := tracker.advance(int(token.Start))
		end := tracker.advance(int(token.End))
		rows = append(rows, []string{
			start + "-" + end,
			token.Type.String(),
			rawTextEscaper.Replace(source.Contents[token.Start:token.End]),
			tokenInfo(token),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	sb := strings.Builder{}
	for _, row := range rows {
		line := strings.Builder{}
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(cell)
			if i+1 < len(row) {
				line.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatTokensImpl(code string, options TransformOptions) (string, []Message) {
	source, result, errors := transformWithMessages(code, options)
	if errors != nil {
		return "", errors
	}
	return formatTokenTable(source, result.Tokens), nil
}

func formatTokensJSONImpl(code string, options TransformOptions) ([]byte, []Message) {
	source, result, errors := transformWithMessages(code, options)
	if errors != nil {
		return nil, errors
	}
	encoded, err := json.Marshal(convertTokens(source, result.Tokens))
	if err != nil {
		return nil, []Message{{Text: errorPrefix(options.FilePath) + err.Error()}}
	}
	return encoded, nil
}
