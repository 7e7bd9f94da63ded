// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/colepa/colepa-tui/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports a session to a standalone HTML page with embedded
// CSS. Fenced code blocks get server-side syntax highlighting so the
// page needs no JavaScript.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates an HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a session to HTML.
func (e *HTMLExporter) Export(session *model.Session) ([]byte, error) {
	if session == nil {
		return nil, fmt.Errorf("session is nil")
	}
	msgs := exportable(session)
	if len(msgs) == 0 {
		return nil, fmt.Errorf("session has no messages")
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"es\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(session.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"colepa-tui\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", session.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(e.getCSS())
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.themeClass()))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(session, len(msgs)))
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range msgs {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exportado de <strong>COLEPA</strong> el %s</p>\n",
		time.Now().Format("2006-01-02 15:04")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns ".html".
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) themeClass() string {
	if e.options.Theme == "dark" {
		return "dark"
	}
	return "light"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderHeader(session *model.Session, count int) string {
	var sb strings.Builder
	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(session.Title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Creada:</strong> %s</span>\n", formatTimestamp(session.CreatedAt)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Mensajes:</strong> %d</span>\n", count))
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")
	return sb.String()
}

func (e *HTMLExporter) renderMessage(msg *model.Message) string {
	var sb strings.Builder

	roleClass := strings.ToLower(msg.Role.String())
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", roleClass))

	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", html.EscapeString(msg.Role.DisplayName())))
	if e.options.IncludeTimestamps {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")

	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(e.formatContent(msg.Content))
	sb.WriteString("\n                </div>\n")

	if e.options.IncludeMetadata && msg.Metadata != nil {
		sb.WriteString(e.renderExtras(msg.Metadata))
	}

	sb.WriteString("            </div>\n")
	return sb.String()
}

func (e *HTMLExporter) renderExtras(meta *model.Metadata) string {
	var sb strings.Builder

	if line := citationLine(meta.Source); line != "" {
		sb.WriteString(fmt.Sprintf("                <div class=\"citation\">Fuente: %s</div>\n", html.EscapeString(line)))
	}
	if len(meta.Recommendations) > 0 {
		sb.WriteString("                <ul class=\"recommendations\">\n")
		for _, rec := range meta.Recommendations {
			sb.WriteString(fmt.Sprintf("                    <li>%s</li>\n", html.EscapeString(rec)))
		}
		sb.WriteString("                </ul>\n")
	}
	if meta.ProcessingTimeMs > 0 {
		sb.WriteString(fmt.Sprintf("                <div class=\"stats\">Procesado en %s</div>\n",
			model.FormatProcessingTime(meta.ProcessingTimeMs)))
	}
	return sb.String()
}

// =============================================================================
// CONTENT FORMATTING
// =============================================================================

var (
	codeBlockRegex  = regexp.MustCompile("(?s)```([a-zA-Z0-9_+-]*)\n(.*?)```")
	boldRegex       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRegex     = regexp.MustCompile(`\*(.+?)\*`)
	inlineCodeRegex = regexp.MustCompile("`([^`]+)`")
)

// formatContent converts the light markdown used in answers to HTML.
// Order matters: code blocks are lifted out first, then bold before
// italics so "**x**" never half-matches as emphasis, then line breaks.
func (e *HTMLExporter) formatContent(content string) string {
	// Lift code blocks out before escaping so highlighting sees raw code.
	type block struct{ html string }
	var blocks []block
	content = codeBlockRegex.ReplaceAllStringFunc(content, func(match string) string {
		parts := codeBlockRegex.FindStringSubmatch(match)
		blocks = append(blocks, block{html: e.highlightCode(parts[1], parts[2])})
		return fmt.Sprintf("\x00BLOCK%d\x00", len(blocks)-1)
	})

	content = html.EscapeString(content)
	content = inlineCodeRegex.ReplaceAllString(content, `<code class="inline-code">$1</code>`)
	content = boldRegex.ReplaceAllString(content, "<strong>$1</strong>")
	content = italicRegex.ReplaceAllString(content, "<em>$1</em>")
	content = strings.ReplaceAll(content, "\n", "<br>\n")

	for i, b := range blocks {
		content = strings.Replace(content, fmt.Sprintf("\x00BLOCK%d\x00", i), b.html, 1)
	}
	return content
}

// highlightCode renders a fenced block through chroma. Unknown languages
// fall back to plain preformatted text.
func (e *HTMLExporter) highlightCode(lang, code string) string {
	code = strings.TrimRight(code, "\n")

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := "github"
	if e.themeClass() == "dark" {
		styleName = "monokai"
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "<pre><code>" + html.EscapeString(code) + "</code></pre>"
	}

	var sb strings.Builder
	formatter := chromahtml.New(chromahtml.WithLineNumbers(false))
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return "<pre><code>" + html.EscapeString(code) + "</code></pre>"
	}
	return "<div class=\"code-block\">" + sb.String() + "</div>"
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

func (e *HTMLExporter) getCSS() string {
	return `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Fira Code", "Source Code Pro", monospace;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --text-primary: #24292e;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --user-bg: #eef3fb;
            --assistant-bg: #ffffff;
            --accent: #1a56a0;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --border-color: #414868;
            --user-bg: #1f2335;
            --assistant-bg: #24283b;
            --accent: #7aa2f7;
        }

        body {
            font-family: var(--font-sans);
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 820px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            overflow: hidden;
        }

        .header {
            padding: 28px 32px;
            border-bottom: 1px solid var(--border-color);
        }

        .header h1 { font-size: 1.4rem; color: var(--accent); }

        .metadata { margin-top: 8px; color: var(--text-muted); font-size: 0.85rem; }
        .meta-item { margin-right: 16px; }

        .conversation { padding: 24px 32px; }

        .message {
            margin-bottom: 20px;
            padding: 14px 18px;
            border: 1px solid var(--border-color);
            border-radius: 10px;
        }
        .user-message { background: var(--user-bg); }
        .assistant-message { background: var(--assistant-bg); }

        .message-header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 8px;
            font-size: 0.85rem;
        }
        .role-label { font-weight: 600; color: var(--accent); }
        .timestamp { color: var(--text-muted); }

        .citation {
            margin-top: 10px;
            padding: 8px 12px;
            border-left: 3px solid var(--accent);
            font-size: 0.9rem;
            color: var(--text-muted);
        }

        .recommendations { margin: 8px 0 0 24px; font-size: 0.9rem; }
        .stats { margin-top: 6px; font-size: 0.8rem; color: var(--text-muted); }

        .inline-code {
            font-family: var(--font-mono);
            font-size: 0.9em;
            padding: 1px 5px;
            border-radius: 4px;
            background: var(--bg-primary);
        }

        .code-block {
            margin: 10px 0;
            border-radius: 8px;
            overflow-x: auto;
            font-family: var(--font-mono);
            font-size: 0.9em;
        }
        .code-block pre { padding: 12px; }

        .footer {
            padding: 18px 32px;
            border-top: 1px solid var(--border-color);
            color: var(--text-muted);
            font-size: 0.85rem;
        }
    </style>
`
}
