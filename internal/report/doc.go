// Package report renders run summaries in text, JSON, and Markdown.
package report
