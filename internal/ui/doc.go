// Package ui renders a corpus run: a live progress view while units execute,
// then the results table, the summary and the history log.
package ui
