package main

import (
	"context"
	"errors"
	"net"

	"fileshelf/internal/api"
	"fileshelf/internal/server"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode {
		case server.ErrCodeNoConfig:
			lines = append(lines, "hint: no catalog configured yet; apply one with: fileshelf snapshot apply -f <file>")
		case server.ErrCodeReferenceNotFound:
			lines = append(lines, "hint: tags and category values must exist in the catalog; check with: fileshelf tags / fileshelf categories")
		case server.ErrCodeSourceFailure:
			lines = append(lines, "hint: the source path is read by the server process; pass a path it can access.")
		case server.ErrCodeStoreUnavailable:
			lines = append(lines, "hint: the database could not be opened; verify FILESHELF_DB points to a writable location.")
		}
		if apiErr.Code == "resource_exhausted" {
			lines = append(lines, "hint: another import is running; retry shortly.")
		}
		if apiErr.Code == "" {
			lines = append(lines, "hint: verify FILESHELF_API_URL points to a fileshelf server.")
		}
		if apiErr.Status >= 500 {
			lines = append(lines, "hint: server returned an internal error; check server logs for details.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check server health or increase FILESHELF_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: ensure a fileshelf server is running at FILESHELF_API_URL.",
			"hint: start local server manually with: fileshelf srv",
		)
		return uniqueLines(lines)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
