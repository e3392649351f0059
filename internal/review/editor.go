package review

import (
	"fmt"
	"os"
	"os/exec"
)

// editorFallbacks is tried in order when $EDITOR is unset.
var editorFallbacks = []string{"nano", "vim", "vi"}

// DefaultEditor writes content to a temp file, opens it in the operator's
// editor wired to the terminal, and returns the saved content.
func DefaultEditor(content []byte) ([]byte, error) {
	tmp, err := os.CreateTemp("", "linktolead-edit-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	editor, err := resolveEditor()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("editor %s exited with error: %w", editor, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return edited, nil
}

// resolveEditor honors $EDITOR, then falls back to common terminal editors.
func resolveEditor() (string, error) {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor, nil
	}
	for _, candidate := range editorFallbacks {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no editor found: set EDITOR or install one of %v", editorFallbacks)
}
