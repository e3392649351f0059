// Package review implements the human-in-the-loop confirmation step: the
// formatted payload is presented to the operator, who can approve it, edit
// it in an external editor, or abort the run. The loop is deliberately
// unbounded; the human is the final correctness check before an external,
// hard-to-undo write.
package review

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/linktolead/internal/observability"
	"github.com/jonathan/linktolead/internal/types"
)

// State is a reviewer state machine state.
type State int

// Reviewer states. Presented and Editing cycle until a terminal state
// (Approved or Aborted) is reached.
const (
	StatePresented State = iota
	StateEditing
	StateApproved
	StateAborted
)

// Outcome is the terminal result of a review session.
type Outcome int

// Review outcomes.
const (
	OutcomeApproved Outcome = iota
	OutcomeAborted
)

// payloadSchema structurally validates an operator edit before the
// required-field validation runs. It rejects edits that change the document
// shape (dropped sections, non-string property values).
const payloadSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["company", "deal"],
  "additionalProperties": false,
  "properties": {
    "company": {"$ref": "#/definitions/object"},
    "deal": {"$ref": "#/definitions/object"}
  },
  "definitions": {
    "object": {
      "type": "object",
      "required": ["properties"],
      "additionalProperties": false,
      "properties": {
        "properties": {
          "type": "object",
          "additionalProperties": {"type": "string"}
        }
      }
    }
  }
}`

// editHeader is prepended to the temp document opened in the editor.
const editHeader = `# Edit the payload below and save the file when done.
# Keep the company/deal/properties structure intact; values must be strings.

`

// EditorFunc opens content for interactive editing and returns the edited
// content. Injected so tests can script edits without a terminal.
type EditorFunc func(content []byte) ([]byte, error)

// ValidateFunc re-checks a payload after a successful edit re-parse.
type ValidateFunc func(*types.Payload) error

// EditParseError reports an operator edit that could not be re-parsed into a
// payload. It returns the reviewer to the Editing state; it never aborts the
// run.
type EditParseError struct {
	Message string
	Cause   error
}

func (e *EditParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("edit parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("edit parse error: %s", e.Message)
}

func (e *EditParseError) Unwrap() error {
	return e.Cause
}

// Reviewer runs the approve/edit/abort loop.
type Reviewer struct {
	in       *bufio.Scanner
	out      io.Writer
	editor   EditorFunc
	validate ValidateFunc
	printer  *observability.Printer

	// pending holds the operator's raw edit after a failed re-parse, so the
	// next editor invocation re-opens their work instead of the last good
	// payload.
	pending []byte
}

// New creates a Reviewer reading operator responses from in and writing
// prompts to out.
func New(in io.Reader, out io.Writer, editor EditorFunc, validate ValidateFunc) *Reviewer {
	return &Reviewer{
		in:       bufio.NewScanner(in),
		out:      out,
		editor:   editor,
		validate: validate,
		printer:  observability.NewPrinter(out),
	}
}

// Run drives the state machine until the operator approves or aborts.
// On approval it returns the payload as last approved (including any edits).
// The returned error is non-nil only for unrecoverable I/O failures, such as
// the editor process itself failing.
//
//nolint:errcheck // prompt writes to the terminal are not recoverable
func (r *Reviewer) Run(payload *types.Payload) (Outcome, *types.Payload, error) {
	current := payload.Clone()
	state := StatePresented

	for {
		switch state {
		case StatePresented:
			fmt.Fprintf(r.out, "\nReady to send:\n")
			r.printer.PrintPayload(current)
			fmt.Fprintf(r.out, "\nApprove sending this payload? [y]es / [n]o, edit / [q]uit: ")

			switch r.readResponse() {
			case "y", "yes":
				state = StateApproved
			case "n", "no", "e", "edit":
				state = StateEditing
			case "q", "quit", "abort", "": // EOF reads as empty: treat as abort
				state = StateAborted
			default:
				fmt.Fprintf(r.out, "Please answer y, n, or q.\n")
			}

		case StateEditing:
			edited, err := r.editOnce(current)
			if err != nil {
				var parseErr *EditParseError
				if errors.As(err, &parseErr) {
					// Malformed edit: report and stay in Editing.
					fmt.Fprintf(r.out, "\n%v\nRe-opening editor...\n", err)
					continue
				}
				return OutcomeAborted, nil, err
			}
			r.pending = nil
			current = edited
			state = StatePresented

		case StateApproved:
			return OutcomeApproved, current, nil

		case StateAborted:
			fmt.Fprintf(r.out, "\nAborted. Nothing was sent.\n")
			return OutcomeAborted, nil, nil
		}
	}
}

// editOnce runs the editor and re-parses and re-validates the result. The
// document opened is the operator's failed edit when one is pending,
// otherwise the serialized payload. On any parse or validation failure the
// edited bytes are kept as pending so no operator work is lost.
func (r *Reviewer) editOnce(current *types.Payload) (*types.Payload, error) {
	doc := r.pending
	if doc == nil {
		serialized, err := yaml.Marshal(current)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize payload for editing: %w", err)
		}
		doc = append([]byte(editHeader), serialized...)
	}

	edited, err := r.editor(doc)
	if err != nil {
		return nil, fmt.Errorf("editor failed: %w", err)
	}

	payload, err := ParseEdited(edited)
	if err != nil {
		r.pending = edited
		return nil, err
	}

	if r.validate != nil {
		if err := r.validate(payload); err != nil {
			r.pending = edited
			return nil, &EditParseError{Message: "edited payload failed validation", Cause: err}
		}
	}
	return payload, nil
}

// ParseEdited parses an edited YAML document back into a payload, checking
// its structure against the payload schema first.
func ParseEdited(content []byte) (*types.Payload, error) {
	var generic map[string]any
	if err := yaml.Unmarshal(content, &generic); err != nil {
		return nil, &EditParseError{Message: "invalid YAML", Cause: err}
	}
	if generic == nil {
		return nil, &EditParseError{Message: "document is empty"}
	}

	jsonDoc, err := json.Marshal(generic)
	if err != nil {
		return nil, &EditParseError{Message: "document is not representable as JSON", Cause: err}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(payloadSchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return nil, &EditParseError{Message: "schema validation failed", Cause: err}
	}
	if !result.Valid() {
		var sb strings.Builder
		for i, desc := range result.Errors() {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(desc.String())
		}
		return nil, &EditParseError{Message: "edited document has wrong structure: " + sb.String()}
	}

	var payload types.Payload
	if err := yaml.Unmarshal(content, &payload); err != nil {
		return nil, &EditParseError{Message: "failed to decode payload", Cause: err}
	}
	if payload.Company.Properties == nil {
		payload.Company.Properties = map[string]string{}
	}
	if payload.Deal.Properties == nil {
		payload.Deal.Properties = map[string]string{}
	}
	return &payload, nil
}

func (r *Reviewer) readResponse() string {
	if !r.in.Scan() {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(r.in.Text()))
}
