package logging

// Structured log keys. The transformer and the vault runner log with the
// same literal keys.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	FieldCursor    = "cursor"
	FieldSelection = "selection"
	FieldBytes     = "bytes"
	FieldTokens    = "tokens"
	FieldMarkers   = "markers"
	FieldStyles    = "styles"
	FieldElapsed   = "elapsed"

	FieldFiles       = "files"
	FieldDiagnostics = "diagnostics"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
