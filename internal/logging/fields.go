package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSource is the key for astronomical source identifiers.
	FieldSource = "source"
	// FieldElement is the key for element symbols used in species partitions.
	FieldElement = "element"
	// FieldBand is the key for the inferred telescope band.
	FieldBand = "band"
	// FieldRunID is the key for persisted correction run identifiers.
	FieldRunID = "run_id"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)
