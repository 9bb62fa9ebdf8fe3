package store

import (
	"log/slog"

	"github.com/google/uuid"
)

// Every option type below is applied once, at construction, and the result
// is stored on the built object. Nothing is looked up through parents later.

type schemaOptions struct {
	open          bool
	caseSensitive bool
	def           Value
	hasDef        bool
}

type SchemaOption func(*schemaOptions)

// WithOpenFields lets records register unknown fields on first write.
func WithOpenFields() SchemaOption {
	return func(o *schemaOptions) { o.open = true }
}

// WithCaseSensitive makes field name lookups exact; by default names are
// case folded.
func WithCaseSensitive() SchemaOption {
	return func(o *schemaOptions) { o.caseSensitive = true }
}

// WithSchemaDefault sets the value read back for any unset field that has
// no default of its own.
func WithSchemaDefault(v Value) SchemaOption {
	return func(o *schemaOptions) {
		o.def = v
		o.hasDef = true
	}
}

type fieldOptions struct {
	def           Value
	hasDef        bool
	unique        bool
	caseSensitive *bool
}

type FieldOption func(*fieldOptions)

func WithDefault(v Value) FieldOption {
	return func(o *fieldOptions) {
		o.def = v
		o.hasDef = true
	}
}

// WithUnique marks the field unique, which also registers a unique single
// field index named after the field.
func WithUnique() FieldOption {
	return func(o *fieldOptions) { o.unique = true }
}

// WithFieldCaseSensitive overrides the schema wide setting for the values of
// one field, which decides whether its index key component is folded.
func WithFieldCaseSensitive(b bool) FieldOption {
	return func(o *fieldOptions) { o.caseSensitive = &b }
}

type options struct {
	name     string
	id       uuid.UUID
	reporter Reporter
}

// Option configures a RecordSet.
type Option func(*options)

func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func WithID(id uuid.UUID) Option {
	return func(o *options) { o.id = id }
}

// WithReporter injects the sink for developer fatal conditions. If nil is
// passed, reports are dropped.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		if r == nil {
			r = NopReporter()
		}
		o.reporter = r
	}
}

func newOptions(opts []Option) options {
	o := options{
		reporter: NopReporter(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}
	return o
}

type selectOptions struct {
	alias string
	trace *slog.Logger
	opts  []Option
}

type SelectOption func(*selectOptions)

// WithAlias changes the source alias records are bound to while the where
// program runs, R1 by default.
func WithAlias(alias string) SelectOption {
	return func(o *selectOptions) { o.alias = alias }
}

// WithTrace logs every machine step of the scan at debug level.
func WithTrace(logger *slog.Logger) SelectOption {
	return func(o *selectOptions) { o.trace = logger }
}

// WithResultOptions configures the RecordSet produced by Select.
func WithResultOptions(opts ...Option) SelectOption {
	return func(o *selectOptions) { o.opts = append(o.opts, opts...) }
}
