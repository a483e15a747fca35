package forms

// Form tracks the transient state of one mounted step form: current
// values, per-field errors and which fields the user has touched. It is
// not safe for concurrent use; callers serialize access.
type Form struct {
	schema  *Schema
	initial map[string]string
	values  map[string]string
	errors  map[string]string
	touched map[string]bool
}

// New mounts a form for the given schema. Missing initial values default
// to the empty string, so every schema field is always present in values.
func New(schema *Schema, initial map[string]string) *Form {
	base := make(map[string]string, len(schema.fields))
	for _, field := range schema.fields {
		base[field] = initial[field]
	}
	f := &Form{
		schema:  schema,
		initial: base,
		values:  make(map[string]string, len(base)),
		errors:  make(map[string]string),
		touched: make(map[string]bool),
	}
	for k, v := range base {
		f.values[k] = v
	}
	return f
}

// Change updates one field and revalidates the whole object, but only the
// changed field's error is set or cleared. Other fields keep whatever
// error state they had.
func (f *Form) Change(field, value string) {
	if _, ok := f.values[field]; !ok {
		return
	}
	f.values[field] = value

	errs := f.schema.Validate(f.values)
	if msg, bad := errs[field]; bad {
		f.errors[field] = msg
	} else {
		delete(f.errors, field)
	}
}

// Blur marks a field as touched. Validation already ran on the change
// that preceded the blur.
func (f *Form) Blur(field string) {
	if _, ok := f.values[field]; !ok {
		return
	}
	f.touched[field] = true
}

// Submit validates the whole object. On failure every field is marked
// touched so previously unvisited fields surface their errors, and the
// commit is blocked.
func (f *Form) Submit() bool {
	errs := f.schema.Validate(f.values)
	if len(errs) == 0 {
		f.errors = make(map[string]string)
		return true
	}
	f.errors = errs
	for _, field := range f.schema.fields {
		f.touched[field] = true
	}
	return false
}

// Reset restores the initial values and clears all error and touched
// state.
func (f *Form) Reset() {
	for k, v := range f.initial {
		f.values[k] = v
	}
	f.errors = make(map[string]string)
	f.touched = make(map[string]bool)
}

// Has reports whether the field belongs to the mounted schema.
func (f *Form) Has(field string) bool {
	_, ok := f.values[field]
	return ok
}

// Value returns the current value of one field.
func (f *Form) Value(field string) string {
	return f.values[field]
}

// Values returns a copy of all current values.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Errors returns a copy of all current field errors, touched or not.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// VisibleErrors returns only the errors whose field has been touched.
// A field shows no error until the user has interacted with it.
func (f *Form) VisibleErrors() map[string]string {
	out := make(map[string]string)
	for field, msg := range f.errors {
		if f.touched[field] {
			out[field] = msg
		}
	}
	return out
}

// Touched reports whether the user has blurred the field at least once.
func (f *Form) Touched(field string) bool {
	return f.touched[field]
}
