package job

// Record is one row of the job table (immutable value object).
type Record struct {
	title  string
	city   Field
	state  Field
	salary Field
}

// NewRecord creates a record from raw table cells.
func NewRecord(title, city, state, salary string) Record {
	return Record{
		title:  NewField(title).String(),
		city:   NewField(city),
		state:  NewField(state),
		salary: NewField(salary),
	}
}

// Reconstruct creates a record from already decided fields (cache hydration, tests).
func Reconstruct(title string, city, state, salary Field) Record {
	return Record{title: title, city: city, state: state, salary: salary}
}

// Title returns the job title, "" when the cell was missing.
func (r Record) Title() string { return r.title }

// City returns the city field.
func (r Record) City() Field { return r.city }

// State returns the state field.
func (r Record) State() Field { return r.state }

// Salary returns the salary display string.
func (r Record) Salary() Field { return r.salary }
