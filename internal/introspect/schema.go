package introspect

import "time"

// Kind is the category of a schema object.
type Kind int

const (
	Table Kind = iota
	View
	Procedure
)

// Kinds lists every category in document order.
var Kinds = []Kind{Table, View, Procedure}

// Keyword is the SQL keyword used in DROP statements.
func (k Kind) Keyword() string {
	switch k {
	case Table:
		return "TABLE"
	case View:
		return "VIEW"
	case Procedure:
		return "PROCEDURE"
	default:
		return ""
	}
}

// Label prefixes an object's heading, e.g. "Table orders".
func (k Kind) Label() string {
	switch k {
	case Table:
		return "Table"
	case View:
		return "View"
	case Procedure:
		return "Procedure"
	default:
		return ""
	}
}

// Section is the document section title for the category.
func (k Kind) Section() string {
	switch k {
	case Table:
		return "Tables"
	case View:
		return "Views"
	case Procedure:
		return "Stored Procedures"
	default:
		return ""
	}
}

func (k Kind) String() string {
	return k.Label()
}

// Catalog holds the object names of one database, each list sorted.
type Catalog struct {
	Tables     []string
	Views      []string
	Procedures []string
}

// Names returns the list for k.
func (c Catalog) Names(k Kind) []string {
	switch k {
	case Table:
		return c.Tables
	case View:
		return c.Views
	case Procedure:
		return c.Procedures
	default:
		return nil
	}
}

// Row is one retrieved table row. Values[i] belongs to Columns[i]; a nil
// value is SQL NULL.
type Row struct {
	Columns []string
	Values  []any
}

// Object is a fully serialized schema object.
type Object struct {
	Kind    Kind
	Name    string
	Drop    string
	Create  string
	Inserts []string // tables only
}

// Dump is everything needed to render the document for one database.
type Dump struct {
	Database   string
	Generated  time.Time
	Tables     []Object
	Views      []Object
	Procedures []Object
}

// Objects returns the objects of kind k in document order.
func (d *Dump) Objects(k Kind) []Object {
	switch k {
	case Table:
		return d.Tables
	case View:
		return d.Views
	case Procedure:
		return d.Procedures
	default:
		return nil
	}
}

// Add appends o to the list matching its kind.
func (d *Dump) Add(o Object) {
	switch o.Kind {
	case Table:
		d.Tables = append(d.Tables, o)
	case View:
		d.Views = append(d.Views, o)
	case Procedure:
		d.Procedures = append(d.Procedures, o)
	}
}
