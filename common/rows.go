package common

// RowKind identifies which slice of a contact record a data row carries.
// The relational source stores one row per kind per contact, all in one
// table, discriminated by this kind.
type RowKind int

const (
	RowName RowKind = iota
	RowPhone
	RowEmail
	RowPhoto
)

func (k RowKind) String() string {
	switch k {
	case RowName:
		return "name"
	case RowPhone:
		return "phone"
	case RowEmail:
		return "email"
	case RowPhoto:
		return "photo"
	default:
		return "unknown"
	}
}

// AllRowKinds is the full set of row kinds a bulk listing scans, in scan order.
var AllRowKinds = []RowKind{RowName, RowPhone, RowEmail, RowPhoto}

// DataRow is one raw row from the relational contact source. Which of the
// payload fields is meaningful depends on Kind: name rows use Value for the
// display name and Aux for the Ethereum identity slot, phone and email rows
// use Value only, photo rows use PhotoURI only.
type DataRow struct {
	ContactID string
	Kind      RowKind
	Value     string
	Aux       string
	PhotoURI  string
}

// Header is the existence record of a contact: the fields every lookup
// starts from. A contact with no header does not exist.
type Header struct {
	DisplayName string
	PhotoURI    string
}
