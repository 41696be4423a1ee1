package db

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tranvictor/ethbook/common"
)

// Mem is a lightweight in-memory contact source for tests. It keeps raw
// rows in a plain slice and mirrors the row shapes and return contracts of
// SQLiteSource without touching disk. Error fields, when set, are returned
// by the matching method so degradation paths can be exercised; UpdateCalls
// counts UpdateAuxValue invocations so tests can assert a write never
// happened.
//
// Example:
//
//	src := db.NewMem()
//	id := src.Add("Vitalik Buterin", "+1-555-0100", "v@ethereum.org", "vitalik.eth")
//	src.AddRow(common.DataRow{ContactID: src.AllocID(), Kind: common.RowPhone, Value: "+1-555-0111"})
type Mem struct {
	Rows        []common.DataRow
	UpdateCalls int

	ListErr   error
	HeaderErr error
	FieldErr  error
	AuxErr    error
	UpdateErr error
	CreateErr error

	nextID int64
}

func NewMem() *Mem {
	return &Mem{nextID: 1}
}

// AllocID hands out the next contact id without creating any rows.
func (m *Mem) AllocID() string {
	id := strconv.FormatInt(m.nextID, 10)
	m.nextID++
	return id
}

// Add seeds a complete contact (name row plus optional phone and email
// rows) and returns its id. The aux value rides on the name row, as it
// does in the real source.
func (m *Mem) Add(displayName, phone, email, aux string) string {
	id := m.AllocID()
	m.Rows = append(m.Rows, common.DataRow{ContactID: id, Kind: common.RowName, Value: displayName, Aux: aux})
	if phone != "" {
		m.Rows = append(m.Rows, common.DataRow{ContactID: id, Kind: common.RowPhone, Value: phone})
	}
	if email != "" {
		m.Rows = append(m.Rows, common.DataRow{ContactID: id, Kind: common.RowEmail, Value: email})
	}
	return id
}

// AddRow appends one raw row for shapes Add cannot produce, such as a
// contact with no name row.
func (m *Mem) AddRow(row common.DataRow) {
	m.Rows = append(m.Rows, row)
}

func (m *Mem) ListDataRows(kinds ...common.RowKind) ([]common.DataRow, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	wanted := map[common.RowKind]bool{}
	for _, k := range kinds {
		wanted[k] = true
	}
	var result []common.DataRow
	for _, row := range m.Rows {
		if wanted[row.Kind] {
			result = append(result, row)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return lessID(result[i].ContactID, result[j].ContactID)
	})
	return result, nil
}

func (m *Mem) ContactHeader(id string) (common.Header, error) {
	if m.HeaderErr != nil {
		return common.Header{}, m.HeaderErr
	}
	header := common.Header{}
	found := false
	for _, row := range m.Rows {
		if row.ContactID != id {
			continue
		}
		found = true
		switch row.Kind {
		case common.RowName:
			if header.DisplayName == "" {
				header.DisplayName = row.Value
			}
		case common.RowPhoto:
			if header.PhotoURI == "" {
				header.PhotoURI = row.PhotoURI
			}
		}
	}
	if !found {
		return common.Header{}, fmt.Errorf("contact %s: %w", id, common.ErrNotFound)
	}
	return header, nil
}

func (m *Mem) FieldValue(id string, kind common.RowKind) (string, bool, error) {
	if m.FieldErr != nil {
		return "", false, m.FieldErr
	}
	for _, row := range m.Rows {
		if row.ContactID == id && row.Kind == kind {
			return row.Value, true, nil
		}
	}
	return "", false, nil
}

func (m *Mem) AuxValue(id string) (string, bool, error) {
	if m.AuxErr != nil {
		return "", false, m.AuxErr
	}
	for _, row := range m.Rows {
		if row.ContactID == id && row.Kind == common.RowName {
			return row.Aux, true, nil
		}
	}
	return "", false, nil
}

func (m *Mem) UpdateAuxValue(id, value string) (bool, error) {
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return false, m.UpdateErr
	}
	for i, row := range m.Rows {
		if row.ContactID == id && row.Kind == common.RowName {
			m.Rows[i].Aux = value
			return true, nil
		}
	}
	return false, nil
}

func (m *Mem) CreateContact(displayName, phone, email string) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	return m.Add(displayName, phone, email, ""), nil
}

// Contact ids are decimal strings; compare them numerically when possible
// so id "10" sorts after id "9".
func lessID(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
