package prefs

// Mem is an in-memory preference store for tests. It keeps entries in a
// plain map under the same keys the file store persists, so tests can
// assert the key layout directly. Err, when set, is returned by
// SetEnsOverride so write failures can be exercised.
type Mem struct {
	Values map[string]string
	Err    error
}

func NewMem() *Mem {
	return &Mem{Values: map[string]string{}}
}

func (m *Mem) EnsOverride(id string) (string, bool) {
	value, ok := m.Values[EnsKey(id)]
	return value, ok
}

func (m *Mem) SetEnsOverride(id, value string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Values[EnsKey(id)] = value
	return nil
}
