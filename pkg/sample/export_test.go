package sample

// Poke changes a property behind the sample's back. It lets tests check
// that derived values are not recomputed.
func (s *Sample) Poke(prop, val string) { s.props[prop] = val }
