package kernel

// Versioned is embedded by aggregates persisted with optimistic concurrency.
// Repositories write with "WHERE version = Version()" and call AdvanceVersion
// once the row was accepted. A new aggregate starts at version 0.
type Versioned struct {
	version int
}

func RestoreVersioned(version int) Versioned {
	return Versioned{version: version}
}

func (v *Versioned) Version() int {
	return v.version
}

func (v *Versioned) AdvanceVersion() {
	v.version++
}
