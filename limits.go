package opc

type Limits struct {
	MaxArchiveSize      uint64 // compressed archive bytes, for OpenReader
	MaxParts            int
	MaxPartSize         uint64 // uncompressed bytes of a single part
	MaxTotalSize        uint64 // uncompressed bytes of all parts
	MaxContentTypesSize uint64 // uncompressed bytes of [Content_Types].xml
}

func defaultLimits() Limits {
	return Limits{
		MaxArchiveSize:      2 << 30, // 2 GiB
		MaxParts:            10_000,
		MaxPartSize:         512 << 20, // 512 MiB
		MaxTotalSize:        4 << 30,   // 4 GiB
		MaxContentTypesSize: 1 << 20,   // 1 MiB
	}
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits { return defaultLimits() }

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxArchiveSize == 0 {
		l.MaxArchiveSize = d.MaxArchiveSize
	}
	if l.MaxParts == 0 {
		l.MaxParts = d.MaxParts
	}
	if l.MaxPartSize == 0 {
		l.MaxPartSize = d.MaxPartSize
	}
	if l.MaxTotalSize == 0 {
		l.MaxTotalSize = d.MaxTotalSize
	}
	if l.MaxContentTypesSize == 0 {
		l.MaxContentTypesSize = d.MaxContentTypesSize
	}
	return l
}
